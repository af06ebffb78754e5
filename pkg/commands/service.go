package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/client"
	"tableflip.dev/pods/pkg/store"
)

// session is the configured service plus whatever must be closed after it.
type session struct {
	Config  store.Config
	Cache   store.Cache
	Service *app.Service
	Logger  *log.Logger
	closer  io.Closer
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// newSession loads the config and wires the client, cache and service.
// Logs go to the configured debug_log file, to stderr with --verbose, or
// nowhere. The TUI passes quiet so it never writes to the terminal.
func newSession(quiet bool) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	s := &session{Config: cfg}

	var out io.Writer = io.Discard
	switch {
	case cfg.DebugLog() != "":
		f, err := os.OpenFile(cfg.DebugLog(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		out, s.closer = f, f
	case logs.Verbose && !quiet:
		out = os.Stderr
	}
	s.Logger = log.New(out, "pods: ", log.LstdFlags)

	cache, err := store.Load(cfg)
	if err != nil {
		s.Logger.Printf("cache disabled: %v", err)
	} else {
		s.Cache = cache
	}

	svc := &app.Service{Cache: s.Cache, Logger: s.Logger}
	if cfg.Server() != "" {
		c := client.New(cfg.Server(), cfg.APIKey(), cfg.UserID())
		c.Logger = s.Logger
		svc.Remote = c
	}
	s.Service = svc
	return s, nil
}
