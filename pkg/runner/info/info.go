// Package info reports where pods reads its configuration and cache.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/pods/pkg/store"
)

type Info struct {
	Config store.Config
	Cache  store.Cache
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("PODS_CONFIG_PATH"); override != "" {
		fmt.Fprintln(out, "PODS_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Fprintln(out, "PODS_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Config.cache: ", n.Config.BasePath())
	fmt.Fprintln(out, "Config.server:", n.Config.Server())
	fmt.Fprintln(out, "Config.user:  ", n.Config.UserID())
	key := "not set"
	if n.Config.APIKey() != "" {
		key = "set"
	}
	fmt.Fprintln(out, "Config.api_key:", key)

	if n.Cache == nil {
		return fmt.Errorf("failed to open the page cache")
	}

	fmt.Fprintf(out, "Cached pages:\n")
	found := 0
	for _, p := range n.Cache.Pages(ctx) {
		snap, err := n.Cache.Get(p)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "  %s (%d episodes, %s)\n", p, len(snap.Episodes), snap.Saved.Local().Format("2006-01-02 15:04"))
		found++
	}

	if found == 0 {
		fmt.Fprintf(out, "  %s\n", "no cached pages")
	}

	return nil
}
