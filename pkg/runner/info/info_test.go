package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/store"
)

type settings struct{ dir string }

func (s settings) BasePath() string { return s.dir }
func (s settings) Server() string   { return "http://pods.test" }
func (s settings) APIKey() string   { return "" }
func (s settings) UserID() int32    { return 3 }
func (s settings) DebugLog() string { return "" }

func TestInfoListsCachedPages(t *testing.T) {
	cfg := settings{dir: t.TempDir()}
	cache, err := store.Load(cfg)
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	if err := cache.Put("queue", []episode.Episode{{ID: 1}, {ID: 2}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var buf bytes.Buffer
	n := Info{Config: cfg, Cache: cache, Out: &buf}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("info: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"http://pods.test", "api_key: not set", "queue (2 episodes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
