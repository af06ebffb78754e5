package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a cache change notification.
type EventType int

const (
	// EventPageChanged indicates the snapshot for Page was written or erased.
	EventPageChanged EventType = iota

	// EventCacheInvalidated signals a change that could not be attributed to
	// a single page; callers should reload everything they show.
	EventCacheInvalidated
)

// Event is emitted by Cache.Watch when the cache directory changes, e.g.
// when another pods process reorders the queue.
type Event struct {
	Type EventType
	Page string
}

// Watch streams page changes until ctx is cancelled. Snapshots live in one flat
// directory, so only that directory is watched. Events are coalesced per burst
// and dropped when the reader falls behind; the next burst carries the state.
// The channel is closed once ctx is done or the watcher fails.
func (c *cache) Watch(ctx context.Context) (<-chan Event, error) {
	if c.basePath == "" {
		return nil, errors.New("store: cache base path unknown")
	}
	dir := filepath.Join(c.basePath, pagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure pages dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer watcher.Close()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}
		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Overflow or similar; we no longer know which page moved.
				throttle.Enqueue(Event{Type: EventCacheInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				if page := c.pageForPath(evt.Name); page != "" {
					throttle.Enqueue(Event{Type: EventPageChanged, Page: page}, send)
				}
			}
		}
	}()

	return events, nil
}

// pageForPath maps a file in the pages directory to its page name. diskv's
// temp files do not decode and yield "".
func (c *cache) pageForPath(path string) string {
	if filepath.Dir(filepath.Clean(path)) != filepath.Join(c.basePath, pagesDir) {
		return ""
	}
	page, err := fromPage(filepath.Base(path))
	if err != nil {
		return ""
	}
	return page
}

// eventThrottle coalesces rapid change notifications so the UI can redraw once
// per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.Page] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	if _, ok := pending[EventCacheInvalidated]; ok {
		// A full reload covers every page change in the same burst.
		send(Event{Type: EventCacheInvalidated})
		return
	}
	for page := range pending[EventPageChanged] {
		send(Event{Type: EventPageChanged, Page: page})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
