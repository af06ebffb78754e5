package app

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/store"
)

var _ reorder.Persister = (*Service)(nil)

type memoryRemote struct {
	mu      sync.Mutex
	queue   []episode.Episode
	feed    []episode.Episode
	err     error
	reorder [][]episode.ID
}

func (m *memoryRemote) list(eps []episode.Episode) ([]episode.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return episode.CloneAll(eps), nil
}

func (m *memoryRemote) RecentEpisodes(context.Context) ([]episode.Episode, error) {
	return m.list(m.feed)
}

func (m *memoryRemote) QueuedEpisodes(context.Context) ([]episode.Episode, error) {
	return m.list(m.queue)
}

func (m *memoryRemote) SavedEpisodes(context.Context) ([]episode.Episode, error) {
	return m.list(nil)
}

func (m *memoryRemote) History(context.Context) ([]episode.Episode, error) {
	return m.list(nil)
}

func (m *memoryRemote) ReorderQueue(_ context.Context, ids []episode.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reorder = append(m.reorder, append([]episode.ID(nil), ids...))
	byID := map[episode.ID]episode.Episode{}
	for _, e := range m.queue {
		byID[e.ID] = e
	}
	next := make([]episode.Episode, 0, len(ids))
	for _, id := range ids {
		next = append(next, byID[id])
	}
	m.queue = next
	return nil
}

func (m *memoryRemote) QueueEpisode(_ context.Context, id episode.ID, _ bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, episode.Episode{ID: id})
	return "queued", nil
}

func (m *memoryRemote) RemoveQueuedEpisode(_ context.Context, id episode.ID, _ bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := episode.Index(m.queue, id); i >= 0 {
		m.queue = append(m.queue[:i], m.queue[i+1:]...)
	}
	return "removed", nil
}

// memoryCache is an in-memory store.Cache.
type memoryCache struct {
	mu    sync.Mutex
	pages map[string]*store.Snapshot
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pages: map[string]*store.Snapshot{}}
}

func (m *memoryCache) Put(page string, eps []episode.Episode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = &store.Snapshot{Page: page, Saved: time.Now(), Episodes: episode.CloneAll(eps)}
	return nil
}

func (m *memoryCache) Get(page string) (*store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.pages[page]
	if !ok {
		return nil, store.ErrNotCached
	}
	cp := *snap
	cp.Episodes = episode.CloneAll(snap.Episodes)
	return &cp, nil
}

func (m *memoryCache) Pages(context.Context) []string { return nil }

func (m *memoryCache) Delete(page string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, page)
	return nil
}

func (m *memoryCache) Watch(context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

func eps(ids ...episode.ID) []episode.Episode {
	out := make([]episode.Episode, len(ids))
	for i, id := range ids {
		out[i] = episode.Episode{ID: id, PodcastName: "P", Duration: 100}
	}
	return out
}

func TestLoadCachesAndFallsBack(t *testing.T) {
	remote := &memoryRemote{queue: eps(1, 2, 3)}
	cache := newMemoryCache()
	svc := &Service{Remote: remote, Cache: cache}
	ctx := context.Background()

	res, err := svc.Load(ctx, Queue)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stale || !reflect.DeepEqual(episode.IDs(res.Episodes), []episode.ID{1, 2, 3}) {
		t.Fatalf("unexpected result %+v", res)
	}

	remote.err = errors.New("offline")
	res, err = svc.Load(ctx, Queue)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Stale || res.Err == nil || len(res.Episodes) != 3 {
		t.Fatalf("expected stale cached result, got %+v", res)
	}

	if _, err := svc.Load(ctx, Saved); err == nil {
		t.Fatal("expected error when neither server nor cache has the page")
	}
}

func TestLoadWithoutSources(t *testing.T) {
	if _, err := (&Service{}).Load(context.Background(), Feed); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestReorderQueueUpdatesCache(t *testing.T) {
	remote := &memoryRemote{queue: eps(1, 2, 3)}
	cache := newMemoryCache()
	svc := &Service{Remote: remote, Cache: cache}
	ctx := context.Background()
	if _, err := svc.Load(ctx, Queue); err != nil {
		t.Fatal(err)
	}

	if err := svc.ReorderQueue(ctx, []episode.ID{3, 1, 2}); err != nil {
		t.Fatal(err)
	}
	snap, _ := cache.Get("queue")
	if got := episode.IDs(snap.Episodes); !reflect.DeepEqual(got, []episode.ID{3, 1, 2}) {
		t.Fatalf("cached order = %v", got)
	}
	if p := snap.Episodes[0].QueuePosition; p == nil || *p != 1 {
		t.Fatalf("queue position not refreshed")
	}
}

func TestMove(t *testing.T) {
	remote := &memoryRemote{queue: eps(1, 2, 3, 4, 5)}
	svc := &Service{Remote: remote}
	ctx := context.Background()

	got, err := svc.Move(ctx, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []episode.ID{2, 3, 4, 1, 5}
	if !reflect.DeepEqual(episode.IDs(got), want) {
		t.Fatalf("order = %v, want %v", episode.IDs(got), want)
	}
	if len(remote.reorder) != 1 || !reflect.DeepEqual(remote.reorder[0], want) {
		t.Fatalf("persisted %v", remote.reorder)
	}

	if _, err := svc.Move(ctx, 4, 2); err != nil {
		t.Fatal(err)
	}
	if len(remote.reorder) != 1 {
		t.Fatalf("moving to the same index should not persist")
	}

	if _, err := svc.Move(ctx, 42, 0); !errors.Is(err, ErrNotInQueue) {
		t.Fatalf("expected ErrNotInQueue, got %v", err)
	}
}

func TestMoveNeedsServer(t *testing.T) {
	cache := newMemoryCache()
	_ = cache.Put("queue", eps(1, 2, 3))
	svc := &Service{Cache: cache}

	_, err := svc.Move(context.Background(), 1, 2)
	if !errors.Is(err, ErrNoRemote) {
		t.Fatalf("expected ErrNoRemote, got %v", err)
	}
}

func TestMoveRefusesStaleQueue(t *testing.T) {
	cache := newMemoryCache()
	_ = cache.Put("queue", eps(1, 2, 3))
	remote := &memoryRemote{err: errors.New("offline")}
	svc := &Service{Remote: remote, Cache: cache}

	_, err := svc.Move(context.Background(), 1, 2)
	if err == nil || !strings.Contains(err.Error(), "stale") || strings.Contains(err.Error(), "%!") {
		t.Fatalf("unexpected error %v", err)
	}
	if len(remote.reorder) != 0 {
		t.Fatalf("stale queue must not be persisted: %v", remote.reorder)
	}
}

func TestEnqueueDequeueRefreshCache(t *testing.T) {
	remote := &memoryRemote{queue: eps(1)}
	cache := newMemoryCache()
	svc := &Service{Remote: remote, Cache: cache}
	ctx := context.Background()

	if _, err := svc.Enqueue(ctx, 9, false); err != nil {
		t.Fatal(err)
	}
	snap, err := cache.Get("queue")
	if err != nil {
		t.Fatal(err)
	}
	if got := episode.IDs(snap.Episodes); !reflect.DeepEqual(got, []episode.ID{1, 9}) {
		t.Fatalf("cached queue = %v", got)
	}
	if _, err := svc.Dequeue(ctx, 1, false); err != nil {
		t.Fatal(err)
	}
	snap, _ = cache.Get("queue")
	if got := episode.IDs(snap.Episodes); !reflect.DeepEqual(got, []episode.ID{9}) {
		t.Fatalf("cached queue = %v", got)
	}
}

func TestLoadAll(t *testing.T) {
	svc := &Service{Remote: &memoryRemote{queue: eps(1), feed: eps(2, 3)}}
	all, err := svc.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(Pages) || len(all[Feed].Episodes) != 2 {
		t.Fatalf("unexpected results %+v", all)
	}
}

func TestParsePage(t *testing.T) {
	for in, want := range map[string]Page{"home": Feed, " Queue ": Queue, "saved": Saved, "history": History} {
		got, err := ParsePage(in)
		if err != nil || got != want {
			t.Errorf("ParsePage(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePage("downloads"); err == nil {
		t.Error("expected error for unknown page")
	}
	if !Queue.Draggable() || Feed.Draggable() {
		t.Error("only the queue is draggable")
	}
}

func TestSummarize(t *testing.T) {
	list := []episode.Episode{
		{ID: 1, PodcastName: "B", Duration: 100, ListenSeconds: 40},
		{ID: 2, PodcastName: "A", Duration: 50, Completed: true},
		{ID: 3, PodcastName: "B", Duration: 10},
	}
	sum := Summarize(list)
	if sum.Episodes != 3 || sum.Completed != 1 || sum.Duration != 160 || sum.Remaining != 70 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(sum.Podcasts) != 2 || sum.Podcasts[0].Podcast != "B" || sum.Podcasts[0].Episodes != 2 {
		t.Fatalf("unexpected podcasts %+v", sum.Podcasts)
	}
}
