package mcp

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
)

type memoryRemote struct {
	mu      sync.Mutex
	queue   []episode.Episode
	reorder [][]episode.ID
	fail    error
}

func (r *memoryRemote) RecentEpisodes(context.Context) ([]episode.Episode, error) {
	return []episode.Episode{{ID: 42, Title: "Fresh", Duration: 600}}, nil
}

func (r *memoryRemote) QueuedEpisodes(context.Context) ([]episode.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return episode.CloneAll(r.queue), nil
}

func (r *memoryRemote) SavedEpisodes(context.Context) ([]episode.Episode, error) { return nil, nil }
func (r *memoryRemote) History(context.Context) ([]episode.Episode, error)       { return nil, nil }

func (r *memoryRemote) ReorderQueue(_ context.Context, ids []episode.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reorder = append(r.reorder, append([]episode.ID(nil), ids...))
	if r.fail != nil {
		return r.fail
	}
	byID := make(map[episode.ID]episode.Episode, len(r.queue))
	for _, e := range r.queue {
		byID[e.ID] = e
	}
	next := make([]episode.Episode, 0, len(ids))
	for _, id := range ids {
		next = append(next, byID[id])
	}
	r.queue = next
	return nil
}

func (r *memoryRemote) QueueEpisode(context.Context, episode.ID, bool) (string, error) {
	return "", errors.New("unsupported")
}

func (r *memoryRemote) RemoveQueuedEpisode(context.Context, episode.ID, bool) (string, error) {
	return "", errors.New("unsupported")
}

func (r *memoryRemote) saves() [][]episode.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]episode.ID(nil), r.reorder...)
}

func queueOf(n int) []episode.Episode {
	out := make([]episode.Episode, n)
	for i := range out {
		out[i] = episode.Episode{ID: episode.ID(i + 1), Title: "Episode " + episode.ID(i+1).String(), Duration: 60}
	}
	return out
}

func newTestService(remote *memoryRemote) *Service {
	return NewService(&app.Service{Remote: remote}, nil)
}

func TestListEpisodesFeed(t *testing.T) {
	svc := newTestService(&memoryRemote{})
	defer svc.Close()

	dto, err := svc.ListEpisodes(context.Background(), app.Feed, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if dto.Page != "feed" || dto.Count != 1 || dto.Episodes[0].ID != 42 {
		t.Fatalf("unexpected page %+v", dto)
	}
	if dto.Episodes[0].Duration != "10:00" {
		t.Fatalf("duration = %q", dto.Episodes[0].Duration)
	}
}

func TestMoveEpisodeIsOptimistic(t *testing.T) {
	remote := &memoryRemote{queue: queueOf(5)}
	svc := newTestService(remote)

	dto, err := svc.MoveEpisode(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !dto.Moved || dto.From != 0 || dto.To != 3 {
		t.Fatalf("unexpected move %+v", dto)
	}
	if want := []int32{2, 3, 4, 1, 5}; !reflect.DeepEqual(dto.Order, want) {
		t.Fatalf("order = %v, want %v", dto.Order, want)
	}

	listing, err := svc.ListEpisodes(context.Background(), app.Queue, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listing.Episodes[3].ID != 1 {
		t.Fatalf("queue listing does not reflect the move: %+v", listing.Episodes)
	}

	svc.Close()
	saves := remote.saves()
	if len(saves) != 1 || !reflect.DeepEqual(saves[0], []episode.ID{2, 3, 4, 1, 5}) {
		t.Fatalf("saves = %v", saves)
	}
}

func TestMoveEpisodeSameIndexDoesNotSave(t *testing.T) {
	remote := &memoryRemote{queue: queueOf(3)}
	svc := newTestService(remote)

	dto, err := svc.MoveEpisode(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if dto.Moved {
		t.Fatalf("expected no-op move, got %+v", dto)
	}
	svc.Close()
	if saves := remote.saves(); len(saves) != 0 {
		t.Fatalf("unexpected saves %v", saves)
	}
}

func TestMoveEpisodeFailureKeepsLocalOrder(t *testing.T) {
	remote := &memoryRemote{queue: queueOf(3), fail: errors.New("server down")}
	svc := newTestService(remote)
	defer svc.Close()

	if _, err := svc.MoveEpisode(context.Background(), 3, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	svc.owner.Wait()

	dto, err := svc.MoveEpisode(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if want := []int32{3, 1, 2}; !reflect.DeepEqual(dto.Order, want) {
		t.Fatalf("order = %v, want %v", dto.Order, want)
	}
	if !dto.Diverged || !strings.Contains(dto.LastSave, "server down") {
		t.Fatalf("expected divergence to be reported, got %+v", dto)
	}
}

func TestMoveEpisodeUnknown(t *testing.T) {
	svc := newTestService(&memoryRemote{queue: queueOf(2)})
	defer svc.Close()

	if _, err := svc.MoveEpisode(context.Background(), 99, 0); !errors.Is(err, app.ErrNotInQueue) {
		t.Fatalf("expected ErrNotInQueue, got %v", err)
	}
}

func TestSetQueueOrderReloads(t *testing.T) {
	remote := &memoryRemote{queue: queueOf(3)}
	svc := newTestService(remote)
	defer svc.Close()

	dto, err := svc.SetQueueOrder(context.Background(), []episode.ID{3, 2, 1})
	if err != nil {
		t.Fatalf("set order: %v", err)
	}
	got := []int32{dto.Episodes[0].ID, dto.Episodes[1].ID, dto.Episodes[2].ID}
	if !reflect.DeepEqual(got, []int32{3, 2, 1}) {
		t.Fatalf("order = %v", got)
	}
	if _, err := svc.SetQueueOrder(context.Background(), nil); err == nil {
		t.Fatal("expected an error for an empty order")
	}
}

func TestWindowUsesPixelGeometry(t *testing.T) {
	svc := newTestService(&memoryRemote{queue: queueOf(20)})
	defer svc.Close()

	w, err := svc.Window(context.Background(), app.Queue, 1000, 1024, 400)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if w.ItemHeight != 237 || w.UsableHeight != 300 || w.Class != "wide" {
		t.Fatalf("unexpected geometry %+v", w)
	}
	if w.Start != 2 || w.End != 9 || w.VisibleCount != 3 {
		t.Fatalf("unexpected window %d..%d visible %d", w.Start, w.End, w.VisibleCount)
	}
	if w.TopSpacer != 474 || w.BottomSpacer != 2607 {
		t.Fatalf("unexpected spacers %v/%v", w.TopSpacer, w.BottomSpacer)
	}
	if len(w.Rows) != 7 || w.Rows[0].ID != 3 || !strings.HasPrefix(w.Rows[0].Key, "3-") {
		t.Fatalf("unexpected rows %+v", w.Rows)
	}
}

func TestSummaries(t *testing.T) {
	svc := newTestService(&memoryRemote{queue: queueOf(2)})
	defer svc.Close()

	sums := svc.Summaries(context.Background())
	if len(sums) != len(app.Pages) {
		t.Fatalf("expected %d summaries, got %d", len(app.Pages), len(sums))
	}
	for _, s := range sums {
		if s.Page == "queue" && (s.Episodes != 2 || s.Remaining != "2:00") {
			t.Fatalf("unexpected queue summary %+v", s)
		}
	}
}

func TestConcurrentMovesReportTheirOwnOrder(t *testing.T) {
	remote := &memoryRemote{queue: queueOf(10)}
	svc := newTestService(remote)
	defer svc.Close()

	var wg sync.WaitGroup
	results := make([]*MoveDTO, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.MoveEpisode(context.Background(), episode.ID(i+3), 0)
		}(i)
	}
	wg.Wait()

	for i, dto := range results {
		if errs[i] != nil {
			t.Fatalf("move %d: %v", i+3, errs[i])
		}
		if dto.To != 0 || dto.Order[0] != dto.ID {
			t.Fatalf("move %d saw an interleaved order: %+v", dto.ID, dto)
		}
		if dto.Moved != (dto.From != 0) {
			t.Fatalf("move %d: moved=%t from=%d", dto.ID, dto.Moved, dto.From)
		}
	}
}
