package queue

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
)

type fakeRemote struct {
	queue  []episode.Episode
	orders [][]episode.ID
	queued []episode.ID
}

func (r *fakeRemote) RecentEpisodes(context.Context) ([]episode.Episode, error) { return nil, nil }
func (r *fakeRemote) QueuedEpisodes(context.Context) ([]episode.Episode, error) {
	return episode.CloneAll(r.queue), nil
}
func (r *fakeRemote) SavedEpisodes(context.Context) ([]episode.Episode, error) { return nil, nil }
func (r *fakeRemote) History(context.Context) ([]episode.Episode, error)       { return nil, nil }

func (r *fakeRemote) ReorderQueue(_ context.Context, ids []episode.ID) error {
	r.orders = append(r.orders, ids)
	next := make([]episode.Episode, 0, len(ids))
	for _, id := range ids {
		next = append(next, r.queue[episode.Index(r.queue, id)])
	}
	r.queue = next
	return nil
}

func (r *fakeRemote) QueueEpisode(_ context.Context, id episode.ID, _ bool) (string, error) {
	r.queued = append(r.queued, id)
	return "Episode queued", nil
}

func (r *fakeRemote) RemoveQueuedEpisode(context.Context, episode.ID, bool) (string, error) {
	return "", nil
}

func five() []episode.Episode {
	out := make([]episode.Episode, 5)
	for i := range out {
		out[i] = episode.Episode{ID: episode.ID(i + 1)}
	}
	return out
}

func TestReorderMovesLikeADrop(t *testing.T) {
	remote := &fakeRemote{queue: five()}
	var buf bytes.Buffer
	r := Reorder{ID: 1, To: 3, JSON: true, Service: &app.Service{Remote: remote}, Out: &buf}
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	want := []episode.ID{2, 3, 4, 1, 5}
	if len(remote.orders) != 1 || !reflect.DeepEqual(remote.orders[0], want) {
		t.Fatalf("saved %v", remote.orders)
	}
	if strings.TrimSpace(buf.String()) != `{"order":[2,3,4,1,5]}` {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestReorderWithIDs(t *testing.T) {
	remote := &fakeRemote{queue: five()}
	var buf bytes.Buffer
	r := Reorder{IDs: []episode.ID{5, 4, 3, 2, 1}, JSON: true, Service: &app.Service{Remote: remote}, Out: &buf}
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `{"order":[5,4,3,2,1]}` {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestMembershipAdd(t *testing.T) {
	remote := &fakeRemote{}
	var buf bytes.Buffer
	m := Membership{ID: 9, Service: &app.Service{Remote: remote}, Out: &buf}
	if err := m.Do(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !reflect.DeepEqual(remote.queued, []episode.ID{9}) || strings.TrimSpace(buf.String()) != "Episode queued" {
		t.Fatalf("queued %v, output %q", remote.queued, buf.String())
	}

	buf.Reset()
	m = Membership{ID: 9, Remove: true, Service: &app.Service{Remote: remote}, Out: &buf}
	if err := m.Do(context.Background()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "ok" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
