package get

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
)

type fakeRemote struct {
	queue []episode.Episode
}

func (r *fakeRemote) RecentEpisodes(context.Context) ([]episode.Episode, error) {
	return []episode.Episode{{ID: 42, Title: "Fresh"}}, nil
}
func (r *fakeRemote) QueuedEpisodes(context.Context) ([]episode.Episode, error) { return r.queue, nil }
func (r *fakeRemote) SavedEpisodes(context.Context) ([]episode.Episode, error)  { return nil, nil }
func (r *fakeRemote) History(context.Context) ([]episode.Episode, error)        { return nil, nil }
func (r *fakeRemote) ReorderQueue(context.Context, []episode.ID) error          { return nil }
func (r *fakeRemote) QueueEpisode(context.Context, episode.ID, bool) (string, error) {
	return "", errors.New("unsupported")
}
func (r *fakeRemote) RemoveQueuedEpisode(context.Context, episode.ID, bool) (string, error) {
	return "", errors.New("unsupported")
}

func TestGetPrintsQueue(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	g := Get{
		Page:    app.Queue,
		Service: &app.Service{Remote: &fakeRemote{queue: []episode.Episode{{ID: 1, Title: "Pilot", Duration: 60}}}},
		Out:     &buf,
	}
	if err := g.Do(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(buf.String(), "Queue - 1 episode") || !strings.Contains(buf.String(), "Pilot") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestGetAllJSON(t *testing.T) {
	var buf bytes.Buffer
	g := Get{
		All:     true,
		JSON:    true,
		Service: &app.Service{Remote: &fakeRemote{}},
		Out:     &buf,
	}
	if err := g.Do(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	var pages []struct {
		Page     string            `json:"page"`
		Episodes []episode.Episode `json:"episodes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &pages); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if len(pages) != len(app.Pages) || pages[0].Page != "feed" || pages[0].Episodes[0].ID != 42 {
		t.Fatalf("unexpected pages %+v", pages)
	}
}

func TestGetRequiresService(t *testing.T) {
	if err := (&Get{}).Do(context.Background()); err == nil {
		t.Fatal("expected an error without a service")
	}
}
