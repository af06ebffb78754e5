package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tableflip.dev/pods/pkg/episode"
)

var (
	podcasts = []string{"Go Time", "Changelog", "Software Engineering Daily", "Cup o' Go", "Fallthrough"}
	topics   = []string{"generics", "profiling", "the scheduler", "error handling", "fuzzing", "modules", "iterators", "testing"}
)

// sampleRemote serves generated episodes and records queue saves.
type sampleRemote struct {
	mu      sync.Mutex
	feed    []episode.Episode
	queue   []episode.Episode
	history []episode.Episode
	saved   []episode.Episode

	latency time.Duration
	fail    bool
}

func newSampleRemote(seed int64, count int) *sampleRemote {
	rng := rand.New(rand.NewSource(seed))
	all := make([]episode.Episode, 0, count+40)
	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < count+40; i++ {
		duration := int32(900 + rng.Intn(5400))
		e := episode.Episode{
			ID:          episode.ID(1000 + i),
			Title:       fmt.Sprintf("Episode %d: %s", i+1, topics[rng.Intn(len(topics))]),
			PodcastName: podcasts[rng.Intn(len(podcasts))],
			PubDate:     start.Add(time.Duration(i) * 36 * time.Hour).Format("2006-01-02T15:04:05"),
			Description: fmt.Sprintf("<p>A conversation about <b>%s</b>.</p><p>Links in the show notes.</p>", topics[rng.Intn(len(topics))]),
			Duration:    duration,
		}
		switch rng.Intn(4) {
		case 0:
			e.ListenSeconds = int32(rng.Intn(int(duration)))
		case 1:
			e.Completed = true
			e.ListenSeconds = duration
		}
		e.Saved = rng.Intn(6) == 0
		all = append(all, e)
	}

	r := &sampleRemote{}
	r.queue = episode.CloneAll(all[:count])
	for i := range r.queue {
		pos := int32(i + 1)
		r.queue[i].QueuePosition = &pos
		r.queue[i].Queued = true
	}
	r.feed = episode.CloneAll(all[len(all)-40:])
	for _, e := range all {
		if e.Completed {
			r.history = append(r.history, e)
		}
		if e.Saved {
			r.saved = append(r.saved, e)
		}
	}
	return r
}

func (r *sampleRemote) RecentEpisodes(context.Context) ([]episode.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return episode.CloneAll(r.feed), nil
}

func (r *sampleRemote) QueuedEpisodes(context.Context) ([]episode.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return episode.CloneAll(r.queue), nil
}

func (r *sampleRemote) SavedEpisodes(context.Context) ([]episode.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return episode.CloneAll(r.saved), nil
}

func (r *sampleRemote) History(context.Context) ([]episode.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return episode.CloneAll(r.history), nil
}

func (r *sampleRemote) ReorderQueue(ctx context.Context, ids []episode.ID) error {
	select {
	case <-time.After(r.latency):
	case <-ctx.Done():
		return ctx.Err()
	}
	if r.fail {
		return errors.New("testbed: simulated save failure")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]episode.Episode, 0, len(ids))
	for i, id := range ids {
		idx := episode.Index(r.queue, id)
		if idx < 0 {
			return fmt.Errorf("testbed: episode %d is not queued", id)
		}
		e := r.queue[idx]
		pos := int32(i + 1)
		e.QueuePosition = &pos
		next = append(next, e)
	}
	r.queue = next
	return nil
}

func (r *sampleRemote) QueueEpisode(_ context.Context, id episode.ID, _ bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if episode.Index(r.queue, id) >= 0 {
		return "Episode already queued", nil
	}
	idx := episode.Index(r.feed, id)
	if idx < 0 {
		return "", fmt.Errorf("testbed: unknown episode %d", id)
	}
	e := r.feed[idx].Clone()
	e.Queued = true
	r.queue = append(r.queue, e)
	return "Episode queued", nil
}

func (r *sampleRemote) RemoveQueuedEpisode(_ context.Context, id episode.ID, _ bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := episode.Index(r.queue, id)
	if idx < 0 {
		return "", fmt.Errorf("testbed: episode %d is not queued", id)
	}
	r.queue = append(r.queue[:idx:idx], r.queue[idx+1:]...)
	return "Episode removed from queue", nil
}
