package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/store"
)

// Remote is the server API the service needs. *client.Client implements it.
type Remote interface {
	RecentEpisodes(ctx context.Context) ([]episode.Episode, error)
	QueuedEpisodes(ctx context.Context) ([]episode.Episode, error)
	SavedEpisodes(ctx context.Context) ([]episode.Episode, error)
	History(ctx context.Context) ([]episode.Episode, error)
	ReorderQueue(ctx context.Context, ids []episode.ID) error
	QueueEpisode(ctx context.Context, id episode.ID, youtube bool) (string, error)
	RemoveQueuedEpisode(ctx context.Context, id episode.ID, youtube bool) (string, error)
}

// Service provides page loading and queue operations shared by the TUI, the
// CLI and the MCP server. Either collaborator may be nil.
type Service struct {
	Remote Remote
	Cache  store.Cache
	Logger *log.Logger

	mu sync.Mutex
}

var (
	// ErrNoRemote is returned by operations that need the server when none is configured.
	ErrNoRemote = errors.New("app: no server configured")
	// ErrNoSource is returned by Load when there is neither a server nor a cache.
	ErrNoSource = errors.New("app: no server or cache configured")
	// ErrNotInQueue is returned when a move names an episode missing from the queue.
	ErrNotInQueue = errors.New("app: episode is not queued")
)

// Result is a loaded page.
type Result struct {
	Page     Page
	Episodes []episode.Episode
	// Stale is set when the server failed and the cached snapshot was used.
	Stale bool
	Saved time.Time
	Err   error
}

func (s *Service) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}

// Load fetches page from the server and caches it. When the server is not
// reachable the cached snapshot is returned with Stale set and Err holding
// the server error.
func (s *Service) Load(ctx context.Context, page Page) (Result, error) {
	if s.Remote == nil && s.Cache == nil {
		return Result{Page: page}, ErrNoSource
	}
	var remoteErr error
	if s.Remote != nil {
		eps, err := s.fetch(ctx, page)
		if err == nil {
			s.remember(page, eps)
			return Result{Page: page, Episodes: eps, Saved: time.Now()}, nil
		}
		remoteErr = err
		s.logger().Printf("app: load %s from server: %v", page, err)
	}
	if s.Cache != nil {
		snap, err := s.Cache.Get(page.String())
		if err == nil {
			return Result{Page: page, Episodes: snap.Episodes, Stale: true, Saved: snap.Saved, Err: remoteErr}, nil
		}
		if remoteErr == nil {
			remoteErr = err
		}
	}
	return Result{Page: page}, remoteErr
}

// LoadAll loads every page concurrently.
func (s *Service) LoadAll(ctx context.Context) (map[Page]Result, error) {
	var mu sync.Mutex
	out := make(map[Page]Result, len(Pages))
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range Pages {
		p := p
		g.Go(func() error {
			res, err := s.Load(ctx, p)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			mu.Lock()
			out[p] = res
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return out, err
}

func (s *Service) fetch(ctx context.Context, page Page) ([]episode.Episode, error) {
	switch page {
	case Feed:
		return s.Remote.RecentEpisodes(ctx)
	case Queue:
		return s.Remote.QueuedEpisodes(ctx)
	case History:
		return s.Remote.History(ctx)
	case Saved:
		return s.Remote.SavedEpisodes(ctx)
	}
	return nil, fmt.Errorf("app: unknown page %q", page)
}

func (s *Service) remember(page Page, eps []episode.Episode) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Put(page.String(), eps); err != nil {
		s.logger().Printf("app: cache %s: %v", page, err)
	}
}

// ReorderQueue persists ids as the queue order and refreshes the cached
// queue to match. It implements reorder.Persister.
func (s *Service) ReorderQueue(ctx context.Context, ids []episode.ID) error {
	if s.Remote == nil {
		return ErrNoRemote
	}
	if err := s.Remote.ReorderQueue(ctx, ids); err != nil {
		return err
	}
	s.reorderCached(ids)
	return nil
}

func (s *Service) reorderCached(ids []episode.ID) {
	if s.Cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.Cache.Get(Queue.String())
	if err != nil {
		return
	}
	byID := make(map[episode.ID]episode.Episode, len(snap.Episodes))
	for _, e := range snap.Episodes {
		byID[e.ID] = e
	}
	next := make([]episode.Episode, 0, len(ids))
	for i, id := range ids {
		e, ok := byID[id]
		if !ok {
			continue
		}
		pos := int32(i + 1)
		e.QueuePosition = &pos
		next = append(next, e)
	}
	s.remember(Queue, next)
}

// Move reorders the queue headless: the episode id moves to index, with the
// same remove-then-insert rule as a drag.
func (s *Service) Move(ctx context.Context, id episode.ID, index int) ([]episode.Episode, error) {
	if s.Remote == nil {
		return nil, ErrNoRemote
	}
	res, err := s.Load(ctx, Queue)
	if err != nil {
		return nil, err
	}
	if res.Stale {
		if res.Err == nil {
			return nil, errors.New("app: queue is stale, not reordering")
		}
		return nil, fmt.Errorf("app: queue is stale, not reordering: %w", res.Err)
	}
	if episode.Index(res.Episodes, id) < 0 {
		return nil, ErrNotInQueue
	}
	if index < 0 {
		index = 0
	}
	if last := len(res.Episodes) - 1; index > last {
		index = last
	}
	next, ok := reorder.Move(res.Episodes, id, index)
	if !ok {
		return res.Episodes, nil
	}
	return next, s.ReorderQueue(ctx, episode.IDs(next))
}

// Enqueue adds an episode to the queue.
func (s *Service) Enqueue(ctx context.Context, id episode.ID, youtube bool) (string, error) {
	if s.Remote == nil {
		return "", ErrNoRemote
	}
	msg, err := s.Remote.QueueEpisode(ctx, id, youtube)
	if err != nil {
		return "", err
	}
	s.refresh(ctx, Queue)
	return msg, nil
}

// Dequeue removes an episode from the queue.
func (s *Service) Dequeue(ctx context.Context, id episode.ID, youtube bool) (string, error) {
	if s.Remote == nil {
		return "", ErrNoRemote
	}
	msg, err := s.Remote.RemoveQueuedEpisode(ctx, id, youtube)
	if err != nil {
		return "", err
	}
	s.refresh(ctx, Queue)
	return msg, nil
}

func (s *Service) refresh(ctx context.Context, page Page) {
	eps, err := s.fetch(ctx, page)
	if err != nil {
		s.logger().Printf("app: refresh %s: %v", page, err)
		return
	}
	s.remember(page, eps)
}

// Watch subscribes to cache change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Cache == nil {
		return nil, errors.New("app: no cache configured")
	}
	return s.Cache.Watch(ctx)
}
