// Package mcp provides the Model Context Protocol server integration for pods.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/geometry"
	"tableflip.dev/pods/pkg/queue"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/vlist"
)

// ErrNotConfigured is returned when the service has no app service.
var ErrNotConfigured = errors.New("mcp: service is not configured")

// Service coordinates the page operations shared by the MCP tools and
// resources. The queue page is held by a queue.Owner so moves are applied
// optimistically and persisted in the background, as in the TUI.
type Service struct {
	App      *app.Service
	Provider geometry.Provider
	Logger   *log.Logger

	mu     sync.Mutex
	owner  *queue.Owner
	cancel context.CancelFunc
}

// EpisodeDTO is a transport-friendly projection of an episode.
type EpisodeDTO struct {
	ID            int32   `json:"id"`
	Position      int     `json:"position"`
	Title         string  `json:"title"`
	Podcast       string  `json:"podcast"`
	Published     string  `json:"published,omitempty"`
	Duration      string  `json:"duration"`
	DurationSecs  int32   `json:"durationSeconds"`
	Progress      float64 `json:"progress"`
	Completed     bool    `json:"completed"`
	Saved         bool    `json:"saved"`
	Queued        bool    `json:"queued"`
	Summary       string  `json:"summary,omitempty"`
	QueuePosition *int32  `json:"queuePosition,omitempty"`
}

// PageDTO is one loaded page.
type PageDTO struct {
	Page     string       `json:"page"`
	Count    int          `json:"count"`
	Stale    bool         `json:"stale,omitempty"`
	Saved    string       `json:"saved,omitempty"`
	Warning  string       `json:"warning,omitempty"`
	Episodes []EpisodeDTO `json:"episodes"`
}

// MoveDTO reports an optimistic queue move.
type MoveDTO struct {
	ID       int32   `json:"id"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Moved    bool    `json:"moved"`
	Order    []int32 `json:"order"`
	Pending  int     `json:"pendingSaves"`
	Diverged bool    `json:"diverged"`
	LastSave string  `json:"lastSave,omitempty"`
}

// WindowDTO is the mounted range of a page for a given viewport.
type WindowDTO struct {
	Page         string      `json:"page"`
	Length       int         `json:"length"`
	Offset       float64     `json:"offset"`
	Class        string      `json:"class"`
	ItemHeight   float64     `json:"itemHeight"`
	UsableHeight float64     `json:"usableHeight"`
	Start        int         `json:"start"`
	End          int         `json:"end"`
	TopSpacer    float64     `json:"topSpacer"`
	BottomSpacer float64     `json:"bottomSpacer"`
	VisibleCount int         `json:"visibleCount"`
	Rows         []WindowRow `json:"rows"`
}

// WindowRow is one mounted item.
type WindowRow struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	ID    int32  `json:"id"`
	Title string `json:"title"`
}

// NewService builds a service around svc.
func NewService(svc *app.Service, logger *log.Logger) *Service {
	return &Service{App: svc, Logger: logger}
}

func (s *Service) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}

func (s *Service) provider() geometry.Provider {
	if s.Provider == nil {
		return geometry.Default
	}
	return s.Provider
}

// Close stops the queue owner and waits for pending saves to report back.
func (s *Service) Close() {
	s.mu.Lock()
	owner, cancel := s.owner, s.cancel
	s.owner, s.cancel = nil, nil
	s.mu.Unlock()
	if owner == nil {
		return
	}
	owner.Wait()
	cancel()
	<-owner.Done()
}

// queueOwner returns the running queue owner, loading the queue on first use.
func (s *Service) queueOwner(ctx context.Context) (*queue.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != nil {
		return s.owner, nil
	}
	res, err := s.App.Load(ctx, app.Queue)
	if err != nil {
		return nil, err
	}
	model := queue.NewModel(queue.Options{
		Provider:   s.provider(),
		Draggable:  true,
		Reconciler: &reorder.Reconciler{Persister: s.App, Logger: s.logger()},
		Logger:     s.logger(),
	})
	model.Apply(queue.Loaded{Items: res.Episodes})
	owner := queue.NewOwner(model)
	octx, cancel := context.WithCancel(context.Background())
	owner.Start(octx)
	s.owner, s.cancel = owner, cancel
	return owner, nil
}

// ListEpisodes returns the episodes of page. The queue reflects local moves
// that may still be saving; refresh reloads it from the server first.
func (s *Service) ListEpisodes(ctx context.Context, page app.Page, refresh bool) (*PageDTO, error) {
	res, err := s.load(ctx, page, refresh)
	if err != nil {
		return nil, err
	}
	return toPageDTO(res), nil
}

// PageSummary aggregates one page.
type PageSummary struct {
	Page      string `json:"page"`
	Title     string `json:"title"`
	Episodes  int    `json:"episodes"`
	Completed int    `json:"completed"`
	Remaining string `json:"remaining"`
	Stale     bool   `json:"stale,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Summaries loads every page and summarizes it. A page that fails to load is
// reported with its error rather than failing the whole call.
func (s *Service) Summaries(ctx context.Context) []PageSummary {
	out := make([]PageSummary, 0, len(app.Pages))
	for _, p := range app.Pages {
		res, err := s.load(ctx, p, false)
		if err != nil {
			out = append(out, PageSummary{Page: p.String(), Title: p.Title(), Error: err.Error()})
			continue
		}
		sum := app.Summarize(res.Episodes)
		out = append(out, PageSummary{
			Page:      p.String(),
			Title:     p.Title(),
			Episodes:  sum.Episodes,
			Completed: sum.Completed,
			Remaining: episode.FormatDuration(sum.Remaining),
			Stale:     res.Stale,
		})
	}
	return out
}

// load returns page, reading the queue through its owner.
func (s *Service) load(ctx context.Context, page app.Page, refresh bool) (app.Result, error) {
	if s.App == nil {
		return app.Result{Page: page}, ErrNotConfigured
	}
	if page != app.Queue {
		return s.App.Load(ctx, page)
	}

	owner, err := s.queueOwner(ctx)
	if err != nil {
		return app.Result{Page: page}, err
	}
	res := app.Result{Page: page}
	if refresh {
		if res, err = s.App.Load(ctx, page); err != nil {
			return res, err
		}
		if err := owner.Send(ctx, queue.Loaded{Items: res.Episodes}); err != nil {
			return res, err
		}
	}
	err = owner.Do(ctx, func(m *queue.Model) { res.Episodes = m.Items() })
	return res, err
}

// MoveEpisode drops id at index in the queue. The new order is returned at
// once; the save runs in the background and its outcome shows up in later
// responses.
func (s *Service) MoveEpisode(ctx context.Context, id episode.ID, index int) (*MoveDTO, error) {
	if s.App == nil {
		return nil, ErrNotConfigured
	}
	owner, err := s.queueOwner(ctx)
	if err != nil {
		return nil, err
	}
	out := &MoveDTO{ID: int32(id), From: -1}
	err = owner.Update(ctx, func(m *queue.Model, apply func(queue.Command)) {
		out.From = m.Index(id)
		if out.From < 0 {
			return
		}
		apply(queue.DragDropped{ID: id, Index: index})
		v := m.View()
		out.To = m.Index(id)
		out.Moved = out.To != out.From
		out.Order = ids(m.Items())
		out.Pending = v.InFlight
		out.Diverged = v.Diverged
		if v.LastPersist != nil && v.LastPersist.Err != nil {
			out.LastSave = v.LastPersist.Err.Error()
		}
	})
	if err == nil && out.From < 0 {
		err = fmt.Errorf("%w: %d", app.ErrNotInQueue, id)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetQueueOrder saves ids as the queue order and waits for the server.
func (s *Service) SetQueueOrder(ctx context.Context, order []episode.ID) (*PageDTO, error) {
	if s.App == nil {
		return nil, ErrNotConfigured
	}
	if len(order) == 0 {
		return nil, errors.New("mcp: ids are required")
	}
	if err := s.App.ReorderQueue(ctx, order); err != nil {
		return nil, err
	}
	return s.ListEpisodes(ctx, app.Queue, true)
}

// Window runs the window calculator for page at the given viewport size and
// scroll offset, in the units of the service's geometry provider.
func (s *Service) Window(ctx context.Context, page app.Page, offset, width, height float64) (*WindowDTO, error) {
	res, err := s.load(ctx, page, false)
	if err != nil {
		return nil, err
	}
	items := res.Episodes

	list := vlist.New(s.provider())
	vp := list.Resize(width, height, len(items))
	list.SetOffset(offset, len(items))
	w := list.Window(len(items))

	out := &WindowDTO{
		Page:         page.String(),
		Length:       len(items),
		Offset:       list.Offset(),
		Class:        vp.Class.String(),
		ItemHeight:   vp.ItemHeight,
		UsableHeight: vp.ContainerHeight,
		Start:        w.Start,
		End:          w.End,
		TopSpacer:    w.TopSpacer,
		BottomSpacer: w.BottomSpacer,
		VisibleCount: w.VisibleCount,
	}
	for _, r := range list.Rows(items) {
		out.Rows = append(out.Rows, WindowRow{Index: r.Index, Key: r.Key, ID: int32(r.Item.ID), Title: r.Item.Title})
	}
	return out, nil
}

func toPageDTO(res app.Result) *PageDTO {
	out := &PageDTO{
		Page:     res.Page.String(),
		Count:    len(res.Episodes),
		Stale:    res.Stale,
		Episodes: toDTOs(res.Episodes),
	}
	if res.Stale {
		out.Saved = res.Saved.UTC().Format("2006-01-02T15:04:05Z")
		if res.Err != nil {
			out.Warning = res.Err.Error()
		}
	}
	return out
}

func toDTOs(list []episode.Episode) []EpisodeDTO {
	out := make([]EpisodeDTO, len(list))
	for i, e := range list {
		out[i] = EpisodeDTO{
			ID:            int32(e.ID),
			Position:      i,
			Title:         e.Title,
			Podcast:       e.PodcastName,
			Published:     e.PubDate,
			Duration:      episode.FormatDuration(e.Duration),
			DurationSecs:  e.Duration,
			Progress:      e.Progress(),
			Completed:     e.Completed,
			Saved:         e.Saved,
			Queued:        e.Queued,
			Summary:       episode.PlainText(e.Description),
			QueuePosition: e.QueuePosition,
		}
	}
	return out
}

func ids(list []episode.Episode) []int32 {
	out := make([]int32, len(list))
	for i, e := range list {
		out[i] = int32(e.ID)
	}
	return out
}

// HealthDTO reports the queue owner's save state.
type HealthDTO struct {
	QueueLoaded  bool   `json:"queueLoaded"`
	Episodes     int    `json:"episodes"`
	PendingSaves int    `json:"pendingSaves"`
	Diverged     bool   `json:"diverged"`
	LastSave     string `json:"lastSave,omitempty"`
}

// Health describes the queue without loading it.
func (s *Service) Health(ctx context.Context) (*HealthDTO, error) {
	s.mu.Lock()
	owner := s.owner
	s.mu.Unlock()
	if owner == nil {
		return &HealthDTO{}, nil
	}
	v, err := owner.View(ctx)
	if err != nil {
		return nil, err
	}
	out := &HealthDTO{
		QueueLoaded:  true,
		Episodes:     v.Len,
		PendingSaves: v.InFlight,
		Diverged:     v.Diverged,
	}
	if v.LastPersist != nil && v.LastPersist.Err != nil {
		out.LastSave = v.LastPersist.Err.Error()
	}
	return out, nil
}
