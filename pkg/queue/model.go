// Package queue owns an ordered episode collection together with its window,
// scroll and drag state. Every change arrives as a typed Command; the Model
// answers with Effects for its host to run.
package queue

import (
	"io"
	"log"

	"github.com/google/uuid"

	"tableflip.dev/pods/pkg/drag"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/geometry"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/vlist"
)

// Options configures a Model.
type Options struct {
	Provider   geometry.Provider
	Buffer     int
	AutoScroll drag.AutoScroll
	Draggable  bool
	Reconciler *reorder.Reconciler
	Logger     *log.Logger
}

// View is an immutable snapshot of the model.
type View struct {
	Rows       []vlist.Row
	Window     vlist.Window
	Viewport   geometry.Viewport
	Generation uint64
	Offset     float64
	Len        int

	Dragging   episode.ID
	IsDragging bool
	LastDrop   drag.Resolution

	InFlight    int
	LastPersist *reorder.Result
	Diverged    bool
}

// Model holds one page's collection. It is not safe for concurrent use; hosts
// serialize access (Bubble Tea's update loop, or an Owner).
type Model struct {
	items      []episode.Episode
	list       *vlist.List
	drag       *drag.Coordinator
	reconciler *reorder.Reconciler
	draggable  bool
	logger     *log.Logger

	inFlight int
	latestOp uuid.UUID
	last     *reorder.Result
	diverged bool
	lastDrop drag.Resolution
	closed   bool
}

// NewModel constructs an empty model.
func NewModel(opts Options) *Model {
	buffer := vlist.DefaultBuffer
	if opts.Buffer > 0 {
		buffer = opts.Buffer
	}
	as := opts.AutoScroll
	if as == (drag.AutoScroll{}) {
		as = drag.DefaultAutoScroll
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	rec := opts.Reconciler
	if rec == nil {
		rec = &reorder.Reconciler{Logger: logger}
	}
	return &Model{
		list:       vlist.New(opts.Provider, vlist.WithBuffer(buffer)),
		drag:       drag.New(as),
		reconciler: rec,
		draggable:  opts.Draggable,
		logger:     logger,
	}
}

// Draggable reports whether drag commands are honoured.
func (m *Model) Draggable() bool { return m.draggable }

// Len returns the collection length.
func (m *Model) Len() int { return len(m.items) }

// Items returns a copy of the collection in order.
func (m *Model) Items() []episode.Episode { return episode.CloneAll(m.items) }

// Item returns the item at index i.
func (m *Model) Item(i int) (episode.Episode, bool) {
	if i < 0 || i >= len(m.items) {
		return episode.Episode{}, false
	}
	return m.items[i].Clone(), true
}

// Index returns the position of id, or -1.
func (m *Model) Index(id episode.ID) int { return episode.Index(m.items, id) }

// Offset returns the scroll offset used for windowing.
func (m *Model) Offset() float64 { return m.list.Offset() }

// TargetOffset is the offset the next frame will publish, or Offset when no
// frame is outstanding.
func (m *Model) TargetOffset() float64 { return m.list.TargetOffset(len(m.items)) }

// Viewport returns the geometry in effect.
func (m *Model) Viewport() geometry.Viewport { return m.list.Viewport() }

// Window returns the mounted range.
func (m *Model) Window() vlist.Window { return m.list.Window(len(m.items)) }

// Dragging returns the dragged id during a drag.
func (m *Model) Dragging() (episode.ID, bool) { return m.drag.Dragging() }

// Closed reports whether the model was unmounted.
func (m *Model) Closed() bool { return m.closed }

// Render instantiates the item view for the mounted rows only.
func (m *Model) Render(view vlist.ItemView) []string {
	return m.list.Render(m.items, view)
}

// View returns a snapshot of the current state.
func (m *Model) View() View {
	v := View{
		Rows:       m.list.Rows(m.items),
		Window:     m.Window(),
		Viewport:   m.Viewport(),
		Generation: m.list.Generation(),
		Offset:     m.Offset(),
		Len:        len(m.items),
		LastDrop:   m.lastDrop,
		InFlight:   m.inFlight,
		Diverged:   m.diverged,
	}
	v.Dragging, v.IsDragging = m.drag.Dragging()
	if m.last != nil {
		last := *m.last
		last.IDs = append([]episode.ID(nil), m.last.IDs...)
		v.LastPersist = &last
	}
	return v
}

// Apply processes a command and returns the effects the host must run.
func (m *Model) Apply(cmd Command) []Effect {
	if m.closed {
		return nil
	}
	switch c := cmd.(type) {
	case Loaded:
		m.items = episode.CloneAll(c.Items)
		m.diverged = false
		m.list.ClampOffset(len(m.items))
	case Added:
		m.add(c.Item, c.Index)
	case Removed:
		m.remove(c.ID)
	case Scrolled:
		if token, ok := m.list.Observe(c.Offset); ok {
			return []Effect{ScheduleFrame{Token: token}}
		}
	case FrameElapsed:
		m.list.Frame(c.Token, len(m.items))
	case Resized:
		vp := m.list.Resize(c.Width, c.Height, len(m.items))
		m.logger.Printf("queue: resized to %.0fx%.0f item=%.0f class=%s gen=%d",
			c.Width, c.Height, vp.ItemHeight, vp.Class, m.list.Generation())
	case DragStarted:
		if m.draggable && m.Index(c.ID) >= 0 {
			m.drag.Start(c.ID)
		}
	case DraggedOver:
		if _, ok := m.drag.Dragging(); !ok {
			return nil
		}
		delta := m.drag.Over(c.ClientY, c.Container)
		if delta == 0 {
			return nil
		}
		return []Effect{ScrollBy{Delta: delta, Target: c.Container.ScrollTop + delta}}
	case Dropped:
		if !m.draggable {
			m.drag.Cancel()
			return nil
		}
		res := m.drag.Drop(c.Event, c.Container, m.items, m.Viewport().ItemHeight)
		m.lastDrop = res
		if !res.Reorder {
			m.logger.Printf("queue: drop of %d resolved %s, no reorder", res.Dragged, res.Via)
			return nil
		}
		return m.reorder(res.Dragged, res.To)
	case DragDropped:
		m.drag.Cancel()
		if !m.draggable || len(m.items) == 0 {
			return nil
		}
		idx := c.Index
		if idx < 0 {
			idx = 0
		}
		if idx > len(m.items)-1 {
			idx = len(m.items) - 1
		}
		return m.reorder(c.ID, idx)
	case Persisted:
		m.persisted(c.Result)
	case Unmounted:
		m.list.Close()
		m.drag.Cancel()
		m.items = nil
		m.closed = true
	}
	return nil
}

func (m *Model) reorder(id episode.ID, target int) []Effect {
	next, job, ok := m.reconciler.Reorder(m.items, id, target)
	if !ok {
		return nil
	}
	m.items = next
	m.inFlight++
	m.latestOp = job.Op
	m.logger.Printf("queue: moved %d to %d, persisting as %s", id, target, job.Op)
	return []Effect{Persist{Job: job}}
}

func (m *Model) persisted(res reorder.Result) {
	if m.inFlight > 0 {
		m.inFlight--
	}
	r := res
	m.last = &r
	if res.Op == m.latestOp {
		// Local order is kept either way; the flag only reports divergence.
		m.diverged = res.Err != nil
	}
}

func (m *Model) add(item episode.Episode, at int) {
	if m.Index(item.ID) >= 0 {
		return
	}
	if at < 0 || at > len(m.items) {
		at = len(m.items)
	}
	next := make([]episode.Episode, 0, len(m.items)+1)
	next = append(next, m.items[:at]...)
	next = append(next, item.Clone())
	next = append(next, m.items[at:]...)
	m.items = next
}

func (m *Model) remove(id episode.ID) {
	idx := m.Index(id)
	if idx < 0 {
		return
	}
	if dragged, ok := m.drag.Dragging(); ok && dragged == id {
		m.drag.Cancel()
	}
	next := make([]episode.Episode, 0, len(m.items)-1)
	next = append(next, m.items[:idx]...)
	next = append(next, m.items[idx+1:]...)
	m.items = next
	m.list.ClampOffset(len(m.items))
}
