package vlist

import (
	"fmt"

	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/geometry"
)

// ItemView renders one mounted item. Rendering the same key with the same
// item must be safe to repeat.
type ItemView func(item episode.Episode, key string, class geometry.WidthClass) string

// Row is a mounted item together with its collection index and remount key.
type Row struct {
	Index int
	Key   string
	Item  episode.Episode
}

// Option configures a List.
type Option func(*List)

// WithBuffer overrides DefaultBuffer.
func WithBuffer(n int) Option {
	return func(l *List) {
		if n >= 0 {
			l.buffer = n
		}
	}
}

// List ties the window calculator to scroll and resize observation. It does
// not own the collection; callers pass the current items on every read.
type List struct {
	resize  *ResizeListener
	tracker *ScrollTracker
	offset  float64
	buffer  int
}

// New constructs a List using the given geometry provider.
func New(p geometry.Provider, opts ...Option) *List {
	l := &List{
		resize:  NewResizeListener(p),
		tracker: NewScrollTracker(0),
		buffer:  DefaultBuffer,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Key builds the remount key for an item in a geometry generation.
func Key(id episode.ID, generation uint64) string {
	return fmt.Sprintf("%d-%d", id, generation)
}

// Viewport returns the geometry in effect.
func (l *List) Viewport() geometry.Viewport { return l.resize.Viewport() }

// Generation returns the geometry epoch.
func (l *List) Generation() uint64 { return l.resize.Generation() }

// Buffer returns the configured buffer size.
func (l *List) Buffer() int { return l.buffer }

// Offset returns the scroll offset the window is computed from.
func (l *List) Offset() float64 { return l.offset }

// Tracker exposes the scroll tracker.
func (l *List) Tracker() *ScrollTracker { return l.tracker }

// Resize recomputes geometry for the new outer dimensions and re-clamps the
// scroll offset against the new item height.
func (l *List) Resize(width, height float64, length int) geometry.Viewport {
	vp := l.resize.Resize(width, height)
	l.ClampOffset(length)
	return vp
}

// Observe forwards a raw scroll offset to the tracker.
func (l *List) Observe(offset float64) (FrameToken, bool) {
	return l.tracker.Observe(offset)
}

// Frame applies a scheduled tracker frame. It reports whether the offset
// used for windowing changed.
func (l *List) Frame(token FrameToken, length int) bool {
	offset, ok := l.tracker.Frame(token)
	if !ok {
		return false
	}
	before := l.offset
	l.offset = l.clamp(offset, length)
	if l.offset != offset {
		l.tracker.Reset(l.offset)
	}
	return l.offset != before
}

// TargetOffset is where the list is headed: the offset of the outstanding
// frame, clamped, or the published offset. Hosts without a native scroll
// container accumulate relative scrolls on top of it.
func (l *List) TargetOffset(length int) float64 {
	return l.clamp(l.tracker.Pending(), length)
}

// SetOffset scrolls programmatically, bypassing frame coalescing.
func (l *List) SetOffset(offset float64, length int) {
	l.offset = l.clamp(offset, length)
	l.tracker.Reset(l.offset)
}

// ClampOffset re-applies bounds after the collection length changed.
func (l *List) ClampOffset(length int) {
	if c := l.clamp(l.offset, length); c != l.offset {
		l.offset = c
		l.tracker.Rebase(c)
	}
}

// MaxOffset returns the largest scroll offset for a collection length.
func (l *List) MaxOffset(length int) float64 {
	vp := l.Viewport()
	return MaxOffset(vp.ItemHeight, vp.ContainerHeight, length)
}

func (l *List) clamp(offset float64, length int) float64 {
	if offset < 0 {
		return 0
	}
	if hi := l.MaxOffset(length); offset > hi {
		return hi
	}
	return offset
}

// Close tears down scroll observation.
func (l *List) Close() { l.tracker.Close() }

// Window computes the mounted range for a collection of the given length.
func (l *List) Window(length int) Window {
	vp := l.Viewport()
	return Compute(l.offset, vp.ItemHeight, vp.ContainerHeight, l.buffer, length)
}

// Rows returns copies of the mounted items only.
func (l *List) Rows(items []episode.Episode) []Row {
	w := l.Window(len(items))
	gen := l.Generation()
	rows := make([]Row, 0, w.Len())
	for i := w.Start; i < w.End; i++ {
		item := items[i].Clone()
		rows = append(rows, Row{Index: i, Key: Key(item.ID, gen), Item: item})
	}
	return rows
}

// Render instantiates the item view for each mounted row.
func (l *List) Render(items []episode.Episode, view ItemView) []string {
	rows := l.Rows(items)
	class := l.Viewport().Class
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = view(r.Item, r.Key, class)
	}
	return out
}
