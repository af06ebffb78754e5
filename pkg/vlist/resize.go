package vlist

import "tableflip.dev/pods/pkg/geometry"

// ResizeListener recomputes viewport geometry on every resize and bumps a
// generation counter so item views can be keyed per geometry epoch.
type ResizeListener struct {
	provider   geometry.Provider
	viewport   geometry.Viewport
	generation uint64
}

// NewResizeListener starts from the initial viewport at generation 0.
func NewResizeListener(p geometry.Provider) *ResizeListener {
	if p == nil {
		p = geometry.Default
	}
	return &ResizeListener{provider: p, viewport: geometry.Initial()}
}

// Resize applies new outer dimensions and returns the resulting viewport.
// Every call bumps the generation, even if nothing changed.
func (r *ResizeListener) Resize(width, height float64) geometry.Viewport {
	r.viewport = geometry.NewViewport(r.provider, width, height)
	r.generation++
	return r.viewport
}

// Viewport returns the geometry currently in effect.
func (r *ResizeListener) Viewport() geometry.Viewport { return r.viewport }

// Generation returns the current geometry epoch.
func (r *ResizeListener) Generation() uint64 { return r.generation }

// Provider returns the geometry provider in use.
func (r *ResizeListener) Provider() geometry.Provider { return r.provider }
