// Package vlist computes which slice of an ordered collection is mounted for
// a scroll position, and the spacer heights that stand in for the rest.
package vlist

import "math"

// DefaultBuffer is the number of extra items mounted on each side of the
// strictly visible range.
const DefaultBuffer = 2

// Window is the mounted half-open index range [Start, End) plus the spacer
// heights above and below it. TopSpacer + BottomSpacer + (End-Start)*item
// height always equals the full scrollable height.
type Window struct {
	Start        int
	End          int
	TopSpacer    float64
	BottomSpacer float64
	VisibleCount int
}

// Len returns the number of mounted items.
func (w Window) Len() int { return w.End - w.Start }

// Contains reports whether index i is mounted.
func (w Window) Contains(i int) bool { return i >= w.Start && i < w.End }

// Compute returns the window for the given scroll state. It is a pure
// function. itemHeight must be positive; Compute panics otherwise.
func Compute(scrollOffset, itemHeight, usableHeight float64, buffer, length int) Window {
	if itemHeight <= 0 || math.IsNaN(itemHeight) {
		panic("vlist: item height must be positive")
	}
	if length <= 0 {
		return Window{}
	}
	if scrollOffset < 0 || math.IsNaN(scrollOffset) {
		scrollOffset = 0
	}
	if usableHeight < 0 || math.IsNaN(usableHeight) {
		usableHeight = 0
	}
	if buffer < 0 {
		buffer = 0
	}

	rawStart := int(math.Floor(scrollOffset / itemHeight))
	visible := int(math.Ceil(usableHeight/itemHeight)) + 1

	start := rawStart - buffer
	if start < 0 {
		start = 0
	}
	end := rawStart + visible + buffer
	if end > length {
		end = length
	}
	if start > end {
		// Scrolled past the end, e.g. right after the collection shrank.
		start = end
	}

	top := float64(start) * itemHeight
	bottom := float64(length)*itemHeight - top - float64(end-start)*itemHeight
	return Window{
		Start:        start,
		End:          end,
		TopSpacer:    top,
		BottomSpacer: bottom,
		VisibleCount: visible,
	}
}

// MaxOffset is the largest scroll offset that still shows a full page.
func MaxOffset(itemHeight, usableHeight float64, length int) float64 {
	total := float64(length) * itemHeight
	if total <= usableHeight {
		return 0
	}
	return total - usableHeight
}

// VirtualIndex projects a content-relative y offset onto an item index,
// clamped to [0, length-1]. ok is false for an empty collection or an
// unusable item height.
func VirtualIndex(relativeY, itemHeight float64, length int) (int, bool) {
	if length <= 0 || itemHeight <= 0 || math.IsNaN(relativeY) {
		return 0, false
	}
	if relativeY < 0 {
		return 0, true
	}
	idx := int(math.Floor(relativeY / itemHeight))
	if idx > length-1 {
		idx = length - 1
	}
	return idx, true
}
