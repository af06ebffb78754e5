// Package geometry maps viewport dimensions to list item geometry.
//
// A Provider answers two questions: how tall is one list item at a given
// viewport width, and how much of a viewport's height is available to the
// scrolling list once the surrounding chrome is accounted for. Item heights
// come from a fixed three-breakpoint table; a Measured provider can override
// the table with a live measurement.
package geometry

import "fmt"

// WidthClass is the discrete viewport width bucket in effect.
type WidthClass int

const (
	// Narrow is the phone-sized layout.
	Narrow WidthClass = iota
	// Medium is the tablet-sized layout.
	Medium
	// Wide is the desktop layout.
	Wide
)

func (c WidthClass) String() string {
	switch c {
	case Narrow:
		return "narrow"
	case Medium:
		return "medium"
	case Wide:
		return "wide"
	default:
		return fmt.Sprintf("WidthClass(%d)", int(c))
	}
}

// Provider supplies item and container geometry for a viewport.
type Provider interface {
	Class(width float64) WidthClass
	ItemHeight(width float64) float64
	UsableHeight(height float64) float64
}

// Breakpoints is a three-bucket geometry table. Content heights exclude the
// inter-item margin, which is added on top of every bucket.
type Breakpoints struct {
	NarrowMax float64
	MediumMax float64

	NarrowContent float64
	MediumContent float64
	WideContent   float64

	Margin float64
	Chrome float64
}

// Default is the pixel table used by the web client.
var Default = Breakpoints{
	NarrowMax:     530,
	MediumMax:     768,
	NarrowContent: 122,
	MediumContent: 150,
	WideContent:   221,
	Margin:        16,
	Chrome:        100,
}

// Cells is the terminal table: widths are columns, heights are rows. The
// chrome covers the tab bar, the page title and the status line.
var Cells = Breakpoints{
	NarrowMax:     53,
	MediumMax:     76,
	NarrowContent: 3,
	MediumContent: 4,
	WideContent:   5,
	Margin:        1,
	Chrome:        3,
}

// InitialItemHeight is used before the first resize has been observed.
const InitialItemHeight = 234.0

// Class implements Provider.
func (b Breakpoints) Class(width float64) WidthClass {
	switch {
	case width <= b.NarrowMax:
		return Narrow
	case width <= b.MediumMax:
		return Medium
	default:
		return Wide
	}
}

// ContentHeight returns the item height without the trailing margin.
func (b Breakpoints) ContentHeight(class WidthClass) float64 {
	switch class {
	case Narrow:
		return b.NarrowContent
	case Medium:
		return b.MediumContent
	default:
		return b.WideContent
	}
}

// ItemHeight implements Provider.
func (b Breakpoints) ItemHeight(width float64) float64 {
	return b.ContentHeight(b.Class(width)) + b.Margin
}

// UsableHeight implements Provider.
func (b Breakpoints) UsableHeight(height float64) float64 {
	usable := height - b.Chrome
	if usable < 0 {
		return 0
	}
	return usable
}

// MeasureFunc reports a live item height for a width. ok is false when the
// measurement is unavailable, e.g. nothing has been rendered yet.
type MeasureFunc func(width float64) (height float64, ok bool)

// Measured prefers a live measurement and falls back to Base when the
// measurement fails or is not positive.
type Measured struct {
	Base    Provider
	Measure MeasureFunc
}

func (m Measured) base() Provider {
	if m.Base == nil {
		return Default
	}
	return m.Base
}

// Class implements Provider.
func (m Measured) Class(width float64) WidthClass {
	return m.base().Class(width)
}

// ItemHeight implements Provider.
func (m Measured) ItemHeight(width float64) float64 {
	if m.Measure != nil {
		if h, ok := m.Measure(width); ok && h > 0 {
			return h
		}
	}
	return m.base().ItemHeight(width)
}

// UsableHeight implements Provider.
func (m Measured) UsableHeight(height float64) float64 {
	return m.base().UsableHeight(height)
}

// Viewport is the geometry in effect between two resizes.
type Viewport struct {
	Width           float64
	ContainerHeight float64
	ItemHeight      float64
	Class           WidthClass
}

// NewViewport computes the viewport state for a width and height.
func NewViewport(p Provider, width, height float64) Viewport {
	if p == nil {
		p = Default
	}
	return Viewport{
		Width:           width,
		ContainerHeight: p.UsableHeight(height),
		ItemHeight:      p.ItemHeight(width),
		Class:           p.Class(width),
	}
}

// Initial is the viewport assumed before the first resize.
func Initial() Viewport {
	return Viewport{ItemHeight: InitialItemHeight, Class: Wide}
}
