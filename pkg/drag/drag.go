// Package drag resolves drag-and-drop gestures over a windowed list into
// reorder targets, including drops that land on unmounted regions.
package drag

import (
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/vlist"
)

// MaxAncestorHops bounds the walk from a drop target to a tagged item.
const MaxAncestorHops = 10

// Node is a hit-testable element. Elements that render an item are tagged
// with its id; spacers, margins and containers are not.
type Node interface {
	ItemID() (episode.ID, bool)
	Parent() Node
}

// AutoScroll configures edge scrolling while dragging.
type AutoScroll struct {
	Margin float64
	Step   float64
}

// DefaultAutoScroll matches the web client: 50 units from an edge, 20 units
// per drag-over event.
var DefaultAutoScroll = AutoScroll{Margin: 50, Step: 20}

// Container describes the scroll container in pointer coordinates.
// Measurable is false when its bounds could not be determined.
type Container struct {
	Top        float64
	Bottom     float64
	ScrollTop  float64
	Measurable bool
}

// Payload is the data attached to the native drag operation.
type Payload string

// PayloadFor marks a drag payload with an episode id.
func PayloadFor(id episode.ID) Payload { return Payload(id.String()) }

// ID parses the episode id carried by the payload.
func (p Payload) ID() (episode.ID, bool) {
	if p == "" {
		return 0, false
	}
	id, err := episode.ParseID(string(p))
	if err != nil {
		return 0, false
	}
	return id, true
}

// DropEvent is a drop at ClientY on Target.
type DropEvent struct {
	Target  Node
	ClientY float64
	Payload Payload
}

// Via records how a drop target index was determined.
type Via int

const (
	// Unresolved means no target index could be determined.
	Unresolved Via = iota
	// Mounted means the drop landed on a rendered item.
	Mounted
	// Virtual means the index was projected from pointer geometry.
	Virtual
)

func (v Via) String() string {
	switch v {
	case Mounted:
		return "mounted"
	case Virtual:
		return "virtual"
	default:
		return "unresolved"
	}
}

// Resolution is the outcome of a drop. Reorder is true only when the dragged
// item was found and the target index differs from its current index.
type Resolution struct {
	Dragged episode.ID
	From    int
	To      int
	Via     Via
	Reorder bool
}

type state int

const (
	idle state = iota
	dragging
)

// Coordinator tracks the item being dragged. The zero value is idle and uses
// DefaultAutoScroll.
type Coordinator struct {
	state   state
	dragged episode.ID
	scroll  *AutoScroll
}

// New returns an idle coordinator with the given auto-scroll settings.
func New(scroll AutoScroll) *Coordinator {
	return &Coordinator{scroll: &scroll}
}

func (c *Coordinator) autoScroll() AutoScroll {
	if c.scroll == nil {
		return DefaultAutoScroll
	}
	return *c.scroll
}

// Start begins dragging id, replacing any stale drag, and returns the
// payload to attach to the native drag operation.
func (c *Coordinator) Start(id episode.ID) Payload {
	c.state = dragging
	c.dragged = id
	return PayloadFor(id)
}

// Dragging returns the dragged id while a drag is active.
func (c *Coordinator) Dragging() (episode.ID, bool) {
	if c.state != dragging {
		return 0, false
	}
	return c.dragged, true
}

// Cancel returns to idle without resolving a drop.
func (c *Coordinator) Cancel() {
	c.state = idle
	c.dragged = 0
}

// Over evaluates edge auto-scroll for a drag-over at clientY and returns the
// scroll delta to apply. The result never scrolls above the top.
func (c *Coordinator) Over(clientY float64, ct Container) float64 {
	if !ct.Measurable {
		return 0
	}
	as := c.autoScroll()
	delta := 0.0
	if clientY < ct.Top+as.Margin {
		up := ct.ScrollTop - as.Step
		if up < 0 {
			up = 0
		}
		delta += up - ct.ScrollTop
	}
	if clientY > ct.Bottom-as.Margin {
		delta += as.Step
	}
	return delta
}

// Drop resolves ev against the current collection and ends the drag.
func (c *Coordinator) Drop(ev DropEvent, ct Container, items []episode.Episode, itemHeight float64) Resolution {
	defer c.Cancel()

	dragged, ok := c.Dragging()
	if !ok {
		if dragged, ok = ev.Payload.ID(); !ok {
			return Resolution{Via: Unresolved, From: -1, To: -1}
		}
	}
	res := Resolution{Dragged: dragged, From: episode.Index(items, dragged), To: -1}

	if id, tagged := taggedAncestor(ev.Target); tagged {
		if id != dragged {
			if idx := episode.Index(items, id); idx >= 0 {
				res.To = idx
				res.Via = Mounted
			}
		}
	} else if ct.Measurable {
		relative := (ev.ClientY - ct.Top) + ct.ScrollTop
		if idx, ok := vlist.VirtualIndex(relative, itemHeight, len(items)); ok {
			res.To = idx
			res.Via = Virtual
		}
	}

	res.Reorder = res.From >= 0 && res.To >= 0 && res.From != res.To
	return res
}

func taggedAncestor(n Node) (episode.ID, bool) {
	for hops := 0; n != nil; hops++ {
		if id, ok := n.ItemID(); ok {
			return id, true
		}
		if hops >= MaxAncestorHops {
			break
		}
		n = n.Parent()
	}
	return 0, false
}
