package queue

import (
	"tableflip.dev/pods/pkg/drag"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/vlist"
)

// Command is an input to Model.Apply.
type Command interface {
	command()
}

// Loaded replaces the whole collection, e.g. after the initial fetch.
type Loaded struct {
	Items []episode.Episode
}

// Added inserts a single item at Index. An out of range index appends.
type Added struct {
	Item  episode.Episode
	Index int
}

// Removed drops the item with ID.
type Removed struct {
	ID episode.ID
}

// Scrolled reports the scroll container's raw offset.
type Scrolled struct {
	Offset float64
}

// FrameElapsed delivers a frame scheduled by a ScheduleFrame effect.
type FrameElapsed struct {
	Token vlist.FrameToken
}

// Resized reports the outer viewport dimensions.
type Resized struct {
	Width  float64
	Height float64
}

// DragStarted begins dragging ID.
type DragStarted struct {
	ID episode.ID
}

// DraggedOver reports pointer movement during a drag.
type DraggedOver struct {
	ClientY   float64
	Container drag.Container
}

// Dropped ends a drag with a raw drop event still to be resolved.
type Dropped struct {
	Event     drag.DropEvent
	Container drag.Container
}

// DragDropped moves ID to a resolved target Index.
type DragDropped struct {
	ID    episode.ID
	Index int
}

// Persisted delivers the result of a Persist effect.
type Persisted struct {
	Result reorder.Result
}

// Unmounted tears the list down.
type Unmounted struct{}

func (Loaded) command()       {}
func (Added) command()        {}
func (Removed) command()      {}
func (Scrolled) command()     {}
func (FrameElapsed) command() {}
func (Resized) command()      {}
func (DragStarted) command()  {}
func (DraggedOver) command()  {}
func (Dropped) command()      {}
func (DragDropped) command()  {}
func (Persisted) command()    {}
func (Unmounted) command()    {}

// Effect is work the host must perform after Apply.
type Effect interface {
	effect()
}

// ScheduleFrame asks the host to deliver FrameElapsed{Token} on its next
// frame.
type ScheduleFrame struct {
	Token vlist.FrameToken
}

// Persist asks the host to run Job off the render path and deliver its
// result as Persisted.
type Persist struct {
	Job *reorder.Job
}

// ScrollBy asks the host to scroll its container to Target, Delta away from
// the current offset. Hosts without a native container send Scrolled{Target}.
type ScrollBy struct {
	Delta  float64
	Target float64
}

func (ScheduleFrame) effect() {}
func (Persist) effect()       {}
func (ScrollBy) effect()      {}
