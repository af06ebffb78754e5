package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pods/pkg/drag"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/reorder"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// EpisodeRef captures the metadata required to identify an episode in
// cross-component events.
type EpisodeRef struct {
	ID      episode.ID
	Title   string
	Podcast string
	YouTube bool
}

// RefFor builds an EpisodeRef.
func RefFor(e episode.Episode) EpisodeRef {
	return EpisodeRef{ID: e.ID, Title: e.Title, Podcast: e.PodcastName, YouTube: e.IsYouTube}
}

// Label returns a human-friendly identifier for the episode.
func (r EpisodeRef) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID.String()
}

// EpisodeHighlightMsg is emitted when the cursor lands on an episode.
type EpisodeHighlightMsg struct {
	Component ComponentID
	Index     int
	Episode   EpisodeRef
}

// Describe renders the highlight in a human-friendly format for logs.
func (m EpisodeHighlightMsg) Describe() string {
	return fmt.Sprintf(`index:%d episode:%q`, m.Index, m.Episode.Label())
}

// DragStartMsg is emitted when a drag begins.
type DragStartMsg struct {
	Component ComponentID
	Episode   EpisodeRef
	Payload   drag.Payload
}

// Describe implements the logging helper.
func (m DragStartMsg) Describe() string {
	return fmt.Sprintf(`episode:%q payload:%q`, m.Episode.Label(), m.Payload)
}

// DropMsg reports how a drop resolved.
type DropMsg struct {
	Component  ComponentID
	Resolution drag.Resolution
}

// Describe implements the logging helper.
func (m DropMsg) Describe() string {
	r := m.Resolution
	return fmt.Sprintf(`episode:%d from:%d to:%d via:%s reorder:%t`, r.Dragged, r.From, r.To, r.Via, r.Reorder)
}

// QueueOrderMsg announces that the local order changed and carries the new
// id list so listeners can reorder their local state.
type QueueOrderMsg struct {
	Component ComponentID
	Op        string
	Order     []episode.ID
}

// Describe renders the order change for logs.
func (m QueueOrderMsg) Describe() string {
	return fmt.Sprintf(`component:%q op:%s order:%d`, m.Component, m.Op, len(m.Order))
}

// PersistedMsg reports the outcome of saving an order to the server.
type PersistedMsg struct {
	Component ComponentID
	Result    reorder.Result
}

// Describe implements the logging helper.
func (m PersistedMsg) Describe() string {
	state := "ok"
	if m.Result.Err != nil {
		state = m.Result.Err.Error()
	}
	return fmt.Sprintf(`op:%s ids:%d elapsed:%s state:%q`, m.Result.Op, len(m.Result.IDs), m.Result.Elapsed, state)
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// DebugMsg captures optional diagnostic notes emitted by components.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

// Describe renders the debug message in a human-readable format.
func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`component:%q context:%q detail:%q`, m.Component, m.Context, m.Detail)
}

// DebugCmd wraps DebugMsg creation in a tea.Cmd helper.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}

// Emit wraps any message in a tea.Cmd.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
