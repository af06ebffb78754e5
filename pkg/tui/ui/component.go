package ui

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pods/pkg/episode"
)

// Component defines the contract for reusable Bubble Tea widgets.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// EpisodeSource is a component with an episode under the cursor. The notes
// pane opens on whatever a source reports.
type EpisodeSource interface {
	Component
	Selected() (episode.Episode, bool)
}
