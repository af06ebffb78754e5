package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Tabs   TabTheme
	Item   ItemTheme
	Footer FooterTheme
	Panel  PanelTheme
}

// TabTheme styles the page switcher.
type TabTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Gap      lipgloss.Style
}

// ItemTheme styles one episode row block.
type ItemTheme struct {
	Title    lipgloss.Style
	Podcast  lipgloss.Style
	Meta     lipgloss.Style
	Progress lipgloss.Style
	Cursor   lipgloss.Style
	Dragging lipgloss.Style
	Target   lipgloss.Style
	Empty    lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Stale  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	active := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true).
		Padding(0, 1)
	return Theme{
		Tabs: TabTheme{
			Active:   active.Reverse(true),
			Inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1),
			Gap:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
		Item: ItemTheme{
			Title:    lipgloss.NewStyle().Bold(true),
			Podcast:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Progress: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
			Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Dragging: lipgloss.NewStyle().Faint(true),
			Target:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
			Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
			Stale:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}
