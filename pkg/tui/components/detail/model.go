// Package detail renders the show notes of one episode in a scrollable,
// framed viewport.
package detail

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pods/pkg/episode"
)

// Model renders the Glamour-formatted episode notes inside a bordered viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	item     episode.Episode

	frame lipgloss.Style
	err   error
}

// New constructs a detail pane for item sized to the provided bounds.
func New(item episode.Episode, width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Margin(0).
		Padding(0)
	model := &Model{
		viewport: vp,
		frame:    frame,
		item:     item,
	}
	model.SetSize(width, height)
	return model
}

// Episode returns the episode shown.
func (m *Model) Episode() episode.Episode { return m.item }

// Err reports the last rendering failure, if any.
func (m *Model) Err() error { return m.err }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the notes inside a rounded frame.
func (m *Model) View() string {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "notes unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body)
}

// SetSize configures the pane dimensions and re-renders the notes to fit.
func (m *Model) SetSize(width, height int) {
	minWidth, minHeight := 32, 8
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	if m.width == width && m.height == height {
		return
	}

	m.width = width
	m.height = height

	frameX := m.frame.GetHorizontalFrameSize()
	frameY := m.frame.GetVerticalFrameSize()

	innerWidth := max(width-frameX, 1)
	innerHeight := max(height-frameY, 1)

	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(innerHeight)

	m.renderContent(innerWidth)
}

func (m *Model) renderContent(wrap int) {
	renderWidth := max(wrap, 10)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		m.err = err
		m.viewport.SetContent("notes unavailable: " + err.Error())
		return
	}

	content, err := renderer.Render(Markdown(m.item))
	if err != nil {
		m.err = err
		m.viewport.SetContent("notes unavailable: " + err.Error())
		return
	}

	content = stripANSI(content)

	m.err = nil
	m.viewport.SetContent(content)
	m.viewport.SetYOffset(0)
}

// Markdown builds the notes document for item. The description is reduced
// to plain text first so feed-supplied HTML never reaches the renderer.
func Markdown(item episode.Episode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", fallback(item.Title, "Untitled episode"))
	fmt.Fprintf(&b, "**%s**\n\n", fallback(item.PodcastName, "Unknown podcast"))
	if item.PubDate != "" {
		fmt.Fprintf(&b, "- Published: %s\n", item.PubDate)
	}
	fmt.Fprintf(&b, "- Length: %s\n", episode.FormatDuration(item.Duration))
	if item.Completed {
		b.WriteString("- Played\n")
	} else if item.ListenSeconds > 0 {
		fmt.Fprintf(&b, "- Listened: %s\n", episode.FormatDuration(item.ListenSeconds))
	}
	if item.QueuePosition != nil {
		fmt.Fprintf(&b, "- Queue position: %d\n", *item.QueuePosition)
	}
	if item.URL != "" {
		fmt.Fprintf(&b, "- Audio: %s\n", item.URL)
	}
	b.WriteString("\n")
	b.WriteString(item.Summary())
	b.WriteString("\n")
	return b.String()
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
