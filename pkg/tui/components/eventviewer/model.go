package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pods/pkg/tui/events"
	"tableflip.dev/pods/pkg/tui/ui"
)

// Level indicates the severity of a logged event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one line of the debug pane.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Model is the debug pane: newest entries first, with a running tally of
// queue saves in the header so a diverged order is visible at a glance.
type Model struct {
	viewport viewport.Model
	entries  []Entry

	maxEntries int
	saved      int
	failed     int
	lastOp     string

	width  int
	height int

	styles Styles
}

type Styles struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// NewModel keeps at most maxEntries lines; anything <= 0 means 200.
func NewModel(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Model{
		viewport:   viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		maxEntries: maxEntries,
		styles:     DefaultStyles(),
	}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update lets the pane scroll with the wheel; everything else arrives through
// Record or Append.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if _, ok := msg.(tea.MouseWheelMsg); !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	width = max(width, 4)
	height = max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height
	m.viewport.SetWidth(max(1, width-2))
	m.viewport.SetHeight(max(1, height-3))
	m.refreshContent()
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.styles.Header.Render(m.header()), m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

func (m *Model) header() string {
	if m.saved == 0 && m.failed == 0 {
		return "Events"
	}
	h := fmt.Sprintf("Events · saves %d ok", m.saved)
	if m.failed > 0 {
		h += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.lastOp != "" {
		h += " · last " + m.lastOp
	}
	return h
}

// Saves reports the persistence tally seen so far.
func (m *Model) Saves() (ok, failed int) { return m.saved, m.failed }

// Record turns a tea message into an entry. Messages without a description
// are dropped. It reports whether an entry was added.
func (m *Model) Record(msg tea.Msg, detail string) bool {
	if detail == "" {
		return false
	}
	entry := Entry{Source: "tea", Summary: fmt.Sprintf("%T", msg), Detail: detail}
	switch v := msg.(type) {
	case events.PersistedMsg:
		entry.Source = string(v.Component)
		entry.Summary = "save"
		m.lastOp = shortOp(v.Result.Op.String())
		if v.Result.Err != nil {
			entry.Level = LevelError
			m.failed++
		} else {
			m.saved++
		}
	case events.DropMsg:
		entry.Source = string(v.Component)
		entry.Summary = "drop"
		if !v.Resolution.Reorder {
			entry.Level = LevelWarn
		}
	case events.DragStartMsg:
		entry.Source = string(v.Component)
		entry.Summary = "drag"
	case events.QueueOrderMsg:
		entry.Source = string(v.Component)
		entry.Summary = "order"
	case events.EpisodeHighlightMsg:
		entry.Source = string(v.Component)
		entry.Summary = "cursor"
	}
	m.Append(entry)
	return true
}

// Append inserts a new entry at the top of the log.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Source == "" {
		entry.Source = "tea"
	}
	if entry.Summary == "" {
		entry.Summary = "event"
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.refreshContent()
	m.viewport.SetYOffset(0)
}

// Entries returns the log, newest first.
func (m *Model) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, m.renderEntry(entry))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = m.styles.Timestamp.Render("No events yet")
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderEntry(entry Entry) string {
	ts := m.styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	source := m.styles.Source.Render("[" + entry.Source + "]")
	msg := entry.Summary
	if entry.Detail != "" {
		msg += ": " + entry.Detail
	}
	switch entry.Level {
	case LevelWarn:
		msg = m.styles.Warn.Render(msg)
	case LevelError:
		msg = m.styles.Error.Render(msg)
	default:
		msg = m.styles.Info.Render(msg)
	}
	return ts + " " + source + " " + msg
}

func shortOp(op string) string {
	if len(op) > 8 {
		return op[:8]
	}
	return op
}
