// Package teaui hosts the Bubble Tea program for the pods TUI.
package teaui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/store"
	"tableflip.dev/pods/pkg/tui/components/detail"
	"tableflip.dev/pods/pkg/tui/components/episodelist"
	"tableflip.dev/pods/pkg/tui/components/eventviewer"
	"tableflip.dev/pods/pkg/tui/events"
	"tableflip.dev/pods/pkg/tui/theme"
)

// listTop is the terminal row of the first list row: tabs, then the page
// header.
const listTop = 2

const debugHeight = 10

const helpText = "1-4 page · j/k move · J/K reorder · drag to reorder · enter notes · a queue · x dequeue · r reload · D debug · q quit"

// Options configures the TUI.
type Options struct {
	Page   app.Page
	Logger *log.Logger
}

type pageLoadedMsg struct {
	page   app.Page
	result app.Result
	err    error
}

type queueChangedMsg struct {
	action  string
	episode events.EpisodeRef
	message string
	err     error
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// Model is the root of the TUI.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	logger *log.Logger
	theme  theme.Theme

	pages  map[app.Page]*episodelist.Model
	loaded map[app.Page]app.Result
	active app.Page

	width  int
	height int

	status      string
	statusError bool

	debugEnabled bool
	eventViewer  *eventviewer.Model

	notes *detail.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New constructs the root model.
func New(ctx context.Context, svc *app.Service, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	active := opts.Page
	if active == "" {
		active = app.Queue
	}
	m := &Model{
		svc:    svc,
		ctx:    ctx,
		logger: logger,
		theme:  theme.Default(),
		pages:  make(map[app.Page]*episodelist.Model, len(app.Pages)),
		loaded: make(map[app.Page]app.Result, len(app.Pages)),
		active: active,
		status: "Loading…",
	}
	for _, p := range app.Pages {
		opts := episodelist.Options{
			ID:        events.ComponentID(p),
			Draggable: p.Draggable(),
			Logger:    logger,
			Context:   ctx,
			Styles:    m.theme.Item,
			Empty:     fmt.Sprintf("No %s episodes", strings.ToLower(p.Title())),
		}
		if p.Draggable() && svc != nil {
			opts.Reconciler = &reorder.Reconciler{Persister: svc, Logger: logger}
		}
		list := episodelist.New(opts)
		list.SetOrigin(listTop)
		m.pages[p] = list
	}
	return m
}

// Run launches the interactive TUI program.
func Run(ctx context.Context, svc *app.Service, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadPage(m.active)}
	for _, p := range app.Pages {
		if p != m.active {
			cmds = append(cmds, m.loadPage(p))
		}
	}
	cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
	return tea.Batch(cmds...)
}

// Active returns the shown page.
func (m *Model) Active() app.Page { return m.active }

// List returns the list component for page.
func (m *Model) List(page app.Page) *episodelist.Model { return m.pages[page] }

// Notes returns the open episode notes pane, if any.
func (m *Model) Notes() *detail.Model { return m.notes }

// Status returns the status line text.
func (m *Model) Status() string { return m.status }

func (m *Model) list() *episodelist.Model { return m.pages[m.active] }

func (m *Model) loadPage(page app.Page) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		res, err := svc.Load(ctx, page)
		return pageLoadedMsg{page: page, result: res, err: err}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil || svc.Cache == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) handleWatchEvent(ev store.Event, cmds *[]tea.Cmd) {
	switch ev.Type {
	case store.EventPageChanged:
		page, err := app.ParsePage(ev.Page)
		if err != nil {
			return
		}
		if m.busy(page) {
			return
		}
		*cmds = append(*cmds, m.loadPage(page))
	default:
		for _, p := range app.Pages {
			if !m.busy(p) {
				*cmds = append(*cmds, m.loadPage(p))
			}
		}
	}
}

// busy reports a page with local changes still being saved; reloading it now
// would show an order older than the one on screen.
func (m *Model) busy(page app.Page) bool {
	list := m.pages[page]
	if list == nil {
		return false
	}
	v := list.Queue().View()
	return v.InFlight > 0 || v.IsDragging
}

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd
	route := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
	case pageLoadedMsg:
		m.handleLoaded(msg)
	case queueChangedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("%s %s: %v", msg.action, msg.episode.Label(), msg.err))
			break
		}
		m.setStatus(fallback(msg.message, msg.action+" "+msg.episode.Label()))
		cmds = append(cmds, m.loadPage(app.Queue))
	case events.PersistedMsg:
		if msg.Result.Err != nil {
			m.setError("Queue order not saved: " + msg.Result.Err.Error())
		} else {
			m.setStatus(fmt.Sprintf("Queue order saved (%d episodes)", len(msg.Result.IDs)))
		}
	case events.DropMsg:
		if !msg.Resolution.Reorder {
			m.setStatus("Drop ignored")
		}
	case watchStartedMsg:
		if msg.err != nil {
			m.logger.Printf("tui: watch: %v", msg.err)
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		m.handleWatchEvent(msg.event, &cmds)
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyPressMsg:
		handled, cmd := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		route = !handled
	default:
		route = true
	}

	if route && m.notes != nil {
		if _, isKey := msg.(tea.KeyPressMsg); isKey || isMouse(msg) {
			_, cmd := m.notes.Update(msg)
			return m, tea.Batch(append(cmds, cmd)...)
		}
	}

	if route {
		for _, list := range m.pages {
			if _, isKey := msg.(tea.KeyPressMsg); isKey || isMouse(msg) {
				if list != m.list() {
					continue
				}
			}
			_, cmd := list.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return m, tea.Batch(cmds...)
}

func isMouse(msg tea.Msg) bool {
	_, ok := msg.(tea.MouseMsg)
	return ok
}

func (m *Model) handleLoaded(msg pageLoadedMsg) {
	list := m.pages[msg.page]
	if list == nil {
		return
	}
	if msg.err != nil {
		m.logger.Printf("tui: load %s: %v", msg.page, msg.err)
		if msg.page == m.active {
			m.setError(fmt.Sprintf("Load %s: %v", msg.page.Title(), msg.err))
		}
		return
	}
	if m.busy(msg.page) {
		// A drag or save is under way; its own persistence wins.
		return
	}
	m.loaded[msg.page] = msg.result
	list.SetItems(msg.result.Episodes)
	if msg.page != m.active {
		return
	}
	if msg.result.Stale {
		m.setError(fmt.Sprintf("Offline, showing %s from %s", msg.page.Title(), msg.result.Saved.Local().Format(time.Kitchen)))
	} else {
		m.setStatus(fmt.Sprintf("Loaded %d episodes", len(msg.result.Episodes)))
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopWatch()
		for _, list := range m.pages {
			list.Close()
		}
		return true, tea.Quit
	case "esc":
		if m.notes == nil {
			return false, nil
		}
		m.notes = nil
		m.setStatus(m.active.Title())
		return true, nil
	case "enter":
		if m.notes != nil {
			return true, nil
		}
		item, ok := m.list().Selected()
		if !ok {
			return true, nil
		}
		m.notes = detail.New(item, m.width, m.listHeight())
		m.setStatus("Notes · esc to close")
		return true, nil
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		m.switchTo(app.Pages[idx])
		return true, nil
	case "tab":
		m.switchTo(app.Pages[(m.pageIndex()+1)%len(app.Pages)])
		return true, nil
	case "shift+tab":
		m.switchTo(app.Pages[(m.pageIndex()+len(app.Pages)-1)%len(app.Pages)])
		return true, nil
	case "r":
		m.setStatus("Reloading " + m.active.Title())
		return true, m.loadPage(m.active)
	case "D":
		m.toggleDebug()
		return true, nil
	case "a":
		return true, m.queueSelected(true)
	case "x", "delete":
		return true, m.queueSelected(false)
	}
	return false, nil
}

func (m *Model) pageIndex() int {
	for i, p := range app.Pages {
		if p == m.active {
			return i
		}
	}
	return 0
}

func (m *Model) switchTo(page app.Page) {
	if page == m.active {
		return
	}
	m.active = page
	m.notes = nil
	if res, ok := m.loaded[page]; ok && res.Stale {
		m.setError(fmt.Sprintf("Offline, showing %s from %s", page.Title(), res.Saved.Local().Format(time.Kitchen)))
	} else {
		m.setStatus(page.Title())
	}
	m.layout()
}

func (m *Model) queueSelected(add bool) tea.Cmd {
	item, ok := m.list().Selected()
	if !ok {
		return nil
	}
	if add && m.active == app.Queue {
		m.setStatus("Already queued")
		return nil
	}
	if m.svc == nil {
		return nil
	}
	ref := events.RefFor(item)
	svc, ctx := m.svc, m.ctx
	action := "Queued"
	if !add {
		action = "Removed"
	}
	m.setStatus(action + "…")
	return func() tea.Msg {
		var (
			text string
			err  error
		)
		if add {
			text, err = svc.Enqueue(ctx, item.ID, item.IsYouTube)
		} else {
			text, err = svc.Dequeue(ctx, item.ID, item.IsYouTube)
		}
		return queueChangedMsg{action: action, episode: ref, message: text, err: err}
	}
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	height := m.height
	if m.debugEnabled && m.eventViewer != nil {
		dbg := min(debugHeight, m.height/3)
		m.eventViewer.SetSize(m.width, dbg)
		height -= dbg
	}
	for _, list := range m.pages {
		list.SetSize(m.width, height)
	}
	if m.notes != nil {
		m.notes.SetSize(m.width, m.listHeight())
	}
}

// listHeight is the number of rows between the header and the status bar.
func (m *Model) listHeight() int {
	height := m.height - 3
	if m.debugEnabled && m.eventViewer != nil {
		height -= min(debugHeight, m.height/3)
	}
	return max(height, 1)
}

func (m *Model) toggleDebug() {
	if m.debugEnabled {
		m.debugEnabled = false
		m.eventViewer = nil
		m.setStatus("Debug log hidden")
		m.layout()
		return
	}

	m.debugEnabled = true
	if m.eventViewer == nil {
		m.eventViewer = eventviewer.NewModel(400)
	}
	m.eventViewer.Append(eventviewer.Entry{
		Summary: "debug",
		Detail:  "Debug window enabled",
		Source:  "ui",
	})
	m.setStatus("Debug log visible")
	m.layout()
}

func (m *Model) noteEvent(msg tea.Msg) {
	if m.eventViewer == nil {
		return
	}
	if _, ok := msg.(tea.MouseMotionMsg); ok {
		return
	}
	if v, ok := msg.(pageLoadedMsg); ok {
		level := eventviewer.LevelInfo
		if v.err != nil || v.result.Stale {
			level = eventviewer.LevelWarn
		}
		m.eventViewer.Append(eventviewer.Entry{
			Source:  string(v.page),
			Summary: "load",
			Detail:  describeMsg(msg),
			Level:   level,
		})
		return
	}
	m.eventViewer.Record(msg, describeMsg(msg))
}

func describeMsg(msg tea.Msg) string {
	if d, ok := msg.(interface{ Describe() string }); ok {
		return d.Describe()
	}
	switch v := msg.(type) {
	case tea.KeyPressMsg:
		return fmt.Sprintf("key=%q", v.String())
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height)
	case tea.MouseClickMsg:
		return fmt.Sprintf("click=%d,%d", v.X, v.Y)
	case tea.MouseReleaseMsg:
		return fmt.Sprintf("release=%d,%d", v.X, v.Y)
	case pageLoadedMsg:
		if v.err != nil {
			return fmt.Sprintf("page=%s err=%v", v.page, v.err)
		}
		return fmt.Sprintf("page=%s episodes=%d stale=%t", v.page, len(v.result.Episodes), v.result.Stale)
	default:
		return ""
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusError = true
}

// View renders the tabs, the page header, the list and the status bar.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := m.list().View()
	if m.notes != nil {
		body = m.notes.View()
	}
	parts := []string{
		m.renderTabs(),
		m.renderHeader(),
		body,
	}
	if m.debugEnabled && m.eventViewer != nil {
		parts = append(parts, m.eventViewer.View())
	}
	parts = append(parts, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(app.Pages))
	for i, p := range app.Pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == m.active {
			tabs = append(tabs, m.theme.Tabs.Active.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tabs.Inactive.Render(label))
		}
	}
	return truncate.String(strings.Join(tabs, m.theme.Tabs.Gap.Render("│")), uint(m.width))
}

func (m *Model) renderHeader() string {
	list := m.list()
	sum := app.Summarize(list.Items())
	header := fmt.Sprintf("%s · %d episodes · %s left", m.active.Title(), sum.Episodes, episode.FormatDuration(sum.Remaining))
	if v := list.Queue().View(); v.Diverged {
		header += " · not saved"
	}
	return truncate.String(m.theme.Panel.Title.Render(header), uint(m.width))
}

func (m *Model) renderStatus() string {
	status := m.theme.Footer.Status.Render(m.status)
	if m.statusError {
		status = m.theme.Footer.Error.Render(m.status)
	}
	line := status + "  " + m.theme.Footer.Help.Render(helpText)
	return truncate.String(line, uint(m.width))
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
