// Package episodelist renders one page of episodes through the windowing
// engine and turns mouse gestures into drag reorders.
package episodelist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/pods/pkg/drag"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/geometry"
	"tableflip.dev/pods/pkg/queue"
	"tableflip.dev/pods/pkg/reorder"
	"tableflip.dev/pods/pkg/tui/events"
	"tableflip.dev/pods/pkg/tui/theme"
	"tableflip.dev/pods/pkg/tui/ui"
	"tableflip.dev/pods/pkg/vlist"
)

const (
	wheelStep = 3
	dragTick  = 80 * time.Millisecond
)

// AutoScroll in cells: pointer positions are cell centres, so a margin of
// one row triggers on the first and last visible rows.
var AutoScroll = drag.AutoScroll{Margin: 1, Step: 1}

// Options configures a list.
type Options struct {
	ID         events.ComponentID
	Draggable  bool
	Reconciler *reorder.Reconciler
	Logger     *log.Logger
	// Context bounds persistence jobs; they are not tied to the list's life.
	Context  context.Context
	Frame    time.Duration
	Provider geometry.Provider
	Styles   theme.ItemTheme
	Empty    string
}

type frameMsg struct {
	component events.ComponentID
	token     vlist.FrameToken
}

type persistMsg struct {
	component events.ComponentID
	result    reorder.Result
}

type dragTickMsg struct {
	component events.ComponentID
}

// Model is a windowed episode list component.
type Model struct {
	id     events.ComponentID
	list   *queue.Model
	ctx    context.Context
	frame  time.Duration
	styles theme.ItemTheme
	empty  string

	cursor int
	width  int
	height int
	top    int

	pointerY int
	ticking  bool
	hover    int

	rendered map[string]string
}

var _ ui.EpisodeSource = (*Model)(nil)

// New constructs a list.
func New(opts Options) *Model {
	provider := opts.Provider
	if provider == nil {
		provider = geometry.Cells
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	frame := opts.Frame
	if frame <= 0 {
		frame = queue.DefaultFrame
	}
	empty := opts.Empty
	if empty == "" {
		empty = "No episodes"
	}
	return &Model{
		id: opts.ID,
		list: queue.NewModel(queue.Options{
			Provider:   provider,
			AutoScroll: AutoScroll,
			Draggable:  opts.Draggable,
			Reconciler: opts.Reconciler,
			Logger:     opts.Logger,
		}),
		ctx:      ctx,
		frame:    frame,
		styles:   opts.Styles,
		empty:    empty,
		hover:    -1,
		rendered: make(map[string]string),
	}
}

// ID returns the component id.
func (m *Model) ID() events.ComponentID { return m.id }

// Queue exposes the underlying model for status reporting.
func (m *Model) Queue() *queue.Model { return m.list }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize takes the space the page owns, chrome rows included. The list
// itself draws in the usable rows only.
func (m *Model) SetSize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width = width
	m.height = height
	m.list.Apply(queue.Resized{Width: float64(width), Height: float64(height)})
	m.rendered = make(map[string]string)
	m.ensureVisible()
}

// SetOrigin records the terminal row of the first list row, for hit tests.
func (m *Model) SetOrigin(top int) { m.top = top }

// SetItems replaces the collection.
func (m *Model) SetItems(items []episode.Episode) {
	var keep episode.ID
	if cur, ok := m.list.Item(m.cursor); ok {
		keep = cur.ID
	}
	m.list.Apply(queue.Loaded{Items: items})
	m.rendered = make(map[string]string)
	if idx := m.list.Index(keep); idx >= 0 {
		m.cursor = idx
	}
	m.clampCursor()
	m.ensureVisible()
}

// Items returns the collection in its current order.
func (m *Model) Items() []episode.Episode { return m.list.Items() }

// Len is the number of items.
func (m *Model) Len() int { return m.list.Len() }

// Cursor is the highlighted index.
func (m *Model) Cursor() int { return m.cursor }

// Selected returns the highlighted episode.
func (m *Model) Selected() (episode.Episode, bool) { return m.list.Item(m.cursor) }

// Close unmounts the list; pending frames become no-ops.
func (m *Model) Close() { m.list.Apply(queue.Unmounted{}) }

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.component == m.id {
			m.list.Apply(queue.FrameElapsed{Token: msg.token})
		}
	case persistMsg:
		if msg.component != m.id {
			break
		}
		m.list.Apply(queue.Persisted{Result: msg.result})
		return m, events.Emit(events.PersistedMsg{Component: m.id, Result: msg.result})
	case dragTickMsg:
		if msg.component != m.id {
			break
		}
		return m, m.autoScroll()
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseWheelMsg:
		mouse := msg.Mouse()
		switch mouse.Button {
		case tea.MouseWheelUp:
			return m, m.scrollBy(-wheelStep)
		case tea.MouseWheelDown:
			return m, m.scrollBy(wheelStep)
		}
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button == tea.MouseLeft {
			return m, m.pointerDown(mouse.Y)
		}
	case tea.MouseMotionMsg:
		return m, m.pointerMove(msg.Mouse().Y)
	case tea.MouseReleaseMsg:
		return m, m.pointerUp(msg.Mouse().Y)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	page := m.pageRows()
	switch msg.String() {
	case "up", "k":
		return m.moveCursor(-1)
	case "down", "j":
		return m.moveCursor(1)
	case "pgup", "ctrl+u":
		return m.moveCursor(-page)
	case "pgdown", "ctrl+d":
		return m.moveCursor(page)
	case "home", "g":
		return m.moveCursor(-m.list.Len())
	case "end", "G":
		return m.moveCursor(m.list.Len())
	case "K", "shift+up":
		return m.moveItem(-1)
	case "J", "shift+down":
		return m.moveItem(1)
	}
	return nil
}

func (m *Model) pageRows() int {
	vp := m.list.Viewport()
	n := int(vp.ContainerHeight / vp.ItemHeight)
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	prev := m.cursor
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
	if m.cursor == prev {
		return nil
	}
	return m.highlight()
}

func (m *Model) highlight() tea.Cmd {
	item, ok := m.list.Item(m.cursor)
	if !ok {
		return nil
	}
	return events.Emit(events.EpisodeHighlightMsg{Component: m.id, Index: m.cursor, Episode: events.RefFor(item)})
}

// moveItem reorders the highlighted item by delta positions.
func (m *Model) moveItem(delta int) tea.Cmd {
	item, ok := m.list.Item(m.cursor)
	if !ok || !m.list.Draggable() {
		return nil
	}
	target := m.cursor + delta
	if target < 0 || target >= m.list.Len() {
		return nil
	}
	cmd := m.apply(queue.DragDropped{ID: item.ID, Index: target})
	m.cursor = m.list.Index(item.ID)
	m.ensureVisible()
	return cmd
}

func (m *Model) clampCursor() {
	if m.cursor >= m.list.Len() {
		m.cursor = m.list.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ensureVisible scrolls so the cursor item is fully shown. Keyboard jumps
// apply on the spot rather than waiting for a frame.
func (m *Model) ensureVisible() {
	if m.list.Len() == 0 {
		return
	}
	vp := m.list.Viewport()
	h := vp.ItemHeight
	top := float64(m.cursor) * h
	off := m.list.Offset()
	switch {
	case top < off:
		off = top
	case top+h > off+vp.ContainerHeight:
		off = top + h - vp.ContainerHeight
	default:
		return
	}
	for _, e := range m.list.Apply(queue.Scrolled{Offset: off}) {
		if f, ok := e.(queue.ScheduleFrame); ok {
			m.list.Apply(queue.FrameElapsed{Token: f.Token})
		}
	}
}

// scrollBy adds to the offset a pending frame is about to apply, so wheel
// ticks landing within one frame accumulate instead of coalescing.
func (m *Model) scrollBy(rows float64) tea.Cmd {
	off := m.list.TargetOffset() + rows
	if limit := m.maxOffset(); off > limit {
		off = limit
	}
	if off < 0 {
		off = 0
	}
	return m.apply(queue.Scrolled{Offset: off})
}

func (m *Model) maxOffset() float64 {
	vp := m.list.Viewport()
	limit := float64(m.list.Len())*vp.ItemHeight - vp.ContainerHeight
	if limit < 0 {
		return 0
	}
	return limit
}

func (m *Model) container() drag.Container {
	vp := m.list.Viewport()
	return drag.Container{
		Top:        float64(m.top),
		Bottom:     float64(m.top) + vp.ContainerHeight,
		ScrollTop:  m.list.Offset(),
		Measurable: vp.ContainerHeight > 0,
	}
}

func centre(y int) float64 { return float64(y) + 0.5 }

func (m *Model) pointerDown(y int) tea.Cmd {
	id, ok := taggedID(m.HitTest(y))
	if !ok {
		return nil
	}
	idx := m.list.Index(id)
	if idx < 0 {
		return nil
	}
	m.cursor = idx
	cmds := []tea.Cmd{m.highlight()}
	if m.list.Draggable() {
		m.list.Apply(queue.DragStarted{ID: id})
		m.pointerY = y
		m.hover = idx
		item, _ := m.list.Item(idx)
		cmds = append(cmds, events.Emit(events.DragStartMsg{
			Component: m.id,
			Episode:   events.RefFor(item),
			Payload:   drag.PayloadFor(id),
		}))
		cmds = append(cmds, m.startTick())
	}
	return tea.Batch(cmds...)
}

func (m *Model) pointerMove(y int) tea.Cmd {
	if _, ok := m.list.Dragging(); !ok {
		return nil
	}
	m.pointerY = y
	m.hover = m.targetIndex(y)
	return m.apply(queue.DraggedOver{ClientY: centre(y), Container: m.container()})
}

func (m *Model) pointerUp(y int) tea.Cmd {
	dragged, ok := m.list.Dragging()
	if !ok {
		return nil
	}
	m.hover = -1
	m.ticking = false
	cmd := m.apply(queue.Dropped{
		Event: drag.DropEvent{
			Target:  m.HitTest(y),
			ClientY: centre(y),
			Payload: drag.PayloadFor(dragged),
		},
		Container: m.container(),
	})
	if idx := m.list.Index(dragged); idx >= 0 {
		m.cursor = idx
	}
	res := m.list.View().LastDrop
	return tea.Batch(cmd, events.Emit(events.DropMsg{Component: m.id, Resolution: res}))
}

func (m *Model) startTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	id := m.id
	return tea.Tick(dragTick, func(time.Time) tea.Msg { return dragTickMsg{component: id} })
}

// autoScroll repeats the last drag-over while the pointer rests, like a
// browser's continuous dragover.
func (m *Model) autoScroll() tea.Cmd {
	m.ticking = false
	if _, ok := m.list.Dragging(); !ok {
		return nil
	}
	cmd := m.apply(queue.DraggedOver{ClientY: centre(m.pointerY), Container: m.container()})
	return tea.Batch(cmd, m.startTick())
}

// targetIndex is where a drop at y would land, for highlighting.
func (m *Model) targetIndex(y int) int {
	if id, ok := taggedID(m.HitTest(y)); ok {
		return m.list.Index(id)
	}
	vp := m.list.Viewport()
	ct := m.container()
	idx, ok := vlist.VirtualIndex((centre(y)-ct.Top)+ct.ScrollTop, vp.ItemHeight, m.list.Len())
	if !ok {
		return -1
	}
	return idx
}

// apply feeds cmd to the model and turns its effects into tea commands.
func (m *Model) apply(cmd queue.Command) tea.Cmd {
	return m.run(m.list.Apply(cmd))
}

func (m *Model) run(effects []queue.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case queue.ScheduleFrame:
			id, token := m.id, e.Token
			cmds = append(cmds, tea.Tick(m.frame, func(time.Time) tea.Msg {
				return frameMsg{component: id, token: token}
			}))
		case queue.ScrollBy:
			cmds = append(cmds, m.scrollBy(e.Delta))
		case queue.Persist:
			id, job, ctx := m.id, e.Job, m.ctx
			cmds = append(cmds,
				events.Emit(events.QueueOrderMsg{Component: m.id, Op: job.Op.String(), Order: job.IDs}),
				func() tea.Msg {
					return persistMsg{component: id, result: job.Run(ctx)}
				})
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// View implements ui.Component.
func (m *Model) View() string {
	vp := m.list.Viewport()
	rows := int(vp.ContainerHeight)
	if rows <= 0 || m.width <= 0 {
		return ""
	}
	lines := make([]string, rows)
	if m.list.Len() == 0 {
		lines[0] = m.styles.Empty.Render(m.empty)
		return strings.Join(lines, "\n")
	}

	h := int(vp.ItemHeight)
	w := m.list.Window()
	blocks := m.list.Render(m.renderItem)
	off := int(m.list.Offset())
	for r := 0; r < rows; r++ {
		virt := off + r
		idx, line := virt/h, virt%h
		if !w.Contains(idx) {
			continue
		}
		block := strings.Split(blocks[idx-w.Start], "\n")
		if line < len(block) {
			lines[r] = truncate.String(block[line], uint(m.width))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderItem(item episode.Episode, key string, class geometry.WidthClass) string {
	state := m.itemState(item.ID)
	cacheKey := key + "|" + state
	if s, ok := m.rendered[cacheKey]; ok {
		return s
	}
	s := m.renderBlock(item, class, state)
	if len(m.rendered) > 256 {
		m.rendered = make(map[string]string)
	}
	m.rendered[cacheKey] = s
	return s
}

func (m *Model) itemState(id episode.ID) string {
	var b strings.Builder
	if cur, ok := m.list.Item(m.cursor); ok && cur.ID == id {
		b.WriteByte('c')
	}
	if dragged, ok := m.list.Dragging(); ok && dragged == id {
		b.WriteByte('d')
	}
	if target, ok := m.list.Item(m.hover); ok && target.ID == id {
		if _, dragging := m.list.Dragging(); dragging {
			b.WriteByte('t')
		}
	}
	return b.String()
}

func (m *Model) renderBlock(item episode.Episode, class geometry.WidthClass, state string) string {
	marker := "  "
	switch {
	case strings.Contains(state, "d"):
		marker = "≡ "
	case strings.Contains(state, "t"):
		marker = "→ "
	case strings.Contains(state, "c"):
		marker = "▌ "
	}

	title := m.styles.Title.Render(item.Title)
	if strings.Contains(state, "c") {
		title = m.styles.Cursor.Render(item.Title)
	}
	lines := []string{
		marker + title,
		"  " + m.styles.Podcast.Render(item.PodcastName) + m.styles.Meta.Render(" · "+item.PubDate),
		"  " + m.progressLine(item),
	}
	if class >= geometry.Medium {
		lines = append(lines, "  "+m.styles.Meta.Render(oneLine(item.Description)))
	}
	if class >= geometry.Wide {
		lines = append(lines, "  "+m.styles.Meta.Render(flags(item)))
	}
	if strings.Contains(state, "d") {
		for i := range lines {
			lines[i] = m.styles.Dragging.Render(lines[i])
		}
	}
	if strings.Contains(state, "t") {
		lines[0] = m.styles.Target.Render(lines[0])
	}
	// Inter-item margin.
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m *Model) progressLine(item episode.Episode) string {
	const width = 20
	filled := int(item.Progress() * width)
	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	text := fmt.Sprintf("%s / %s", episode.FormatDuration(item.ListenSeconds), episode.FormatDuration(item.Duration))
	if item.Completed {
		text = "done · " + episode.FormatDuration(item.Duration)
	}
	return m.styles.Progress.Render(bar) + " " + m.styles.Meta.Render(text)
}

func oneLine(s string) string {
	if s = episode.PlainText(s); s == "" {
		return "-"
	}
	return s
}

// flags is the wide-class status line.
func flags(item episode.Episode) string {
	var parts []string
	if item.Saved {
		parts = append(parts, "saved")
	}
	if item.Queued {
		parts = append(parts, "queued")
	}
	if item.Downloaded {
		parts = append(parts, "downloaded")
	}
	if item.IsYouTube {
		parts = append(parts, "youtube")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " · ")
}
