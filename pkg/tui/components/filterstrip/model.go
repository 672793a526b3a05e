// Package filterstrip renders a filterbar.Bar as a one-line strip of asset
// filters with a "more" overflow panel.
package filterstrip

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/filterbar"
	"tableflip.dev/tokenbar/pkg/tui/events"
	"tableflip.dev/tokenbar/pkg/tui/theme"
	"tableflip.dev/tokenbar/pkg/tui/ui"
)

const moreLabel = "more ▾"

// Model is the Bubble Tea view of the filter bar. It also measures the
// rendered item widths and panel height for the bar.
type Model struct {
	id    events.ComponentID
	bar   *filterbar.Bar
	theme theme.Theme

	width   int
	height  int
	focused bool

	// highlighted row of the open panel
	cursor int

	widths      []int
	panelHeight int
}

var _ ui.Focusable = (*Model)(nil)
var _ filterbar.Measurer = (*Model)(nil)

// New wraps bar and registers the model as its measurement provider.
func New(id events.ComponentID, bar *filterbar.Bar, th theme.Theme) *Model {
	m := &Model{id: id, bar: bar, theme: th, focused: true}
	bar.SetMeasurer(m)
	// park the panel behind the bar before the first frame
	m.Measure()
	return m
}

// ID returns the component identifier used in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// ItemWidth implements filterbar.Measurer with the widths of the last
// measurement.
func (m *Model) ItemWidth(index int) int {
	if index < 0 || index >= len(m.widths) {
		return 0
	}
	return m.widths[index]
}

// Cursor is the highlighted row of the overflow panel.
func (m *Model) Cursor() int { return m.cursor }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focus marks the strip as the key receiver.
func (m *Model) Focus() tea.Cmd {
	if m.focused {
		return nil
	}
	m.focused = true
	return events.FocusCmd(m.id)
}

// Blur marks the strip as inactive.
func (m *Model) Blur() tea.Cmd {
	if !m.focused {
		return nil
	}
	m.focused = false
	return events.BlurCmd(m.id)
}

// Focused reports whether the strip receives keys.
func (m *Model) Focused() bool { return m.focused }

// Update handles selection and panel keys.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyPressMsg); ok && m.focused {
		if m.bar.Panel().Open() {
			cmd = m.handlePanelKey(key.String())
		} else {
			cmd = m.handleStripKey(key.String())
		}
	}
	m.Measure()
	return m, cmd
}

func (m *Model) handleStripKey(key string) tea.Cmd {
	switch key {
	case "left", "h":
		return m.selectAdjacent(-1)
	case "right", "l":
		return m.selectAdjacent(1)
	case "home":
		return m.selectAt(0, false)
	case "end":
		return m.selectAt(len(m.bar.Entries())-1, false)
	case "m":
		return m.toggle()
	}
	return nil
}

func (m *Model) handlePanelKey(key string) tea.Cmd {
	n := len(m.bar.Entries())
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter", "space":
		return m.selectAt(m.cursor, true)
	case "esc", "m":
		return m.toggle()
	}
	return nil
}

func (m *Model) selectAdjacent(delta int) tea.Cmd {
	return m.selectAt(m.bar.Selection().SelectedIndex+delta, false)
}

func (m *Model) selectAt(index int, fromPanel bool) tea.Cmd {
	entries := m.bar.Entries()
	if index < 0 || index >= len(entries) {
		return nil
	}
	// make sure scrolling uses the current layout
	m.Measure()
	if !m.bar.ChangeFilter(index, entries[index].AssetID, true) {
		return nil
	}
	return events.FilterSelectCmd(m.id, index, entries[index].AssetID, fromPanel)
}

func (m *Model) toggle() tea.Cmd {
	if !m.bar.ToggleMore() {
		return nil
	}
	open := m.bar.Panel().Open()
	if open {
		m.cursor = m.bar.Selection().SelectedIndex
	}
	return events.PanelToggleCmd(m.id, open)
}

// Measure records item widths and the panel content height. While the panel
// is closed the height goes to the bar on every pass; an open panel keeps the
// offset its toggle gave it until it closes again.
func (m *Model) Measure() {
	entries := m.bar.Entries()
	widths := make([]int, len(entries))
	for i, e := range entries {
		widths[i] = lipgloss.Width(m.renderItem(i, e))
	}
	m.widths = widths

	m.panelHeight = lipgloss.Height(m.renderPanel(entries))
	if !m.bar.Panel().Open() {
		m.bar.ContentMeasured(m.panelHeight)
	}
}

// View renders the title row, the strip, a rule and whatever part of the
// panel hangs below the bar.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	stripWidth := width
	if sw := m.bar.Geometry().StripWidth; sw > 0 && sw < stripWidth {
		stripWidth = sw
	}
	rows := []string{
		m.renderTitle(width),
		m.renderStrip(stripWidth),
		m.theme.Filter.Disabled.Render(strings.Repeat("─", width)),
	}
	for len(rows) < m.bar.Geometry().Baseline {
		rows = append(rows, "")
	}
	view := strings.Join(rows, "\n")
	if panel := m.visiblePanel(); panel != "" {
		view += "\n" + panel
	}
	return view
}

// visiblePanel cuts the panel at the baseline. The panel spans rows
// [Top, Top+h); only the rows at or below the baseline show, so a panel at
// Baseline-h is hidden and one at Baseline is shown in full.
func (m *Model) visiblePanel() string {
	lines := strings.Split(m.renderPanel(m.bar.Entries()), "\n")
	p := m.bar.Panel()
	shown := p.Top() + len(lines) - p.Baseline()
	if shown <= 0 {
		return ""
	}
	if shown > len(lines) {
		shown = len(lines)
	}
	return strings.Join(lines[len(lines)-shown:], "\n")
}

func (m *Model) renderTitle(width int) string {
	title := m.theme.Header.Title.Render("Assets")
	addr := m.bar.Address()
	if addr == "" {
		addr = "no address"
	}
	line := title + "  " + m.theme.Header.Address.Render(addr)
	return truncate.StringWithTail(line, uint(width), "…")
}

func (m *Model) renderStrip(width int) string {
	entries := m.bar.Entries()
	sel := m.bar.Selection()

	toggle := ""
	if m.bar.OverflowToggleClass() == filterbar.ClassVisible {
		style := m.theme.Filter.Toggle
		if sel.Loading {
			style = m.theme.Filter.Disabled
		}
		toggle = style.Render(moreLabel)
	}
	available := width - lipgloss.Width(toggle) - 1
	if available < 1 {
		available = 1
	}

	if len(entries) == 0 {
		text := "no assets"
		if sel.Initializing {
			text = "loading assets…"
		}
		return m.pad(m.theme.Filter.Disabled.Render(text), available) + " " + toggle
	}

	margin := strings.Repeat(" ", m.bar.Geometry().Margin)
	scroll := m.bar.ScrollLeft()
	var b strings.Builder
	offset := 0
	for i, e := range entries {
		start := offset
		offset += m.ItemWidth(i) + m.bar.Geometry().Margin
		if start < scroll {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(margin)
		}
		b.WriteString(m.renderItem(i, e))
	}
	strip := truncate.StringWithTail(b.String(), uint(available), "…")
	return m.pad(strip, available) + " " + toggle
}

func (m *Model) renderItem(index int, e asset.FilterEntry) string {
	style := m.theme.Filter.ItemStyle(m.bar.ClassNames(index), e.Watched())
	return style.Render(e.Label())
}

func (m *Model) renderPanel(entries []asset.FilterEntry) string {
	if len(entries) == 0 {
		return m.theme.Panel.Frame.Render(m.theme.Filter.Disabled.Render("no assets"))
	}
	sel := m.bar.Selection()
	labelWidth := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Label()); w > labelWidth {
			labelWidth = w
		}
	}
	rows := make([]string, 0, len(entries))
	for i, e := range entries {
		marker := "  "
		if i == sel.SelectedIndex {
			marker = "› "
		}
		amount := e.Amount.String()
		if e.Watched() {
			amount = "watched"
		}
		row := fmt.Sprintf("%s%-*s  %s", marker, labelWidth, e.Label(), amount)
		if i == m.cursor {
			row = m.theme.Panel.Cursor.Render(row)
		} else {
			row = m.theme.Panel.Row.Render(row)
		}
		rows = append(rows, row)
	}
	return m.theme.Panel.Frame.Render(strings.Join(rows, "\n"))
}

func (m *Model) pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
