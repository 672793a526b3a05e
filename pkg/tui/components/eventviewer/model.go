// Package eventviewer is the debug log docked under the main view. It lists
// the messages routed through the root model, newest first.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/tokenbar/pkg/tui/events"
	"tableflip.dev/tokenbar/pkg/tui/ui"
)

// Level indicates the severity of a logged event.
type Level int

const (
	// LevelInfo is the default severity.
	LevelInfo Level = iota
	// LevelWarn highlights potential issues.
	LevelWarn
	// LevelError highlights failures.
	LevelError
)

// Entry captures a rendered event.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Model renders a streaming event log.
type Model struct {
	viewport viewport.Model
	entries  []Entry

	maxEntries int
	// only entries from this source are shown when set
	source string

	width  int
	height int

	styles Styles
}

// Styles controls the log's presentation.
type Styles struct {
	Frame     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Warn      lipgloss.Style
	Error     lipgloss.Style
	Timestamp lipgloss.Style
	Source    lipgloss.Style
}

// DefaultStyles returns the stock styling.
func DefaultStyles() Styles {
	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	return Styles{
		Frame:     border,
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// NewModel constructs an event viewer capped at the provided entry count.
func NewModel(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	return &Model{
		viewport:   vp,
		maxEntries: maxEntries,
		styles:     DefaultStyles(),
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements ui.Component. The log is passive; content only changes
// through Append.
func (m *Model) Update(tea.Msg) (ui.Component, tea.Cmd) {
	return m, nil
}

// SetSize resizes the viewport while keeping the header and border intact.
func (m *Model) SetSize(width, height int) {
	if width < 4 {
		width = 4
	}
	if height < 3 {
		height = 3
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	m.viewport.SetWidth(max(1, width-2))
	m.viewport.SetHeight(max(1, height-3))
	m.refreshContent()
}

// View renders the bordered viewport.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	title := "Events"
	if m.source != "" {
		title = fmt.Sprintf("Events [%s]", m.source)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.styles.Header.Render(title), m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
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

// Entries returns the logged entries, newest first.
func (m *Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// FilterSource limits the log to one source. An empty source shows all.
func (m *Model) FilterSource(source string) {
	m.source = source
	m.refreshContent()
}

// Clear drops all logged entries.
func (m *Model) Clear() {
	m.entries = nil
	m.refreshContent()
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		if m.source != "" && entry.Source != m.source {
			continue
		}
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
	source := m.styles.Source.Render(fmt.Sprintf("[%s]", entry.Source))
	msg := entry.Summary
	if entry.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, entry.Detail)
	}
	if m.width > 0 {
		msg = truncate.StringWithTail(msg, uint(max(1, m.width-28)), "…")
	}
	switch entry.Level {
	case LevelWarn:
		msg = m.styles.Warn.Render(msg)
	case LevelError:
		msg = m.styles.Error.Render(msg)
	default:
		msg = m.styles.Info.Render(msg)
	}
	return fmt.Sprintf("%s %s %s", ts, source, msg)
}

// FromMsg builds an entry for a message routed through the root model. ok is
// false for messages not worth logging.
func FromMsg(msg tea.Msg) (Entry, bool) {
	entry := Entry{
		Timestamp: time.Now(),
		Source:    "tea",
		Summary:   fmt.Sprintf("%T", msg),
		Level:     LevelInfo,
	}
	switch v := msg.(type) {
	case events.FilterSelectMsg:
		entry.Source = string(v.Component)
		entry.Summary = "select"
	case events.PanelToggleMsg:
		entry.Source = string(v.Component)
		entry.Summary = "panel"
	case events.LoadingMsg:
		entry.Source = string(v.Component)
		entry.Summary = "loading"
	case events.NavigateMsg:
		entry.Source = string(v.Component)
		entry.Summary = "navigate"
	case events.StoreChangeMsg:
		entry.Source = "store"
		entry.Summary = "change"
		if v.Kind == "invalidated" {
			entry.Level = LevelWarn
		}
	case events.FocusMsg:
		entry.Source = string(v.Component)
		entry.Summary = "focus"
	case events.BlurMsg:
		entry.Source = string(v.Component)
		entry.Summary = "blur"
	case error:
		entry.Summary = "error"
		entry.Detail = v.Error()
		entry.Level = LevelError
		return entry, true
	case tea.KeyPressMsg:
		entry.Summary = "key"
		entry.Detail = fmt.Sprintf("key=%q", v.String())
		return entry, true
	case tea.WindowSizeMsg:
		entry.Summary = "resize"
		entry.Detail = fmt.Sprintf("size=%dx%d", v.Width, v.Height)
		return entry, true
	}
	if d, ok := msg.(interface{ Describe() string }); ok {
		entry.Detail = d.Describe()
		return entry, true
	}
	return entry, false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
