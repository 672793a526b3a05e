// Package app is the root Bubble Tea model of the wallet home screen: the
// asset filter strip on top, the asset detail view below and an optional
// debug event log.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/filterbar"
	"tableflip.dev/tokenbar/pkg/signal"
	"tableflip.dev/tokenbar/pkg/store"
	"tableflip.dev/tokenbar/pkg/tui/components/assetdetail"
	"tableflip.dev/tokenbar/pkg/tui/components/eventviewer"
	"tableflip.dev/tokenbar/pkg/tui/components/filterstrip"
	"tableflip.dev/tokenbar/pkg/tui/components/help"
	"tableflip.dev/tokenbar/pkg/tui/events"
	"tableflip.dev/tokenbar/pkg/tui/theme"
	"tableflip.dev/tokenbar/pkg/tui/ui"
)

const (
	stripID  events.ComponentID = "strip"
	detailID events.ComponentID = "detail"
	rootID   events.ComponentID = "root"
)

const helpText = "←/→ select · m more · tab focus · ? help · d debug · q quit"

// ErrMissingService is returned by New without a service or balance source.
var ErrMissingService = errors.New("tui: service and source are required")

// Source feeds the filter bar. store.Source implements it.
type Source interface {
	filterbar.BalanceSource
	filterbar.WatchSource
}

// Options configures the root model.
type Options struct {
	Service *app.Service
	Source  Source
	Address string
	// InitAssetID preselects a filter, like a deep link into the home screen.
	InitAssetID string
	Logger      *zap.Logger
	SettleDelay time.Duration
	Geometry    filterbar.Geometry
}

type startMsg struct{}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// Model composes the filter strip, the detail view and the event log.
type Model struct {
	svc *app.Service
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	loop    *teaLoop
	loading *signal.Bus[bool]
	bar     *filterbar.Bar
	strip   *filterstrip.Model
	detail  *assetdetail.Model
	theme   theme.Theme

	// detail routes requested by the bar during the current Update
	navs []tea.Cmd

	width  int
	height int
	status string

	debugEnabled bool
	eventViewer  *eventviewer.Model

	// shown in place of the detail view while set
	help *help.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	closed bool
}

// New wires the filter bar to the service and builds the components.
func New(opts Options) (*Model, error) {
	if opts.Service == nil || opts.Source == nil {
		return nil, ErrMissingService
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:     opts.Service,
		log:     log.Named("tui"),
		ctx:     ctx,
		cancel:  cancel,
		loop:    newTeaLoop(),
		loading: signal.New[bool](),
		theme:   theme.Default(),
	}

	bar, err := filterbar.New(filterbar.Options{
		Balances:    opts.Source,
		Watch:       opts.Source,
		Session:     filterbar.StaticSession(opts.Address),
		Loading:     m.loading,
		Navigator:   filterbar.NavigatorFunc(m.navigateTo),
		Loop:        m.loop,
		Logger:      log,
		InitAssetID: opts.InitAssetID,
		SettleDelay: opts.SettleDelay,
		Geometry:    opts.Geometry,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("tui: build filter bar: %w", err)
	}
	m.bar = bar
	m.strip = filterstrip.New(stripID, bar, m.theme)
	m.detail = assetdetail.New(detailID, opts.Service, opts.Address, m.loading, m.theme, opts.InitAssetID)
	return m, nil
}

// Run launches the Bubble Tea program that renders the home screen.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.loop.bind(p.Send)
	_, err = p.Run()
	m.Close()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		startWatchCmd(m.ctx, m.svc),
	)
}

// Close releases the bar, the loading signal and the store watch. Safe to call
// more than once.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.bar.Close()
	m.loading.Close()
	m.loop.stop()
	m.stopWatch()
	m.cancel()
}

// Update routes Bubble Tea messages to composed components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd
	switch v := msg.(type) {
	case startMsg:
		// the bar subscribes to the loading signal before the first load
		// can publish on it
		m.bar.Start(m.ctx)
		cmds = append(cmds, m.detail.Init())
	case drainMsg:
		m.loop.drain()
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
	case events.NavigateMsg:
		cmds = append(cmds, m.detail.Navigate(v.AssetID))
	case events.FilterSelectMsg:
		m.status = fmt.Sprintf("Loading %s", v.AssetID)
	case events.LoadingMsg:
		if !v.Loading {
			m.status = ""
		}
	case watchStartedMsg:
		if v.err != nil {
			m.status = "ERR: watch " + v.err.Error()
			m.log.Warn("store watch unavailable", zap.Error(v.err))
			break
		}
		m.stopWatch()
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		if v.event.Concerns(m.bar.Address()) {
			ev := v.event
			cmds = append(cmds, func() tea.Msg {
				return events.StoreChangeMsg{Kind: ev.Type.String(), AssetID: ev.AssetID}
			})
		}
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		if !m.closed {
			cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
		}
	case tea.KeyPressMsg:
		switch v.String() {
		case "ctrl+c", "q":
			m.Close()
			return m, tea.Quit
		case "tab":
			cmds = append(cmds, m.switchFocus())
		case "d":
			m.toggleDebug()
		case "?":
			m.toggleHelp()
		case "esc":
			if m.help != nil {
				m.help = nil
				break
			}
			cmds = append(cmds, m.routeKey(v))
		default:
			cmds = append(cmds, m.routeKey(v))
		}
	default:
		_, cmd := m.detail.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.takeNavs()...)
	m.strip.Measure()
	m.layout()
	return m, tea.Batch(cmds...)
}

func (m *Model) routeKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.help != nil {
		_, cmd := m.help.Update(msg)
		return cmd
	}
	var target ui.Focusable = m.detail
	if m.strip.Focused() {
		target = m.strip
	}
	_, cmd := target.Update(msg)
	return cmd
}

func (m *Model) switchFocus() tea.Cmd {
	if m.strip.Focused() {
		return tea.Batch(m.strip.Blur(), m.detail.Focus())
	}
	return tea.Batch(m.detail.Blur(), m.strip.Focus())
}

// navigateTo is the bar's Navigator. It runs inside Update, so the route
// change is queued as a message.
func (m *Model) navigateTo(assetID string) {
	m.navs = append(m.navs, func() tea.Msg {
		return events.NavigateMsg{Component: rootID, AssetID: assetID}
	})
}

func (m *Model) takeNavs() []tea.Cmd {
	navs := m.navs
	m.navs = nil
	return navs
}

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width <= 0 || m.height <= 0 {
		return "initializing…", nil
	}
	body := m.detail.View()
	if m.help != nil {
		body = m.help.View()
	}
	parts := []string{m.strip.View(), body}
	if m.debugEnabled && m.eventViewer != nil {
		parts = append(parts, m.eventViewer.View())
	}
	parts = append(parts, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...), nil
}

func (m *Model) footer() string {
	line := m.theme.Footer.Help.Render(helpText)
	if m.status != "" {
		line += "  " + m.theme.Footer.Status.Render(m.status)
	}
	return truncate.StringWithTail(line, uint(maxInt(1, m.width)), "…")
}

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.strip.SetSize(m.width, 0)
	stripRows := lipgloss.Height(m.strip.View())

	// one footer row
	totalRows := maxInt(1, m.height-stripRows-1)
	debugRows := 0
	if m.debugEnabled && m.eventViewer != nil {
		debugRows = m.computeDebugHeight(totalRows)
		if debugRows > 0 {
			m.eventViewer.SetSize(m.width, debugRows)
		}
	}
	m.detail.SetSize(m.width, maxInt(3, totalRows-debugRows))
	if m.help != nil {
		m.help.SetSize(m.width, maxInt(3, totalRows-debugRows))
	}
}

func (m *Model) toggleHelp() {
	if m.help != nil {
		m.help = nil
		return
	}
	m.help = help.New(m.width, 3)
}

func (m *Model) toggleDebug() {
	if m.debugEnabled {
		m.debugEnabled = false
		m.eventViewer = nil
		m.status = "Debug log hidden"
		return
	}
	m.debugEnabled = true
	m.eventViewer = eventviewer.NewModel(400)
	m.eventViewer.Append(eventviewer.Entry{
		Summary: "debug",
		Detail:  "Debug window enabled",
		Source:  "ui",
	})
	m.status = "Debug log visible"
}

func (m *Model) noteEvent(msg tea.Msg) {
	if m.eventViewer == nil {
		return
	}
	if _, ok := msg.(drainMsg); ok {
		return
	}
	if entry, ok := eventviewer.FromMsg(msg); ok {
		m.eventViewer.Append(entry)
	}
}

func (m *Model) computeDebugHeight(totalRows int) int {
	if totalRows <= 4 {
		return 0
	}
	minHeight := 5
	maxHeight := totalRows - 3
	if maxHeight < minHeight {
		return 0
	}
	return clamp(totalRows/3, minHeight, minInt(12, maxHeight))
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
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

// Status is the text shown next to the key help.
func (m *Model) Status() string { return strings.TrimSpace(m.status) }

func clamp(value, lower, upper int) int {
	if upper <= 0 {
		return lower
	}
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
