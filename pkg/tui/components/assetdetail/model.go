// Package assetdetail shows the transactions of the asset picked in the
// filter strip. It closes the loading handshake: once a navigation load
// finished it publishes false on the shared loading signal.
package assetdetail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/tui/events"
	"tableflip.dev/tokenbar/pkg/tui/theme"
	"tableflip.dev/tokenbar/pkg/tui/ui"
)

// Loader reads what the view shows. app.Service implements it.
type Loader interface {
	FilterEntries(ctx context.Context, address string) ([]asset.FilterEntry, error)
	Balance(ctx context.Context, address, assetID string) (asset.Balance, bool, error)
	Transactions(ctx context.Context, address, assetID string) ([]asset.Tx, error)
}

// Publisher is the sending half of the loading signal.
type Publisher interface {
	Publish(v bool)
}

type loadedMsg struct {
	seq     int
	// refresh marks a reload after a store change; it closes no handshake
	refresh bool
	assetID string
	balance asset.Balance
	owned   bool
	txs     []asset.Tx
	entries []asset.FilterEntry
	err     error
}

// Model renders the detail of one asset, or an overview when none is picked.
type Model struct {
	id      events.ComponentID
	loader  Loader
	address string
	loading Publisher
	theme   theme.DetailTheme

	viewport viewport.Model
	width    int
	height   int
	focused  bool

	seq     int
	pending bool
	assetID string
	result  loadedMsg
}

var _ ui.Focusable = (*Model)(nil)

// New builds the view for address. initialAssetID is loaded by Init.
func New(id events.ComponentID, loader Loader, address string, loading Publisher, th theme.Theme, initialAssetID string) *Model {
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	return &Model{
		id:       id,
		loader:   loader,
		address:  address,
		loading:  loading,
		theme:    th.Detail,
		viewport: vp,
		assetID:  initialAssetID,
	}
}

// ID returns the component identifier used in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// AssetID is the asset currently shown; empty for the overview.
func (m *Model) AssetID() string { return m.assetID }

// Pending reports whether a load is in flight.
func (m *Model) Pending() bool { return m.pending }

// Init starts the first load.
func (m *Model) Init() tea.Cmd {
	return m.Navigate(m.assetID)
}

// Navigate switches to assetID and loads it.
func (m *Model) Navigate(assetID string) tea.Cmd {
	m.assetID = assetID
	return m.reload(false)
}

func (m *Model) reload(refresh bool) tea.Cmd {
	m.seq++
	m.pending = true
	m.refreshContent()
	seq, assetID, address, loader := m.seq, m.assetID, m.address, m.loader
	return func() tea.Msg {
		msg := load(context.Background(), loader, address, assetID, seq)
		msg.refresh = refresh
		return msg
	}
}

func load(ctx context.Context, loader Loader, address, assetID string, seq int) loadedMsg {
	msg := loadedMsg{seq: seq, assetID: assetID}
	if loader == nil {
		msg.err = fmt.Errorf("assetdetail: no data source")
		return msg
	}
	if assetID == "" {
		msg.entries, msg.err = loader.FilterEntries(ctx, address)
		return msg
	}
	msg.balance, msg.owned, msg.err = loader.Balance(ctx, address, assetID)
	if msg.err != nil {
		return msg
	}
	msg.txs, msg.err = loader.Transactions(ctx, address, assetID)
	return msg
}

// SetSize implements ui.Component.
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
	m.viewport.SetWidth(max(1, width-4))
	m.viewport.SetHeight(max(1, height-2))
	m.refreshContent()
}

// Focus marks the view as the key receiver.
func (m *Model) Focus() tea.Cmd {
	if m.focused {
		return nil
	}
	m.focused = true
	return events.FocusCmd(m.id)
}

// Blur marks the view as inactive.
func (m *Model) Blur() tea.Cmd {
	if !m.focused {
		return nil
	}
	m.focused = false
	return events.BlurCmd(m.id)
}

// Focused reports whether the view receives keys.
func (m *Model) Focused() bool { return m.focused }

// Update applies finished loads and scrolls while focused.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.seq != m.seq {
			// a newer load publishes when it lands
			return m, nil
		}
		m.pending = false
		m.result = msg
		m.refreshContent()
		m.viewport.SetYOffset(0)
		// a refresh can land between the strip publishing true and the
		// navigation that answers it
		if m.loading != nil && !msg.refresh {
			m.loading.Publish(false)
		}
		return m, func() tea.Msg { return events.LoadingMsg{Component: m.id, Loading: false} }
	case events.StoreChangeMsg:
		if m.pending {
			return m, nil
		}
		if msg.AssetID != "" && msg.AssetID != m.assetID {
			return m, nil
		}
		return m, m.reload(true)
	case tea.KeyPressMsg:
		if !m.focused {
			return m, nil
		}
		vp, cmd := m.viewport.Update(msg)
		m.viewport = vp
		return m, cmd
	}
	return m, nil
}

// View renders the framed viewport.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return m.theme.Frame.Width(m.width).Height(m.height).Render(m.viewport.View())
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.render())
}

func (m *Model) render() string {
	if m.pending && m.result.seq == 0 {
		return m.theme.Loading.Render("loading…")
	}
	res := m.result
	var b strings.Builder
	if m.pending {
		b.WriteString(m.theme.Loading.Render("loading…"))
		b.WriteString("\n")
	}
	if res.err != nil {
		b.WriteString(m.theme.Error.Render("error: " + res.err.Error()))
		return m.wrap(b.String())
	}
	if res.assetID == "" {
		m.renderOverview(&b, res.entries)
		return m.wrap(b.String())
	}
	m.renderAsset(&b, res)
	return m.wrap(b.String())
}

func (m *Model) renderOverview(b *strings.Builder, entries []asset.FilterEntry) {
	b.WriteString(m.theme.Title.Render("All assets"))
	b.WriteString("\n\n")
	if len(entries) == 0 {
		b.WriteString(m.theme.Muted.Render("No balances or watched assets yet."))
		return
	}
	for _, e := range entries {
		amount := m.theme.Amount.Render(e.Amount.String())
		if e.Watched() {
			amount = m.theme.Muted.Render("watched")
		}
		fmt.Fprintf(b, "%-10s %s\n", e.Label(), amount)
	}
}

func (m *Model) renderAsset(b *strings.Builder, res loadedMsg) {
	title := res.assetID
	if res.balance.Symbol != "" {
		title = res.balance.Symbol
	}
	b.WriteString(m.theme.Title.Render(title))
	if res.balance.Name != "" {
		b.WriteString(" " + m.theme.Muted.Render(res.balance.Name))
	}
	b.WriteString("\n")
	if res.owned {
		b.WriteString("Balance: " + m.theme.Amount.Render(res.balance.Amount.String()))
	} else {
		b.WriteString(m.theme.Muted.Render("Not held, on the watch list."))
	}
	b.WriteString("\n\n")
	if len(res.txs) == 0 {
		b.WriteString(m.theme.Muted.Render("No transactions."))
		return
	}
	for _, tx := range res.txs {
		amount := m.theme.In.Render("+" + tx.Amount.String())
		if tx.Direction == asset.DirectionOut {
			amount = m.theme.Out.Render("-" + tx.Amount.String())
		}
		who := tx.Counterparty
		if who == "" {
			who = "unknown"
		}
		fmt.Fprintf(b, "%s  %s  %s\n", m.theme.Muted.Render(tx.Time.Local().Format("2006-01-02 15:04")), amount, who)
	}
}

func (m *Model) wrap(s string) string {
	if m.width <= 4 {
		return s
	}
	return wordwrap.String(s, m.width-4)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
