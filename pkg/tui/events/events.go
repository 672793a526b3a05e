package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// FilterSelectMsg is emitted when the filter strip switched to another asset.
type FilterSelectMsg struct {
	Component ComponentID
	Index     int
	AssetID   string
	FromPanel bool
}

// Describe renders the selection in a human-friendly format for logs.
func (m FilterSelectMsg) Describe() string {
	origin := "strip"
	if m.FromPanel {
		origin = "panel"
	}
	return fmt.Sprintf(`index:%d asset:%q origin:%q`, m.Index, m.AssetID, origin)
}

// FilterSelectCmd wraps FilterSelectMsg into a tea.Cmd.
func FilterSelectCmd(component ComponentID, index int, assetID string, fromPanel bool) tea.Cmd {
	return func() tea.Msg {
		return FilterSelectMsg{Component: component, Index: index, AssetID: assetID, FromPanel: fromPanel}
	}
}

// PanelToggleMsg reports the overflow panel opening or closing.
type PanelToggleMsg struct {
	Component ComponentID
	Open      bool
}

// Describe implements the logging helper.
func (m PanelToggleMsg) Describe() string {
	if m.Open {
		return "panel:open"
	}
	return "panel:closed"
}

// PanelToggleCmd wraps PanelToggleMsg into a tea.Cmd.
func PanelToggleCmd(component ComponentID, open bool) tea.Cmd {
	return func() tea.Msg {
		return PanelToggleMsg{Component: component, Open: open}
	}
}

// LoadingMsg mirrors a value published on the loading signal.
type LoadingMsg struct {
	Component ComponentID
	Loading   bool
}

// Describe implements the logging helper.
func (m LoadingMsg) Describe() string {
	return fmt.Sprintf("loading:%t", m.Loading)
}

// NavigateMsg routes the detail view to an asset. An empty AssetID shows the
// overview of every asset.
type NavigateMsg struct {
	Component ComponentID
	AssetID   string
}

// Describe implements the logging helper.
func (m NavigateMsg) Describe() string {
	return fmt.Sprintf("asset:%q", m.AssetID)
}

// StoreChangeMsg is emitted when persisted balances or transactions change
// outside the UI.
type StoreChangeMsg struct {
	Kind    string
	AssetID string
}

// Describe implements the logging helper.
func (m StoreChangeMsg) Describe() string {
	return fmt.Sprintf("kind:%q asset:%q", m.Kind, m.AssetID)
}

// FocusMsg signals that a component gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf("focus:%s", m.Component)
}

// FocusCmd wraps FocusMsg into a tea.Cmd.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurMsg signals that a component lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf("blur:%s", m.Component)
}

// BlurCmd wraps BlurMsg into a tea.Cmd.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}
