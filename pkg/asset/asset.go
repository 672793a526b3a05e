// Package asset defines wallet holdings and the filter entries built from them.
package asset

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells which source produced a filter entry.
type Kind string

const (
	// KindOwned marks an entry that came from the balance source.
	KindOwned Kind = "owned"
	// KindWatched marks a zero-balance asset from the watch list.
	KindWatched Kind = "watched"
)

// Balance is one confirmed holding reported for a wallet address.
type Balance struct {
	AssetID string          `json:"asset_id"`
	Symbol  string          `json:"symbol,omitempty"`
	Name    string          `json:"name,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Seq     int64           `json:"seq,omitempty"`
}

// WatchedAsset is an asset the user tracks without holding it.
type WatchedAsset struct {
	AssetID string    `json:"asset_id"`
	Symbol  string    `json:"symbol,omitempty"`
	Name    string    `json:"name,omitempty"`
	Added   time.Time `json:"added,omitempty"`
	Seq     int64     `json:"seq,omitempty"`
}

// FilterEntry is a single selectable item of the filter bar.
type FilterEntry struct {
	Kind    Kind            `json:"kind"`
	AssetID string          `json:"asset_id"`
	Symbol  string          `json:"symbol,omitempty"`
	Name    string          `json:"name,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}

// Label is the short text shown for the entry.
func (f FilterEntry) Label() string {
	if f.Symbol != "" {
		return f.Symbol
	}
	return f.AssetID
}

// Watched reports whether the entry came from the watch list.
func (f FilterEntry) Watched() bool {
	return f.Kind == KindWatched
}

func (f FilterEntry) String() string {
	return fmt.Sprintf("%s %s %s", f.Label(), f.Amount.String(), f.Kind)
}

// FromBalance wraps an owned balance.
func FromBalance(b Balance) FilterEntry {
	return FilterEntry{
		Kind:    KindOwned,
		AssetID: b.AssetID,
		Symbol:  b.Symbol,
		Name:    b.Name,
		Amount:  b.Amount,
	}
}

// FromWatched wraps a watched asset. Watched entries always carry a zero amount.
func FromWatched(w WatchedAsset) FilterEntry {
	return FilterEntry{
		Kind:    KindWatched,
		AssetID: w.AssetID,
		Symbol:  w.Symbol,
		Name:    w.Name,
		Amount:  decimal.Zero,
	}
}
