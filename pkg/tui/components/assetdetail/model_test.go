package assetdetail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/shopspring/decimal"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/tui/events"
	"tableflip.dev/tokenbar/pkg/tui/theme"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type fakeLoader struct {
	entries  []asset.FilterEntry
	balances map[string]asset.Balance
	txs      map[string][]asset.Tx
	err      error
}

func (f *fakeLoader) FilterEntries(context.Context, string) ([]asset.FilterEntry, error) {
	return f.entries, f.err
}

func (f *fakeLoader) Balance(_ context.Context, _, assetID string) (asset.Balance, bool, error) {
	if f.err != nil {
		return asset.Balance{}, false, f.err
	}
	b, ok := f.balances[assetID]
	return b, ok, nil
}

func (f *fakeLoader) Transactions(_ context.Context, _, assetID string) ([]asset.Tx, error) {
	return f.txs[assetID], f.err
}

type recorder struct{ values []bool }

func (r *recorder) Publish(v bool) { r.values = append(r.values, v) }

func newLoader() *fakeLoader {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	return &fakeLoader{
		entries: []asset.FilterEntry{
			{Kind: asset.KindOwned, AssetID: "dot", Symbol: "DOT", Amount: decimal.NewFromInt(4)},
			{Kind: asset.KindWatched, AssetID: "ksm", Symbol: "KSM", Amount: decimal.Zero},
		},
		balances: map[string]asset.Balance{
			"dot": {AssetID: "dot", Symbol: "DOT", Name: "Polkadot", Amount: decimal.NewFromInt(4)},
		},
		txs: map[string][]asset.Tx{
			"dot": {
				{ID: "t2", AssetID: "dot", Direction: asset.DirectionOut, Amount: decimal.NewFromInt(1), Time: at.Add(time.Hour)},
				{ID: "t1", AssetID: "dot", Direction: asset.DirectionIn, Amount: decimal.NewFromInt(5), Counterparty: "alice", Time: at},
			},
		},
	}
}

func TestFirstLoadPublishesLoadingFalse(t *testing.T) {
	rec := &recorder{}
	m := New("detail", newLoader(), "addr", rec, theme.Default(), "")
	m.SetSize(50, 12)

	cmd := m.Init()
	if !m.Pending() {
		t.Fatal("expected pending load after Init")
	}
	_, out := m.Update(cmd())
	if m.Pending() {
		t.Fatal("load still pending")
	}
	if len(rec.values) != 1 || rec.values[0] {
		t.Fatalf("published %v, want [false]", rec.values)
	}
	if msg, ok := out().(events.LoadingMsg); !ok || msg.Loading {
		t.Fatalf("expected LoadingMsg false, got %#v", out())
	}
	view := stripANSIString(m.View())
	if !strings.Contains(view, "All assets") || !strings.Contains(view, "watched") {
		t.Fatalf("overview not rendered:\n%s", view)
	}
}

func TestNavigateShowsTransactions(t *testing.T) {
	rec := &recorder{}
	m := New("detail", newLoader(), "addr", rec, theme.Default(), "")
	m.SetSize(60, 12)

	cmd := m.Navigate("dot")
	m.Update(cmd())
	view := stripANSIString(m.View())
	for _, want := range []string{"DOT", "Polkadot", "Balance: 4", "+5", "-1", "alice", "unknown"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if m.AssetID() != "dot" {
		t.Fatalf("AssetID = %q", m.AssetID())
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	rec := &recorder{}
	m := New("detail", newLoader(), "addr", rec, theme.Default(), "")
	m.SetSize(60, 12)

	first := m.Navigate("dot")
	second := m.Navigate("ksm")

	m.Update(first())
	if len(rec.values) != 0 {
		t.Fatalf("stale load published %v", rec.values)
	}
	if !m.Pending() {
		t.Fatal("newer load should still be pending")
	}
	m.Update(second())
	if len(rec.values) != 1 {
		t.Fatalf("published %v", rec.values)
	}
	view := stripANSIString(m.View())
	if !strings.Contains(view, "watch list") {
		t.Fatalf("watched asset view missing:\n%s", view)
	}
}

func TestLoadErrorStillPublishes(t *testing.T) {
	rec := &recorder{}
	loader := newLoader()
	loader.err = errors.New("disk gone")
	m := New("detail", loader, "addr", rec, theme.Default(), "dot")
	m.SetSize(60, 8)

	m.Update(m.Init()())
	if len(rec.values) != 1 {
		t.Fatalf("published %v", rec.values)
	}
	if view := stripANSIString(m.View()); !strings.Contains(view, "disk gone") {
		t.Fatalf("error not rendered:\n%s", view)
	}
}

func TestStoreChangeReloadsCurrentAsset(t *testing.T) {
	m := New("detail", newLoader(), "addr", &recorder{}, theme.Default(), "dot")
	m.SetSize(60, 8)
	m.Update(m.Init()())

	if _, cmd := m.Update(events.StoreChangeMsg{Kind: "transactions", AssetID: "ksm"}); cmd != nil {
		t.Fatal("change of another asset should not reload")
	}
	if _, cmd := m.Update(events.StoreChangeMsg{Kind: "transactions", AssetID: "dot"}); cmd == nil {
		t.Fatal("expected reload")
	}
}

func TestStoreChangeReloadLeavesLoadingAlone(t *testing.T) {
	rec := &recorder{}
	m := New("detail", newLoader(), "addr", rec, theme.Default(), "dot")
	m.SetSize(60, 8)
	m.Update(m.Init()())
	rec.values = nil

	// the strip already published true for a switch to ksm; a change of the
	// old asset lands before the navigation does
	_, refresh := m.Update(events.StoreChangeMsg{Kind: "balances", AssetID: "dot"})
	m.Update(refresh())
	if len(rec.values) != 0 {
		t.Fatalf("refresh published %v", rec.values)
	}
	if m.Pending() {
		t.Fatal("refresh still pending")
	}

	m.Update(m.Navigate("ksm")())
	if len(rec.values) != 1 || rec.values[0] {
		t.Fatalf("navigation published %v, want [false]", rec.values)
	}
}

func TestNavigateSupersedesPendingRefresh(t *testing.T) {
	rec := &recorder{}
	m := New("detail", newLoader(), "addr", rec, theme.Default(), "dot")
	m.SetSize(60, 8)
	m.Update(m.Init()())
	rec.values = nil

	_, refresh := m.Update(events.StoreChangeMsg{Kind: "balances", AssetID: "dot"})
	nav := m.Navigate("ksm")
	m.Update(refresh())
	if len(rec.values) != 0 || !m.Pending() {
		t.Fatalf("stale refresh applied: published %v pending %v", rec.values, m.Pending())
	}
	m.Update(nav())
	if len(rec.values) != 1 || rec.values[0] {
		t.Fatalf("published %v, want [false]", rec.values)
	}
}
