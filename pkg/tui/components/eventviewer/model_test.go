package eventviewer

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tokenbar/pkg/tui/events"
)

func TestAppendKeepsNewestFirstAndCaps(t *testing.T) {
	m := NewModel(2)
	m.SetSize(80, 8)
	m.Append(Entry{Summary: "one"})
	m.Append(Entry{Summary: "two"})
	m.Append(Entry{Summary: "three"})

	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Summary != "three" || got[1].Summary != "two" {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[0].Source != "tea" || got[0].Timestamp.IsZero() {
		t.Fatalf("defaults not applied: %+v", got[0])
	}
}

func TestFilterSourceHidesOtherEntries(t *testing.T) {
	m := NewModel(10)
	m.SetSize(80, 8)
	m.Append(Entry{Source: "strip", Summary: "select"})
	m.Append(Entry{Source: "detail", Summary: "loading"})

	m.FilterSource("strip")
	view := m.View()
	if !strings.Contains(view, "select") || strings.Contains(view, "loading") {
		t.Fatalf("filter not applied:\n%s", view)
	}
	m.FilterSource("")
	if !strings.Contains(m.View(), "loading") {
		t.Fatal("clearing the filter should show every entry")
	}
}

func TestFromMsg(t *testing.T) {
	cases := []struct {
		name    string
		msg     tea.Msg
		source  string
		summary string
		level   Level
		ok      bool
	}{
		{"select", events.FilterSelectMsg{Component: "strip", Index: 1, AssetID: "KSM"}, "strip", "select", LevelInfo, true},
		{"loading", events.LoadingMsg{Component: "detail"}, "detail", "loading", LevelInfo, true},
		{"invalidated", events.StoreChangeMsg{Kind: "invalidated"}, "store", "change", LevelWarn, true},
		{"error", errors.New("boom"), "tea", "error", LevelError, true},
		{"size", tea.WindowSizeMsg{Width: 80, Height: 24}, "tea", "resize", LevelInfo, true},
		{"unknown", struct{}{}, "tea", "struct {}", LevelInfo, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := FromMsg(tc.msg)
			if ok != tc.ok {
				t.Fatalf("ok = %t, want %t", ok, tc.ok)
			}
			if entry.Source != tc.source || entry.Summary != tc.summary || entry.Level != tc.level {
				t.Fatalf("unexpected entry %+v", entry)
			}
		})
	}
}
