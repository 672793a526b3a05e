package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tableflip.dev/tokenbar/pkg/asset"
)

func TestPersistenceWatchEmitsBalanceChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(StaticConfig{Path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	b := asset.Balance{AssetID: "dot", Symbol: "DOT", Amount: decimal.RequireFromString("1.5")}
	if err := p.SetBalance("addr-1", b); err != nil {
		t.Fatalf("set balance: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventBalancesChanged {
				if evt.Address != "addr-1" {
					t.Fatalf("expected address 'addr-1', got %q", evt.Address)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for balance change event")
		}
	}
}

func TestEventForPath(t *testing.T) {
	p := &persistence{basePath: "/data"}
	tests := []struct {
		path string
		want Event
	}{
		{
			path: "/data/bal/" + encode("addr") + "/" + encode("dot"),
			want: Event{Type: EventBalancesChanged, Address: "addr"},
		},
		{
			path: "/data/watch/" + encode("addr") + "/" + encode("ksm"),
			want: Event{Type: EventWatchChanged, Address: "addr"},
		},
		{
			path: "/data/tx/" + encode("addr") + "/" + encode("dot") + "/" + encode("t1"),
			want: Event{Type: EventTransactionsChanged, Address: "addr", AssetID: "dot"},
		},
		{path: "/data", want: Event{Type: EventInvalidated}},
		{path: "/data/bal", want: Event{Type: EventInvalidated}},
		{path: "/data/bal/zz/x", want: Event{Type: EventInvalidated}},
	}
	for _, tt := range tests {
		if got := p.eventForPath(tt.path); got != tt.want {
			t.Errorf("eventForPath(%q) = %+v, want %+v", tt.path, got, tt.want)
		}
	}
}

func TestEventThrottleDedupsInOrder(t *testing.T) {
	th := newEventThrottle(10 * time.Millisecond)
	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }

	a := Event{Type: EventBalancesChanged, Address: "a"}
	b := Event{Type: EventWatchChanged, Address: "a"}
	th.Enqueue(a, send)
	th.Enqueue(b, send)
	th.Enqueue(a, send)

	var seen []Event
	deadline := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-got:
			seen = append(seen, ev)
		case <-deadline:
			t.Fatalf("timed out, got %v", seen)
		}
	}
	if seen[0] != a || seen[1] != b {
		t.Fatalf("unexpected order %v", seen)
	}
	select {
	case ev := <-got:
		t.Fatalf("duplicate event %v", ev)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestEventConcerns(t *testing.T) {
	if !(Event{Type: EventInvalidated}).Concerns("x") {
		t.Fatal("invalidation concerns everyone")
	}
	if (Event{Type: EventBalancesChanged, Address: "y"}).Concerns("x") {
		t.Fatal("foreign address should not concern x")
	}
}
