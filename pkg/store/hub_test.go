package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tableflip.dev/tokenbar/pkg/asset"
)

// countingWatcher hands out one controllable stream per Watch call.
type countingWatcher struct {
	mu      sync.Mutex
	calls   int
	streams []chan Event
	ctxs    []context.Context
	err     error
}

func (w *countingWatcher) Watch(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return nil, w.err
	}
	ch := make(chan Event, 8)
	w.streams = append(w.streams, ch)
	w.ctxs = append(w.ctxs, ctx)
	return ch, nil
}

func (w *countingWatcher) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

func (w *countingWatcher) stream(i int) (chan Event, context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.streams[i], w.ctxs[i]
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubSharesOneWatcher(t *testing.T) {
	src := &countingWatcher{}
	hub := NewHub(src, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	ctxB, cancelB := context.WithCancel(context.Background())
	defer cancelB()

	a, err := hub.Watch(ctxA)
	require.NoError(t, err)
	b, err := hub.Watch(ctxB)
	require.NoError(t, err)
	require.Equal(t, 1, src.Calls())

	upstream, upctx := src.stream(0)
	ev := Event{Type: EventBalancesChanged, Address: "addr-1"}
	upstream <- ev
	require.Equal(t, ev, receive(t, a))
	require.Equal(t, ev, receive(t, b))

	cancelA()
	select {
	case _, ok := <-a:
		require.False(t, ok, "cancelled consumer still receives")
	case <-time.After(time.Second):
		t.Fatal("cancelled consumer channel left open")
	}
	require.NoError(t, upctx.Err(), "watcher stopped while a consumer is left")

	upstream <- Event{Type: EventWatchChanged, Address: "addr-1"}
	require.Equal(t, EventWatchChanged, receive(t, b).Type)

	cancelB()
	require.Eventually(t, func() bool { return upctx.Err() != nil }, time.Second, 5*time.Millisecond)
}

func TestHubRestartsAfterLastConsumer(t *testing.T) {
	src := &countingWatcher{}
	hub := NewHub(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := hub.Watch(ctx)
	require.NoError(t, err)
	_, upctx := src.stream(0)
	cancel()
	require.Eventually(t, func() bool { return upctx.Err() != nil }, time.Second, 5*time.Millisecond)

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	ch, err := hub.Watch(ctx2)
	require.NoError(t, err)
	require.Equal(t, 2, src.Calls())

	upstream, _ := src.stream(1)
	upstream <- Event{Type: EventInvalidated}
	require.Equal(t, EventInvalidated, receive(t, ch).Type)
}

func TestHubClosesConsumersWhenStreamEnds(t *testing.T) {
	src := &countingWatcher{}
	hub := NewHub(src, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := hub.Watch(ctx)
	require.NoError(t, err)
	upstream, _ := src.stream(0)
	close(upstream)

	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("consumer channel left open")
	}
}

func TestHubWatchError(t *testing.T) {
	boom := errors.New("no inotify")
	hub := NewHub(&countingWatcher{err: boom}, nil)
	_, err := hub.Watch(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestSourceAndHubShareWatcher(t *testing.T) {
	p, err := Load(StaticConfig{Path: t.TempDir()})
	require.NoError(t, err)
	src := &countingWatcher{}
	hub := NewHub(src, nil)
	source := NewSource(p, nil)
	source.Events = hub

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	other, err := hub.Watch(ctx)
	require.NoError(t, err)

	got := make(chan []asset.Balance, 1)
	sub := source.SubscribeBalances("addr-1", func(b []asset.Balance) { got <- b })
	defer sub.Unsubscribe()
	require.Equal(t, 1, src.Calls())

	require.NoError(t, p.SetBalance("addr-1", asset.Balance{AssetID: "dot", Symbol: "DOT", Amount: decimal.NewFromInt(3)}))
	upstream, _ := src.stream(0)
	upstream <- Event{Type: EventBalancesChanged, Address: "addr-1"}

	require.Equal(t, EventBalancesChanged, receive(t, other).Type)
	select {
	case balances := <-got:
		require.Len(t, balances, 1)
		require.Equal(t, "dot", balances[0].AssetID)
	case <-time.After(time.Second):
		t.Fatal("source did not refresh balances")
	}
}
