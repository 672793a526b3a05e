package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	seq      int64
	balances map[string][]asset.Balance
	watched  map[string][]asset.WatchedAsset
	txs      map[string][]asset.Tx
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{
		balances: make(map[string][]asset.Balance),
		watched:  make(map[string][]asset.WatchedAsset),
		txs:      make(map[string][]asset.Tx),
	}
}

func (m *memoryPersistence) Addresses(_ context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	for a := range m.balances {
		seen[a] = struct{}{}
	}
	for a := range m.watched {
		seen[a] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (m *memoryPersistence) Balances(_ context.Context, address string) ([]asset.Balance, error) {
	if address == "" {
		return nil, store.ErrAddressRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]asset.Balance(nil), m.balances[address]...), nil
}

func (m *memoryPersistence) SetBalance(address string, b asset.Balance) error {
	if address == "" {
		return store.ErrAddressRequired
	}
	if b.AssetID == "" {
		return store.ErrAssetRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.balances[address]
	for i := range list {
		if list[i].AssetID == b.AssetID {
			b.Seq = list[i].Seq
			list[i] = b
			return nil
		}
	}
	m.seq++
	b.Seq = m.seq
	m.balances[address] = append(list, b)
	return nil
}

func (m *memoryPersistence) RemoveBalance(address, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.balances[address]
	for i := range list {
		if list[i].AssetID == assetID {
			m.balances[address] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: balance %q", store.ErrNotFound, assetID)
}

func (m *memoryPersistence) Watched(_ context.Context, address string) ([]asset.WatchedAsset, error) {
	if address == "" {
		return nil, store.ErrAddressRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]asset.WatchedAsset(nil), m.watched[address]...), nil
}

func (m *memoryPersistence) AddWatch(address string, w asset.WatchedAsset) error {
	if w.AssetID == "" {
		return store.ErrAssetRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.watched[address] {
		if existing.AssetID == w.AssetID {
			return nil
		}
	}
	m.seq++
	w.Seq = m.seq
	m.watched[address] = append(m.watched[address], w)
	return nil
}

func (m *memoryPersistence) RemoveWatch(address, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.watched[address]
	for i := range list {
		if list[i].AssetID == assetID {
			m.watched[address] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: watched asset %q", store.ErrNotFound, assetID)
}

func (m *memoryPersistence) Transactions(_ context.Context, address, assetID string) ([]asset.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []asset.Tx
	for _, tx := range m.txs[address] {
		if tx.AssetID == assetID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}

func (m *memoryPersistence) AddTransaction(address string, tx asset.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs[address] = append(m.txs[address], tx)
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFilterEntriesMergesWatchList(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	_, err := svc.SetBalance(ctx, "addr", asset.Balance{AssetID: "dot", Symbol: "DOT", Amount: dec("2")})
	require.NoError(t, err)
	_, err = svc.SetBalance(ctx, "addr", asset.Balance{AssetID: "ksm", Symbol: "KSM", Amount: dec("1")})
	require.NoError(t, err)
	_, err = svc.AddWatch(ctx, "addr", asset.WatchedAsset{AssetID: "ksm", Symbol: "watched-KSM"})
	require.NoError(t, err)
	_, err = svc.AddWatch(ctx, "addr", asset.WatchedAsset{AssetID: "glmr"})
	require.NoError(t, err)

	entries, err := svc.FilterEntries(ctx, "addr")
	require.NoError(t, err)
	require.Equal(t, []string{"dot", "ksm", "glmr"}, asset.IDs(entries))
	require.Equal(t, "KSM", entries[1].Symbol)
	require.Equal(t, asset.KindOwned, entries[1].Kind)
	require.Equal(t, asset.KindWatched, entries[2].Kind)
}

func TestSetBalanceKeepsDisplayFields(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	ctx := context.Background()

	_, err := svc.SetBalance(ctx, "addr", asset.Balance{AssetID: "dot", Symbol: "DOT", Name: "Polkadot", Amount: dec("1")})
	require.NoError(t, err)
	b, err := svc.SetBalance(ctx, "addr", asset.Balance{AssetID: "dot", Amount: dec("3")})
	require.NoError(t, err)
	require.Equal(t, "DOT", b.Symbol)
	require.Equal(t, "Polkadot", b.Name)
}

func TestRecordAdjustsBalance(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	b, err := svc.Record(ctx, "addr", asset.NewTx("dot", asset.DirectionIn, dec("5"), "alice"))
	require.NoError(t, err)
	require.True(t, b.Amount.Equal(dec("5")), "got %s", b.Amount)

	b, err = svc.Record(ctx, "addr", asset.NewTx("dot", asset.DirectionOut, dec("1.25"), "bob"))
	require.NoError(t, err)
	require.True(t, b.Amount.Equal(dec("3.75")), "got %s", b.Amount)

	_, err = svc.Record(ctx, "addr", asset.NewTx("dot", asset.DirectionOut, dec("10"), ""))
	require.True(t, errors.Is(err, ErrInsufficientBalance), "got %v", err)

	_, err = svc.Record(ctx, "addr", asset.NewTx("dot", asset.DirectionIn, dec("0"), ""))
	require.ErrorIs(t, err, ErrNonPositiveAmount)

	txs, err := svc.Transactions(ctx, "addr", "dot")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	stored, ok, err := svc.Balance(ctx, "addr", "dot")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, stored.Amount.Equal(dec("3.75")))
}

func TestUnwatchUnknownAsset(t *testing.T) {
	svc := &Service{Persistence: newMemoryPersistence()}
	err := svc.Unwatch(context.Background(), "addr", "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceWithoutPersistence(t *testing.T) {
	svc := &Service{}
	_, err := svc.FilterEntries(context.Background(), "addr")
	require.Error(t, err)
	_, err = svc.Record(context.Background(), "addr", asset.Tx{})
	require.Error(t, err)
}

func TestReportGroupsByFilterEntry(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	add := func(assetID string, dir asset.Direction, amount string, at time.Time) {
		t.Helper()
		tx := asset.NewTx(assetID, dir, dec(amount), "")
		tx.Time = at
		_, err := svc.Record(ctx, "addr", tx)
		require.NoError(t, err)
	}
	add("dot", asset.DirectionIn, "10", start)
	add("dot", asset.DirectionOut, "4", start.Add(time.Hour))
	add("ksm", asset.DirectionIn, "1", start.Add(-48*time.Hour))
	_, err := svc.AddWatch(ctx, "addr", asset.WatchedAsset{AssetID: "glmr"})
	require.NoError(t, err)

	// bounds in either order
	res, err := svc.Report(ctx, "addr", start.Add(24*time.Hour), start.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Len(t, res.Sections, 1)
	sec := res.Sections[0]
	require.Equal(t, "dot", sec.Entry.AssetID)
	require.True(t, sec.In.Equal(dec("10")))
	require.True(t, sec.Out.Equal(dec("4")))
	require.True(t, sec.Net().Equal(dec("6")))
}

type streamingPersistence struct {
	*memoryPersistence
	calls  int
	events chan store.Event
}

func (s *streamingPersistence) Watch(context.Context) (<-chan store.Event, error) {
	s.calls++
	return s.events, nil
}

func TestWatchUsesSharedEvents(t *testing.T) {
	sp := &streamingPersistence{memoryPersistence: newMemoryPersistence(), events: make(chan store.Event, 1)}
	hub := store.NewHub(sp, nil)
	svc := &Service{Persistence: sp, Events: hub}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first, err := svc.Watch(ctx)
	require.NoError(t, err)
	second, err := hub.Watch(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sp.calls)

	sp.events <- store.Event{Type: store.EventTransactionsChanged, Address: "addr", AssetID: "dot"}
	for _, ch := range []<-chan store.Event{first, second} {
		select {
		case ev := <-ch:
			require.Equal(t, "dot", ev.AssetID)
		case <-time.After(time.Second):
			t.Fatal("event not shared")
		}
	}
}
