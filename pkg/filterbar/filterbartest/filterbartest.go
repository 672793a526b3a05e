// Package filterbartest provides a deterministic loop and in-memory sources
// for driving a filterbar.Bar in tests.
package filterbartest

import (
	"context"
	"sort"
	"sync"
	"time"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/filterbar"
	"tableflip.dev/tokenbar/pkg/signal"
)

// Loop is a manual filterbar.Loop. Posted functions run on Flush, timers on
// Advance. Go runs its work inline.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	timers []*Timer
	now    time.Duration
}

// Timer is a task scheduled on a Loop.
type Timer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// Stop implements filterbar.Task.
func (t *Timer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Post implements filterbar.Loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = append(l.queue, fn)
}

// Go implements filterbar.Loop.
func (l *Loop) Go(work func() func()) {
	if next := work(); next != nil {
		l.Post(next)
	}
}

// After implements filterbar.Loop.
func (l *Loop) After(d time.Duration, fn func()) filterbar.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := &Timer{at: l.now + d, fn: fn}
	l.timers = append(l.timers, t)
	return t
}

// Flush runs queued functions, including ones queued while flushing, and
// returns how many ran.
func (l *Loop) Flush() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
		ran++
	}
}

// Advance moves the clock, fires due timers in schedule order and flushes.
func (l *Loop) Advance(d time.Duration) {
	l.mu.Lock()
	l.now += d
	due := make([]*Timer, 0, len(l.timers))
	pending := l.timers[:0]
	for _, t := range l.timers {
		switch {
		case t.stopped:
		case t.at <= l.now:
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	l.timers = pending
	l.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
		l.Flush()
	}
	l.Flush()
}

// Pending reports queued functions and live timers.
func (l *Loop) Pending() (queued, timers int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := 0
	for _, t := range l.timers {
		if !t.stopped {
			live++
		}
	}
	return len(l.queue), live
}

// Balances is an in-memory filterbar.BalanceSource.
type Balances struct {
	mu       sync.Mutex
	Snapshot []asset.Balance
	Err      error
	Fetches  int
	bus      *signal.Bus[[]asset.Balance]
}

// FetchBalances implements filterbar.BalanceSource.
func (b *Balances) FetchBalances(_ context.Context, _ string) ([]asset.Balance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Fetches++
	if b.Err != nil {
		return nil, b.Err
	}
	out := make([]asset.Balance, len(b.Snapshot))
	copy(out, b.Snapshot)
	return out, nil
}

// SubscribeBalances implements filterbar.BalanceSource.
func (b *Balances) SubscribeBalances(_ string, fn func([]asset.Balance)) filterbar.Subscription {
	return b.stream().Subscribe(fn)
}

// Push delivers a snapshot to subscribers.
func (b *Balances) Push(bs []asset.Balance) {
	b.stream().Publish(bs)
}

// Subscribers is the number of live subscriptions.
func (b *Balances) Subscribers() int {
	return b.stream().Len()
}

func (b *Balances) stream() *signal.Bus[[]asset.Balance] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bus == nil {
		b.bus = signal.New[[]asset.Balance]()
	}
	return b.bus
}

// Watch is an in-memory filterbar.WatchSource.
type Watch struct {
	mu    sync.Mutex
	List  []asset.WatchedAsset
	Err   error
	Reads int
}

// WatchedAssets implements filterbar.WatchSource.
func (w *Watch) WatchedAssets(_ context.Context, _ string) ([]asset.WatchedAsset, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Reads++
	if w.Err != nil {
		return nil, w.Err
	}
	out := make([]asset.WatchedAsset, len(w.List))
	copy(out, w.List)
	return out, nil
}

// Navigator records navigation requests.
type Navigator struct {
	Targets []string
	// OnNavigate, when set, runs inside NavigateTo.
	OnNavigate func(assetID string)
}

// NavigateTo implements filterbar.Navigator.
func (n *Navigator) NavigateTo(assetID string) {
	n.Targets = append(n.Targets, assetID)
	if n.OnNavigate != nil {
		n.OnNavigate(assetID)
	}
}

// Widths is a Measurer with fixed item widths; unknown indices measure 0.
type Widths []int

// ItemWidth implements filterbar.Measurer.
func (w Widths) ItemWidth(index int) int {
	if index < 0 || index >= len(w) {
		return 0
	}
	return w[index]
}

// Balance is a shorthand for a balance with the given id.
func Balance(id string) asset.Balance {
	return asset.Balance{AssetID: id, Symbol: id}
}

// Watched is a shorthand for a watched asset with the given id.
func Watched(id string) asset.WatchedAsset {
	return asset.WatchedAsset{AssetID: id, Symbol: id}
}
