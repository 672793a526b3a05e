// Package filterbar implements the state of the asset filter bar on the
// wallet home screen: merging balances with the watch list, selecting a
// filter, the loading handshake with the asset detail view and the overflow
// panel geometry.
package filterbar

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/asset"
)

// DefaultSettleDelay holds back the first loading value so a fast initial
// load does not flash the loading state.
const DefaultSettleDelay = 500 * time.Millisecond

// ErrMissingCollaborator is returned by New when a required source is nil.
var ErrMissingCollaborator = errors.New("filterbar: missing collaborator")

// Selection is the selection part of the bar state.
type Selection struct {
	SelectedIndex   int
	CurrentAssetID  string
	LoadingIndex    int
	HasLoadingIndex bool
	Loading         bool
	Initializing    bool
}

// Options wires a Bar to its collaborators.
type Options struct {
	Balances  BalanceSource
	Watch     WatchSource
	Session   SessionProvider
	Loading   LoadingSignal
	Navigator Navigator
	Measurer  Measurer
	Loop      Loop
	Logger    *zap.Logger

	// InitAssetID preselects an asset on the first merge.
	InitAssetID string
	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay time.Duration
	Geometry    Geometry
}

// Bar is the filter bar state machine. All methods must be called on the
// Loop; callbacks from sources are re-posted onto it.
type Bar struct {
	balances  BalanceSource
	watch     WatchSource
	session   SessionProvider
	loading   LoadingSignal
	navigator Navigator
	measurer  Measurer
	loop      Loop
	log       *zap.Logger

	geometry    Geometry
	settleDelay time.Duration

	address     string
	initAssetID string
	deepLinked  bool

	entries    []asset.FilterEntry
	sel        Selection
	panel      *Panel
	scrollLeft int

	// snapshot counter, so a slow watch-list read cannot overwrite a newer merge
	seq int

	ctx     context.Context
	cancel  context.CancelFunc
	subs    []Subscription
	settles []Task
	started bool
	closed  bool
}

// New builds a bar in the initializing state.
func New(opts Options) (*Bar, error) {
	if opts.Balances == nil || opts.Watch == nil || opts.Loading == nil || opts.Navigator == nil || opts.Loop == nil {
		return nil, ErrMissingCollaborator
	}
	if opts.Session == nil {
		opts.Session = StaticSession("")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.Geometry == (Geometry{}) {
		opts.Geometry = TerminalGeometry
	}
	return &Bar{
		balances:    opts.Balances,
		watch:       opts.Watch,
		session:     opts.Session,
		loading:     opts.Loading,
		navigator:   opts.Navigator,
		measurer:    opts.Measurer,
		loop:        opts.Loop,
		log:         opts.Logger.Named("filterbar"),
		geometry:    opts.Geometry,
		settleDelay: opts.SettleDelay,
		initAssetID: opts.InitAssetID,
		sel: Selection{
			Loading:      true,
			Initializing: true,
		},
		panel: NewPanel(opts.Geometry.Baseline),
	}, nil
}

// SetMeasurer replaces the measurement provider, typically once the renderer
// exists.
func (b *Bar) SetMeasurer(m Measurer) {
	b.measurer = m
}

// Start reads the session address, subscribes to the loading signal and the
// balance stream and fetches the first balance snapshot.
func (b *Bar) Start(ctx context.Context) {
	if b.started || b.closed {
		return
	}
	b.started = true
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.address = b.session.Address()

	b.subs = append(b.subs, b.loading.Subscribe(func(v bool) {
		b.post(func() { b.HandleLoading(v) })
	}))
	b.subs = append(b.subs, b.balances.SubscribeBalances(b.address, func(bs []asset.Balance) {
		b.post(func() { b.HandleBalances(bs) })
	}))

	ctx, address := b.ctx, b.address
	b.loop.Go(func() func() {
		bs, err := b.balances.FetchBalances(ctx, address)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				b.log.Error("fetch balances", zap.String("address", address), zap.Error(err))
			}
			return nil
		}
		return func() {
			if !b.closed {
				b.HandleBalances(bs)
			}
		}
	})
	b.log.Debug("started", zap.String("address", address), zap.String("init_asset", b.initAssetID))
}

// Close releases subscriptions and pending work. The bar ignores every later
// callback.
func (b *Bar) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.subs = nil
	for _, t := range b.settles {
		t.Stop()
	}
	b.settles = nil
	b.log.Debug("closed")
}

// Closed reports whether Close ran.
func (b *Bar) Closed() bool { return b.closed }

// Address is the wallet address read at Start.
func (b *Bar) Address() string { return b.address }

// Entries returns the current merged filter entries.
func (b *Bar) Entries() []asset.FilterEntry {
	out := make([]asset.FilterEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Selection returns a copy of the selection state.
func (b *Bar) Selection() Selection { return b.sel }

// Panel exposes the overflow panel state.
func (b *Bar) Panel() *Panel { return b.panel }

// Geometry returns the configured measures.
func (b *Bar) Geometry() Geometry { return b.geometry }

// ScrollLeft is the strip offset last requested by a filter change.
func (b *Bar) ScrollLeft() int { return b.scrollLeft }

// HandleBalances takes a fresh balance snapshot, reads the watch list and
// merges both.
func (b *Bar) HandleBalances(balances []asset.Balance) {
	if b.closed {
		return
	}
	b.seq++
	seq := b.seq
	snapshot := make([]asset.Balance, len(balances))
	copy(snapshot, balances)

	ctx, address := b.ctxOrBackground(), b.address
	b.loop.Go(func() func() {
		watched, err := b.watch.WatchedAssets(ctx, address)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				b.log.Error("read watch list", zap.String("address", address), zap.Error(err))
			}
			return nil
		}
		return func() { b.applyMerge(seq, snapshot, watched) }
	})
}

func (b *Bar) applyMerge(seq int, balances []asset.Balance, watched []asset.WatchedAsset) {
	if b.closed {
		return
	}
	if seq != b.seq {
		b.log.Debug("drop stale merge", zap.Int("seq", seq), zap.Int("latest", b.seq))
		return
	}
	b.entries = asset.Merge(balances, watched)
	b.log.Debug("merged", zap.Int("owned", len(balances)), zap.Int("entries", len(b.entries)))
	b.resolveDeepLink()
}

// resolveDeepLink preselects InitAssetID once per lifetime, on the first merge.
func (b *Bar) resolveDeepLink() {
	if b.deepLinked || b.initAssetID == "" {
		return
	}
	b.deepLinked = true
	if idx := asset.IndexOf(b.entries, b.initAssetID); idx >= 0 {
		b.sel.SelectedIndex = idx
		b.log.Debug("deep link resolved", zap.String("asset", b.initAssetID), zap.Int("index", idx))
		return
	}
	b.log.Debug("deep link not found", zap.String("asset", b.initAssetID))
}

// HandleLoading applies a value of the loading signal. While the bar is
// initializing the value is held back by the settle delay.
func (b *Bar) HandleLoading(v bool) {
	if b.closed {
		return
	}
	if !b.sel.Initializing {
		b.sel.Loading = v
		return
	}
	var task Task
	task = b.loop.After(b.settleDelay, func() {
		b.forgetSettle(task)
		if b.closed {
			return
		}
		b.sel.Loading = v
		b.sel.Initializing = false
		b.log.Debug("settled", zap.Bool("loading", v))
	})
	b.settles = append(b.settles, task)
}

func (b *Bar) forgetSettle(task Task) {
	for i, t := range b.settles {
		if t == task {
			b.settles = append(b.settles[:i], b.settles[i+1:]...)
			return
		}
	}
}

// PendingSettles is the number of loading values still held back.
func (b *Bar) PendingSettles() int { return len(b.settles) }

// ChangeFilter switches to the filter at index. The request is ignored while
// a switch is loading or when it targets the current selection. It reports
// whether the switch started.
func (b *Bar) ChangeFilter(index int, assetID string, needScroll bool) bool {
	if b.closed || index < 0 {
		return false
	}
	if b.sel.Loading || b.sel.SelectedIndex == index || b.sel.CurrentAssetID == assetID {
		b.log.Debug("filter change ignored",
			zap.Int("index", index),
			zap.String("asset", assetID),
			zap.Bool("loading", b.sel.Loading))
		return false
	}

	b.sel.Loading = true
	b.sel.LoadingIndex = index
	b.sel.HasLoadingIndex = true
	b.sel.SelectedIndex = index

	if needScroll {
		b.scrollLeft = ScrollOffsetFor(index, b.measurer, b.geometry.Margin)
	}
	if b.panel.Open() {
		b.ToggleMore()
	}

	// CurrentAssetID trails SelectedIndex until the side effects above ran.
	b.sel.CurrentAssetID = assetID
	b.loading.Publish(true)
	b.navigator.NavigateTo(assetID)
	b.log.Info("filter changed", zap.Int("index", index), zap.String("asset", assetID))
	return true
}

// ToggleMore opens or closes the overflow panel.
func (b *Bar) ToggleMore() bool {
	if b.closed {
		return false
	}
	return b.panel.Toggle(b.sel.Loading)
}

// ContentMeasured feeds the rendered height of the overflow panel content.
func (b *Bar) ContentMeasured(height int) {
	if b.closed {
		return
	}
	b.panel.ContentMeasured(height)
}

// ClassNames lists the classes of the item at index.
func (b *Bar) ClassNames(index int) []Class { return ClassNames(b.sel, index) }

// OverflowToggleClass tells whether the "more" toggle is visible.
func (b *Bar) OverflowToggleClass() Class { return OverflowToggleClass(b.sel) }

func (b *Bar) post(fn func()) {
	b.loop.Post(func() {
		if b.closed {
			return
		}
		fn()
	})
}

func (b *Bar) ctxOrBackground() context.Context {
	if b.ctx != nil {
		return b.ctx
	}
	return context.Background()
}
