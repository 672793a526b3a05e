package filterbar

import (
	"context"
	"time"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/signal"
)

// Subscription releases a long-lived callback registration.
type Subscription = signal.Subscription

// BalanceSource provides the authoritative balances of an address. Both the
// one-shot fetch and the update stream feed the bar.
type BalanceSource interface {
	FetchBalances(ctx context.Context, address string) ([]asset.Balance, error)
	SubscribeBalances(address string, fn func([]asset.Balance)) Subscription
}

// WatchSource reads the user's watch list.
type WatchSource interface {
	WatchedAssets(ctx context.Context, address string) ([]asset.WatchedAsset, error)
}

// SessionProvider exposes the active wallet address.
type SessionProvider interface {
	Address() string
}

// LoadingSignal is the broadcast shared with the asset detail view.
type LoadingSignal interface {
	Publish(v bool)
	Subscribe(fn func(bool)) Subscription
}

// Navigator switches the surrounding view to the detail route of an asset.
type Navigator interface {
	NavigateTo(assetID string)
}

// Measurer reports rendered item widths of the filter strip.
type Measurer interface {
	ItemWidth(index int) int
}

// Task is a scheduled callback that can be cancelled.
type Task interface {
	Stop() bool
}

// Loop is the host event loop. Every state change of a Bar happens inside a
// function run by the loop, so Bar needs no locking.
type Loop interface {
	// Post queues fn on the loop. Safe to call from any goroutine.
	Post(fn func())
	// Go runs work off the loop and posts the returned continuation, if any.
	Go(work func() func())
	// After posts fn once d elapsed unless the task was stopped first.
	After(d time.Duration, fn func()) Task
}

// StaticSession is a SessionProvider for a fixed address.
type StaticSession string

// Address implements SessionProvider.
func (s StaticSession) Address() string { return string(s) }

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(index int) int

// ItemWidth implements Measurer.
func (f MeasurerFunc) ItemWidth(index int) int { return f(index) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(assetID string)

// NavigateTo implements Navigator.
func (f NavigatorFunc) NavigateTo(assetID string) { f(assetID) }
