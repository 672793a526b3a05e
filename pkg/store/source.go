package store

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/signal"
)

// Source serves balances and the watch list of a Persistence to the filter
// bar, and turns storage change events into balance updates.
type Source struct {
	P   Persistence
	Log *zap.Logger
	// Events feeds balance updates; P itself when nil. Set it to a Hub to
	// share the watcher with other consumers.
	Events Watcher
}

// NewSource wraps p. A nil logger discards output.
func NewSource(p Persistence, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{P: p, Log: log.Named("source")}
}

// FetchBalances returns the stored balances of address.
func (s *Source) FetchBalances(ctx context.Context, address string) ([]asset.Balance, error) {
	return s.P.Balances(ctx, address)
}

// WatchedAssets returns the stored watch list of address.
func (s *Source) WatchedAssets(ctx context.Context, address string) ([]asset.WatchedAsset, error) {
	return s.P.Watched(ctx, address)
}

// SubscribeBalances calls fn with a fresh balance list every time balances or
// the watch list of address change on disk. fn runs on a background
// goroutine.
func (s *Source) SubscribeBalances(address string, fn func([]asset.Balance)) signal.Subscription {
	log := s.logger()
	ctx, cancel := context.WithCancel(context.Background())
	sub := &cancelSubscription{cancel: cancel}

	events, err := s.events().Watch(ctx)
	if err != nil {
		log.Warn("balance updates unavailable", zap.String("address", address), zap.Error(err))
		cancel()
		return sub
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !refreshes(ev, address) {
					continue
				}
				balances, err := s.P.Balances(ctx, address)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						log.Warn("reload balances", zap.String("address", address), zap.Error(err))
					}
					continue
				}
				log.Debug("balances changed", zap.String("address", address), zap.Stringer("event", ev.Type), zap.Int("count", len(balances)))
				if ctx.Err() != nil {
					return
				}
				fn(balances)
			}
		}
	}()
	return sub
}

func (s *Source) events() Watcher {
	if s.Events != nil {
		return s.Events
	}
	return s.P
}

func (s *Source) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// refreshes reports whether ev should push a new balance list. A watch list
// change re-emits balances so the bar merges again.
func refreshes(ev Event, address string) bool {
	if !ev.Concerns(address) {
		return false
	}
	switch ev.Type {
	case EventBalancesChanged, EventWatchChanged, EventInvalidated:
		return true
	}
	return false
}

type cancelSubscription struct {
	once   sync.Once
	cancel context.CancelFunc
}

func (c *cancelSubscription) Unsubscribe() {
	c.once.Do(c.cancel)
}
