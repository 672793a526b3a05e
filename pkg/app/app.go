package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/store"
)

// Service provides high-level operations on balances, the watch list and
// transactions. It wraps persistence so the TUI and the CLI share logic.
type Service struct {
	Persistence store.Persistence
	Log         *zap.Logger
	// Events serves Watch; Persistence itself when nil.
	Events store.Watcher
}

var (
	// ErrInsufficientBalance is returned when an outgoing transaction exceeds
	// the stored balance.
	ErrInsufficientBalance = errors.New("app: insufficient balance")
	// ErrNonPositiveAmount is returned for transactions of zero or less.
	ErrNonPositiveAmount = errors.New("app: amount must be positive")

	errNoPersistence = errors.New("app: no persistence configured")
)

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Addresses returns every address with stored balances or watched assets.
func (s *Service) Addresses(ctx context.Context) ([]string, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Addresses(ctx), nil
}

// FilterEntries returns the merged filter list of address, the same list the
// filter bar shows.
func (s *Service) FilterEntries(ctx context.Context, address string) ([]asset.FilterEntry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	balances, err := s.Persistence.Balances(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("app: balances of %s: %w", address, err)
	}
	watched, err := s.Persistence.Watched(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("app: watch list of %s: %w", address, err)
	}
	return asset.Merge(balances, watched), nil
}

// Balance returns the stored balance of assetID, if any.
func (s *Service) Balance(ctx context.Context, address, assetID string) (asset.Balance, bool, error) {
	if s.Persistence == nil {
		return asset.Balance{}, false, errNoPersistence
	}
	balances, err := s.Persistence.Balances(ctx, address)
	if err != nil {
		return asset.Balance{}, false, err
	}
	for _, b := range balances {
		if b.AssetID == assetID {
			return b, true, nil
		}
	}
	return asset.Balance{}, false, nil
}

// SetBalance stores the balance of an asset. Empty display fields keep the
// values already stored.
func (s *Service) SetBalance(ctx context.Context, address string, b asset.Balance) (asset.Balance, error) {
	if s.Persistence == nil {
		return asset.Balance{}, errNoPersistence
	}
	b.AssetID = strings.TrimSpace(b.AssetID)
	prev, ok, err := s.Balance(ctx, address, b.AssetID)
	if err != nil {
		return asset.Balance{}, err
	}
	if ok {
		if b.Symbol == "" {
			b.Symbol = prev.Symbol
		}
		if b.Name == "" {
			b.Name = prev.Name
		}
	}
	if err := s.Persistence.SetBalance(address, b); err != nil {
		return asset.Balance{}, err
	}
	s.logger().Debug("balance set", zap.String("address", address), zap.String("asset", b.AssetID), zap.Stringer("amount", b.Amount))
	return b, nil
}

// RemoveBalance deletes the balance of an asset.
func (s *Service) RemoveBalance(ctx context.Context, address, assetID string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.RemoveBalance(address, assetID)
}

// WatchList returns the watched assets of address in the order they were added.
func (s *Service) WatchList(ctx context.Context, address string) ([]asset.WatchedAsset, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watched(ctx, address)
}

// AddWatch puts an asset on the watch list of address.
func (s *Service) AddWatch(ctx context.Context, address string, w asset.WatchedAsset) (asset.WatchedAsset, error) {
	if s.Persistence == nil {
		return asset.WatchedAsset{}, errNoPersistence
	}
	w.AssetID = strings.TrimSpace(w.AssetID)
	if err := s.Persistence.AddWatch(address, w); err != nil {
		return asset.WatchedAsset{}, err
	}
	s.logger().Debug("asset watched", zap.String("address", address), zap.String("asset", w.AssetID))
	return w, nil
}

// Unwatch removes an asset from the watch list of address.
func (s *Service) Unwatch(ctx context.Context, address, assetID string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.RemoveWatch(address, assetID)
}

// Transactions lists the transactions of an asset, newest first.
func (s *Service) Transactions(ctx context.Context, address, assetID string) ([]asset.Tx, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Transactions(ctx, address, assetID)
}

// Record stores tx and applies it to the balance of its asset. An incoming
// transaction for an asset without a balance creates one.
func (s *Service) Record(ctx context.Context, address string, tx asset.Tx) (asset.Balance, error) {
	if s.Persistence == nil {
		return asset.Balance{}, errNoPersistence
	}
	if !tx.Amount.IsPositive() {
		return asset.Balance{}, ErrNonPositiveAmount
	}
	b, ok, err := s.Balance(ctx, address, tx.AssetID)
	if err != nil {
		return asset.Balance{}, err
	}
	if !ok {
		b = asset.Balance{AssetID: tx.AssetID, Amount: decimal.Zero}
	}
	next := b.Amount.Add(tx.Delta())
	if next.IsNegative() {
		return asset.Balance{}, fmt.Errorf("%w: %s has %s, need %s", ErrInsufficientBalance, tx.AssetID, b.Amount, tx.Amount)
	}
	if err := s.Persistence.AddTransaction(address, tx); err != nil {
		return asset.Balance{}, err
	}
	b.Amount = next
	if err := s.Persistence.SetBalance(address, b); err != nil {
		return asset.Balance{}, err
	}
	s.logger().Debug("transaction recorded", zap.String("address", address), zap.String("tx", tx.ID), zap.Stringer("balance", b.Amount))
	return b, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Events != nil {
		return s.Events.Watch(ctx)
	}
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}
