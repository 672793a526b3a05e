// Package demo seeds a store with a sample wallet for the demo command and
// the TUI testbed.
package demo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
)

// Address is the wallet used when none is configured.
const Address = "demo-wallet"

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Balances returns the owned assets of the demo wallet, in the order they
// are stored.
func Balances() []asset.Balance {
	return []asset.Balance{
		{AssetID: "DOT", Symbol: "DOT", Name: "Polkadot", Amount: amount("42.5")},
		{AssetID: "KSM", Symbol: "KSM", Name: "Kusama", Amount: amount("3.25")},
		{AssetID: "USDT", Symbol: "USDT", Name: "Tether USD", Amount: amount("120")},
		{AssetID: "ASTR", Symbol: "ASTR", Name: "Astar", Amount: amount("900")},
		{AssetID: "ACA", Symbol: "ACA", Name: "Acala", Amount: amount("15")},
	}
}

// Watched returns the watch list. KSM is also owned and is listed once.
func Watched() []asset.WatchedAsset {
	return []asset.WatchedAsset{
		{AssetID: "GLMR", Symbol: "GLMR", Name: "Moonbeam"},
		{AssetID: "KSM", Symbol: "KSM", Name: "Kusama"},
		{AssetID: "PHA", Symbol: "PHA", Name: "Phala"},
	}
}

// Transactions returns a short history for some of the owned assets.
func Transactions(now time.Time) []asset.Tx {
	at := func(d time.Duration) time.Time { return now.Add(-d).UTC() }
	return []asset.Tx{
		{ID: "demo-1", AssetID: "DOT", Direction: asset.DirectionIn, Amount: amount("50"), Counterparty: "exchange", Time: at(72 * time.Hour)},
		{ID: "demo-2", AssetID: "DOT", Direction: asset.DirectionOut, Amount: amount("7.5"), Counterparty: "alice", Time: at(30 * time.Hour)},
		{ID: "demo-3", AssetID: "KSM", Direction: asset.DirectionIn, Amount: amount("3.25"), Time: at(5 * time.Hour)},
		{ID: "demo-4", AssetID: "USDT", Direction: asset.DirectionIn, Amount: amount("120"), Counterparty: "bob", Time: at(time.Hour)},
	}
}

// Seed writes the demo wallet to address. The last hold balances are not
// written and are returned instead, so a caller can stream them in later.
func Seed(ctx context.Context, svc *app.Service, address string, hold int) ([]asset.Balance, error) {
	if svc == nil || svc.Persistence == nil {
		return nil, errors.New("demo: no persistence")
	}
	balances := Balances()
	if hold < 0 {
		hold = 0
	}
	if hold > len(balances) {
		hold = len(balances)
	}
	keep := balances[:len(balances)-hold]
	held := balances[len(balances)-hold:]

	for _, b := range keep {
		if _, err := svc.SetBalance(ctx, address, b); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	for i, w := range Watched() {
		w.Added = now.Add(time.Duration(i) * time.Second).UTC()
		if _, err := svc.AddWatch(ctx, address, w); err != nil {
			return nil, err
		}
	}
	for _, tx := range Transactions(now) {
		if err := svc.Persistence.AddTransaction(address, tx); err != nil {
			return nil, err
		}
	}
	return held, nil
}
