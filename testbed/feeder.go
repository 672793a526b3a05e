package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
)

// balanceFeeder writes held back balances one by one, so the store watch
// streams new snapshots into the running bar.
type balanceFeeder struct {
	svc      *app.Service
	address  string
	queue    []asset.Balance
	interval time.Duration
	log      *zap.Logger
}

func newBalanceFeeder(svc *app.Service, address string, held []asset.Balance, interval time.Duration, log *zap.Logger) *balanceFeeder {
	if interval <= 0 {
		interval = time.Second
	}
	return &balanceFeeder{
		svc:      svc,
		address:  address,
		queue:    append([]asset.Balance(nil), held...),
		interval: interval,
		log:      log.Named("feeder"),
	}
}

func (f *balanceFeeder) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for len(f.queue) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		next := f.queue[0]
		f.queue = f.queue[1:]
		if _, err := f.svc.SetBalance(ctx, f.address, next); err != nil {
			f.log.Error("feed balance", zap.String("asset", next.AssetID), zap.Error(err))
			continue
		}
		f.log.Debug("fed balance", zap.String("asset", next.AssetID), zap.Int("left", len(f.queue)))
	}
}
