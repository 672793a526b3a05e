package main

import (
	"context"
	"time"

	"tableflip.dev/tokenbar/pkg/asset"
	tuiapp "tableflip.dev/tokenbar/pkg/tui/app"
)

// slowSource delays reads so the loading and settle states stay visible.
type slowSource struct {
	tuiapp.Source
	latency time.Duration
}

func newSlowSource(src tuiapp.Source, latency time.Duration) *slowSource {
	return &slowSource{Source: src, latency: latency}
}

func (s *slowSource) FetchBalances(ctx context.Context, address string) ([]asset.Balance, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Source.FetchBalances(ctx, address)
}

func (s *slowSource) WatchedAssets(ctx context.Context, address string) ([]asset.WatchedAsset, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.Source.WatchedAssets(ctx, address)
}

func (s *slowSource) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
