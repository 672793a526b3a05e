// Package ui launches the terminal home screen.
package ui

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/filterbar"
	"tableflip.dev/tokenbar/pkg/logging"
	"tableflip.dev/tokenbar/pkg/store"
	tuiapp "tableflip.dev/tokenbar/pkg/tui/app"
)

type UI struct {
	Config  store.Config
	Address string
	// AssetID preselects a filter on the first merge.
	AssetID string
	Debug   bool
	LogFile string
}

func (u *UI) Do(ctx context.Context) error {
	if u.Config == nil {
		var err error
		if u.Config, err = store.LoadConfig(); err != nil {
			return err
		}
	}
	if u.Address == "" {
		return errors.New("ui: wallet address required")
	}

	log, err := logging.New(u.LogFile, u.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := store.Load(u.Config, store.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("starting ui",
		zap.String("address", u.Address),
		zap.String("asset", u.AssetID),
		zap.String("path", u.Config.BasePath()))

	// the detail view and the balance feed share one watcher
	events := store.NewHub(p, log)
	source := store.NewSource(p, log)
	source.Events = events

	return tuiapp.Run(tuiapp.Options{
		Service:     &app.Service{Persistence: p, Log: log, Events: events},
		Source:      source,
		Address:     u.Address,
		InitAssetID: u.AssetID,
		Logger:      log,
		SettleDelay: u.Config.SettleDelay(),
		Geometry:    Geometry(u.Config),
	})
}

// Geometry is the terminal bar geometry with the configured overrides.
func Geometry(cfg store.Config) filterbar.Geometry {
	g := filterbar.TerminalGeometry
	if cfg == nil {
		return g
	}
	if b := cfg.BarBaseline(); b > 0 {
		g.Baseline = b
	}
	if m := cfg.BarMargin(); m >= 0 {
		g.Margin = m
	}
	return g
}
