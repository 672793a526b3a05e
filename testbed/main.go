package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/demo"
	"tableflip.dev/tokenbar/pkg/logging"
	"tableflip.dev/tokenbar/pkg/store"
	tuiapp "tableflip.dev/tokenbar/pkg/tui/app"
)

type options struct {
	latency  time.Duration
	settle   time.Duration
	hold     int
	interval time.Duration
	asset    string
	logFile  string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "testbed",
		Short: "Run the filter bar against a throwaway demo wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	rootCmd.Flags().DurationVar(&opts.latency, "latency", 0, "delay added to every balance and watch list read")
	rootCmd.Flags().DurationVar(&opts.settle, "settle", 0, "settle delay of the first loading value, 0 uses the default")
	rootCmd.Flags().IntVar(&opts.hold, "hold", 0, "number of balances to hold back and stream in later")
	rootCmd.Flags().DurationVar(&opts.interval, "interval", 2*time.Second, "pause between two streamed balances")
	rootCmd.Flags().StringVar(&opts.asset, "asset", "", "preselect this asset, like a deep link")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "write debug logs to this file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	dir, err := os.MkdirTemp("", "tokenbar-testbed-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	log, err := logging.New(opts.logFile, true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := store.Load(store.StaticConfig{Path: dir}, store.WithLogger(log))
	if err != nil {
		return err
	}
	events := store.NewHub(p, log)
	svc := &app.Service{Persistence: p, Log: log, Events: events}
	source := store.NewSource(p, log)
	source.Events = events

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	held, err := demo.Seed(ctx, svc, demo.Address, opts.hold)
	if err != nil {
		return err
	}
	log.Info("testbed seeded", zap.String("path", dir), zap.Int("held", len(held)))

	feeder := newBalanceFeeder(svc, demo.Address, held, opts.interval, log)
	go feeder.Run(ctx)

	return tuiapp.Run(tuiapp.Options{
		Service:     svc,
		Source:      newSlowSource(source, opts.latency),
		Address:     demo.Address,
		InitAssetID: opts.asset,
		Logger:      log,
		SettleDelay: opts.settle,
	})
}
