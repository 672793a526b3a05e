package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/demo"
	"tableflip.dev/tokenbar/pkg/printers"
	"tableflip.dev/tokenbar/pkg/store"
)

func main() {
	var address string

	rootCmd := &cobra.Command{
		Use:   "demo",
		Short: "Seed the configured store with a demo wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(address)
		},
	}
	rootCmd.Flags().StringVarP(&address, "address", "a", "",
		"Wallet address to seed, defaults to the configured one or "+demo.Address+".")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func seed(address string) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return err
	}
	if address == "" {
		address = cfg.Address()
	}
	if address == "" {
		address = demo.Address
	}

	ctx := context.Background()
	svc := &app.Service{Persistence: p}
	if _, err := demo.Seed(ctx, svc, address, 0); err != nil {
		return err
	}
	entries, err := svc.FilterEntries(ctx, address)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.TitleWithCount(address, len(entries))
	pp.Filters(entries, 0)
	return nil
}
