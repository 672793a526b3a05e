package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/commands/options"
	"tableflip.dev/tokenbar/pkg/runner/ui"
	"tableflip.dev/tokenbar/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	lo := &options.LogOptions{}
	var assetID string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the home screen with the asset filter bar.",
		Example: `
tokenbar ui
tokenbar ui --address 5Grw... --asset DOT
tokenbar ui --debug --log-file /tmp/tokenbar.log
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			addr, err := address.Resolve(cfg.Address())
			if err != nil {
				return err
			}
			i := ui.UI{
				Config:  cfg,
				Address: addr,
				AssetID: assetID,
				Debug:   lo.Debug,
				LogFile: lo.Path(cfg.LogFile()),
			}
			return i.Do(context.Background())
		},
	}

	cmd.Flags().StringVar(&assetID, "asset", "", "Preselect this asset, like a deep link.")
	options.AddLogArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}
