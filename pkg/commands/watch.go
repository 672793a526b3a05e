package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/commands/options"
	"tableflip.dev/tokenbar/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage assets shown in the bar without a balance.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addWatchAdd(cmd)
	addWatchRemove(cmd)
	addWatchList(cmd)

	topLevel.AddCommand(cmd)
}

func addWatchAdd(topLevel *cobra.Command) {
	var name string

	cmd := &cobra.Command{
		Use:   "add ASSET [SYMBOL]",
		Short: "Watch an asset.",
		Example: `
tokenbar watch add GLMR GLMR --name Moonbeam
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w := asset.WatchedAsset{AssetID: args[0], Name: name}
			if len(args) > 1 {
				w.Symbol = args[1]
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()
			a := watch.Add{Service: e.svc, Address: e.address, Asset: w}
			return a.Do(context.Background())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name of the asset.")
	topLevel.AddCommand(cmd)
}

func addWatchRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm ASSET",
		Aliases: []string{"remove"},
		Short:   "Stop watching an asset.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()
			r := watch.Remove{Service: e.svc, Address: e.address, AssetID: args[0]}
			return r.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}

func addWatchList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List watched assets in the order they were added.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			l := watch.List{Service: e.svc, Address: e.address, JSON: output.JSON}
			return output.HandleError(l.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
