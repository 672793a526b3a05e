package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/commands/options"
	"tableflip.dev/tokenbar/pkg/runner/balance"
)

func addBalance(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Set or remove confirmed balances.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addBalanceSet(cmd)
	addBalanceRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addBalanceSet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "set ASSET SYMBOL AMOUNT",
		Short: "Store the balance of an asset.",
		Example: `
tokenbar balance set DOT DOT 12.5 --name Polkadot
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return output.HandleError(fmt.Errorf("invalid amount %q: %w", args[2], err))
			}
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			s := balance.Set{
				Service: e.svc,
				Address: e.address,
				Balance: asset.Balance{AssetID: args[0], Symbol: args[1], Name: name, Amount: amount},
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name of the asset.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addBalanceRemove(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm ASSET",
		Aliases: []string{"remove"},
		Short:   "Remove the balance of an asset.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()
			r := balance.Remove{
				Service: e.svc,
				Address: e.address,
				AssetID: args[0],
				ShowID:  io.ShowID,
			}
			return r.Do(context.Background())
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
