package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/commands/options"
	"tableflip.dev/tokenbar/pkg/runner/tx"
)

func addTx(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and list transactions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTxAdd(cmd)
	addTxList(cmd)

	topLevel.AddCommand(cmd)
}

func addTxAdd(topLevel *cobra.Command) {
	to := &options.TxOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add ASSET in|out AMOUNT",
		Short: "Record a transaction and apply it to the balance.",
		Example: `
tokenbar tx add DOT in 5 --from alice
tokenbar tx add DOT out 1.5 --at 2024-02-28
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			dir, err := asset.ParseDirection(args[1])
			if err != nil {
				return output.HandleError(err)
			}
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return output.HandleError(fmt.Errorf("invalid amount %q: %w", args[2], err))
			}
			at, err := to.GetAt()
			if err != nil {
				return output.HandleError(err)
			}
			t := asset.NewTx(args[0], dir, amount, to.Counterparty)
			if at != nil {
				t.Time = *at
			}

			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			a := tx.Add{
				Service: e.svc,
				Address: e.address,
				Tx:      t,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(a.Do(context.Background()))
		},
	}

	options.AddTxArgs(cmd, to)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addTxList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "ls ASSET",
		Aliases: []string{"list"},
		Short:   "List the transactions of an asset, newest first.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			l := tx.List{
				Service: e.svc,
				Address: e.address,
				AssetID: args[0],
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(l.Do(context.Background()))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
