package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tokenbar/pkg/commands/options"
)

var (
	output  = &options.OutputOptions{}
	address = &options.AddressOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tokenbar",
		Short: base.Wrap80("Wallet balances and watched assets behind a filter bar, on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddAddressArgs(cmd, address)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addFilters(topLevel)
	addBalance(topLevel)
	addWatch(topLevel)
	addTx(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}
