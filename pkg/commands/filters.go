package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/commands/options"
	"tableflip.dev/tokenbar/pkg/runner/filters"
)

func addFilters(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var selected string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Print the filter entries in bar order, owned assets first.",
		Example: `
tokenbar filters
tokenbar filters --asset KSM
tokenbar filters --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			f := filters.Filters{
				Service:  e.svc,
				Address:  e.address,
				Selected: selected,
				ShowID:   io.ShowID,
				JSON:     output.JSON,
			}
			return output.HandleError(f.Do(context.Background()))
		},
	}

	cmd.Flags().StringVar(&selected, "asset", "", "Mark the entry this asset would select.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
