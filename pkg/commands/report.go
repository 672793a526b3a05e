package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/commands/options"
	"tableflip.dev/tokenbar/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recent transactions grouped by asset",
		Long: `Report lists transactions of every filter entry within the specified time window,
in filter bar order.

Examples:
  tokenbar report
  tokenbar report --last 3d
  tokenbar report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			since, until, label, err := wo.Bounds(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			e, err := loadEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.close()
			r := report.Report{
				Service: e.svc,
				Address: e.address,
				Since:   since,
				Until:   until,
				Label:   label,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			return output.HandleError(r.Do(context.Background()))
		},
	}

	options.AddWindowArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
