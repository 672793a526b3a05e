package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set through -ldflags at release time.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func addVersion(topLevel *cobra.Command) {
	var (
		short  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the tokenbar build version.",
		Example: `
tokenbar version
tokenbar version --short
tokenbar version -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), goversion.FuncWithOutput(short, buildVersion, buildCommit, buildDate, format))
			return err
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}
