package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/runner/info"
	"tableflip.dev/tokenbar/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and the stored addresses.",
		Example: `
tokenbar info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(cfg)
			if err != nil {
				return err
			}
			s := info.Info{
				Config:  cfg,
				Service: &app.Service{Persistence: p},
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
