package options

import (
	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	Debug bool
	File  string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.Flags().BoolVar(&o.Debug, "debug", false,
		"Log at debug level.")
	cmd.Flags().StringVar(&o.File, "log-file", "",
		"Write logs to this file, overrides log_file from the config.")
}

// Path returns the flag value or the configured path.
func (o *LogOptions) Path(configured string) string {
	if o.File != "" {
		return o.File
	}
	return configured
}
