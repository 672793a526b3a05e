package options

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO = "2006-01-02"
)

// TxOptions
type TxOptions struct {
	Counterparty string
	AtString     string
}

func AddTxArgs(cmd *cobra.Command, o *TxOptions) {
	cmd.Flags().StringVar(&o.Counterparty, "from", "",
		"Counterparty of the transaction.")
	cmd.Flags().StringVar(&o.AtString, "at", "",
		`Backdate the transaction, example: --at="2024-02-28".`)
}

// GetAt returns the parsed --at date, or nil when unset.
func (o *TxOptions) GetAt() (*time.Time, error) {
	if o.AtString == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(layoutISO, o.AtString, time.Local)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
