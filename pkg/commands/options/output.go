package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/store"
)

// OutputOptions selects between the table printers and JSON.
type OutputOptions struct {
	JSON bool
}

// AddOutputArg wires --json on cmd.
func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// jsonError is the document printed for a failed command under --json.
type jsonError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HandleError prints err as a JSON document when --json is set and swallows
// it, so scripts read the failure from stdout. Without --json err is returned
// for cobra to report.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	b, merr := json.Marshal(jsonError{Error: err.Error(), Kind: errorKind(err)})
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNoAddress), errors.Is(err, store.ErrAddressRequired):
		return "address"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, app.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, app.ErrNonPositiveAmount):
		return "invalid_amount"
	}
	return ""
}
