// Package report prints the activity of an address over a time window.
package report

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/printers"
)

type Report struct {
	Service *app.Service
	Address string
	Since   time.Time
	Until   time.Time
	// Label names the window in the title, for example "1w".
	Label  string
	ShowID bool
	JSON   bool
}

func (r *Report) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("can not report, no service")
	}
	result, err := r.Service.Report(ctx, r.Address, r.Since, r.Until)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: r.ShowID}
	if r.JSON {
		return pp.JSON(result)
	}
	pp.Report(result, r.Label)
	return nil
}
