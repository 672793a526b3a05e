// Package filters prints the filter entries the bar would show for an address.
package filters

import (
	"context"
	"errors"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/printers"
)

type Filters struct {
	Service *app.Service
	Address string
	// Selected marks the entry a deep link to this asset would select.
	Selected string
	ShowID   bool
	JSON     bool
}

func (f *Filters) Do(ctx context.Context) error {
	if f.Service == nil {
		return errors.New("can not list filters, no service")
	}
	entries, err := f.Service.FilterEntries(ctx, f.Address)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: f.ShowID}
	if f.JSON {
		return pp.JSON(entries)
	}

	selected := 0
	if f.Selected != "" {
		if idx := asset.IndexOf(entries, f.Selected); idx >= 0 {
			selected = idx
		}
	}
	pp.TitleWithCount(f.Address, len(entries))
	pp.Filters(entries, selected)
	return nil
}
