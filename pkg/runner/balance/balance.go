// Package balance sets and removes stored balances.
package balance

import (
	"context"
	"errors"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/printers"
)

var errNoService = errors.New("can not change balances, no service")

type Set struct {
	Service *app.Service
	Address string
	Balance asset.Balance
	ShowID  bool
	JSON    bool
}

func (s *Set) Do(ctx context.Context) error {
	if s.Service == nil {
		return errNoService
	}
	b, err := s.Service.SetBalance(ctx, s.Address, s.Balance)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: s.ShowID}
	if s.JSON {
		return pp.JSON(b)
	}
	return printFilters(ctx, s.Service, s.Address, b.AssetID, pp)
}

type Remove struct {
	Service *app.Service
	Address string
	AssetID string
	ShowID  bool
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Service == nil {
		return errNoService
	}
	if err := r.Service.RemoveBalance(ctx, r.Address, r.AssetID); err != nil {
		return err
	}
	return printFilters(ctx, r.Service, r.Address, "", printers.PrettyPrint{ShowID: r.ShowID})
}

func printFilters(ctx context.Context, svc *app.Service, address, assetID string, pp printers.PrettyPrint) error {
	entries, err := svc.FilterEntries(ctx, address)
	if err != nil {
		return err
	}
	pp.TitleWithCount(address, len(entries))
	pp.Filters(entries, asset.IndexOf(entries, assetID))
	return nil
}
