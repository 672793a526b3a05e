// Package watch manages the watch list of an address.
package watch

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/printers"
)

var errNoService = errors.New("can not change the watch list, no service")

type Add struct {
	Service *app.Service
	Address string
	Asset   asset.WatchedAsset
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errNoService
	}
	if a.Asset.Added.IsZero() {
		a.Asset.Added = time.Now().UTC()
	}
	if _, err := a.Service.AddWatch(ctx, a.Address, a.Asset); err != nil {
		return err
	}
	return list(ctx, a.Service, a.Address, false)
}

type Remove struct {
	Service *app.Service
	Address string
	AssetID string
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Service == nil {
		return errNoService
	}
	if err := r.Service.Unwatch(ctx, r.Address, r.AssetID); err != nil {
		return err
	}
	return list(ctx, r.Service, r.Address, false)
}

type List struct {
	Service *app.Service
	Address string
	JSON    bool
}

func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errNoService
	}
	return list(ctx, l.Service, l.Address, l.JSON)
}

func list(ctx context.Context, svc *app.Service, address string, asJSON bool) error {
	watched, err := svc.WatchList(ctx, address)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	if asJSON {
		return pp.JSON(watched)
	}
	pp.TitleWithCount("Watching", len(watched))
	pp.Watched(watched)
	return nil
}
