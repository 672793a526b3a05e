// Package tx records and lists transactions of an asset.
package tx

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/printers"
)

var errNoService = errors.New("can not access transactions, no service")

type Add struct {
	Service *app.Service
	Address string
	Tx      asset.Tx
	ShowID  bool
	JSON    bool
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errNoService
	}
	b, err := a.Service.Record(ctx, a.Address, a.Tx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: a.ShowID}
	if a.JSON {
		return pp.JSON(b)
	}
	label := b.Symbol
	if label == "" {
		label = b.AssetID
	}
	pp.Title(fmt.Sprintf("%s balance %s", label, b.Amount))
	pp.Transactions([]asset.Tx{a.Tx})
	return nil
}

type List struct {
	Service *app.Service
	Address string
	AssetID string
	ShowID  bool
	JSON    bool
}

func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errNoService
	}
	txs, err := l.Service.Transactions(ctx, l.Address, l.AssetID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: l.ShowID}
	if l.JSON {
		return pp.JSON(txs)
	}
	pp.Title(l.AssetID)
	pp.Transactions(txs)
	return nil
}
