package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tableflip.dev/tokenbar/pkg/asset"
)

// ReportSection sums the transactions of one filter entry.
type ReportSection struct {
	Entry        asset.FilterEntry
	In           decimal.Decimal
	Out          decimal.Decimal
	Transactions []asset.Tx
}

// Net is the signed change over the report window.
func (r ReportSection) Net() decimal.Decimal {
	return r.In.Sub(r.Out)
}

// ReportResult encapsulates the activity of an address for a time window.
type ReportResult struct {
	Address  string
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report returns the transactions of every filter entry of address between
// the provided bounds, in filter bar order. Entries without activity are
// omitted.
func (s *Service) Report(ctx context.Context, address string, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	entries, err := s.FilterEntries(ctx, address)
	if err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{Address: address, Since: since, Until: until}
	for _, e := range entries {
		txs, err := s.Persistence.Transactions(ctx, address, e.AssetID)
		if err != nil {
			return ReportResult{}, err
		}
		section := ReportSection{Entry: e, In: decimal.Zero, Out: decimal.Zero}
		for _, tx := range txs {
			if tx.Time.Before(since) || tx.Time.After(until) {
				continue
			}
			if tx.Direction == asset.DirectionOut {
				section.Out = section.Out.Add(tx.Amount)
			} else {
				section.In = section.In.Add(tx.Amount)
			}
			section.Transactions = append(section.Transactions, tx)
		}
		if len(section.Transactions) == 0 {
			continue
		}
		result.Total += len(section.Transactions)
		result.Sections = append(result.Sections, section)
	}
	return result, nil
}
