package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction says whether a transaction moved funds into or out of the wallet.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ParseDirection converts user input to a Direction.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case DirectionIn, "deposit", "receive":
		return DirectionIn, nil
	case DirectionOut, "withdraw", "send":
		return DirectionOut, nil
	}
	return "", fmt.Errorf("asset: unknown direction %q", raw)
}

// Tx is a single transfer of an asset, listed by the asset detail view.
type Tx struct {
	ID           string          `json:"id"`
	AssetID      string          `json:"asset_id"`
	Direction    Direction       `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty,omitempty"`
	Time         time.Time       `json:"time"`
}

// NewTx returns a transaction stamped with a fresh id and the current time.
func NewTx(assetID string, dir Direction, amount decimal.Decimal, counterparty string) Tx {
	return Tx{
		ID:           uuid.NewString(),
		AssetID:      assetID,
		Direction:    dir,
		Amount:       amount,
		Counterparty: counterparty,
		Time:         time.Now().UTC(),
	}
}

// Delta is the signed change the transaction applies to the balance.
func (t Tx) Delta() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Tx) String() string {
	sign := "+"
	if t.Direction == DirectionOut {
		sign = "-"
	}
	who := t.Counterparty
	if who == "" {
		who = "unknown"
	}
	return fmt.Sprintf("%s  %s%s  %s", t.Time.Format("2006-01-02 15:04"), sign, t.Amount.String(), who)
}
