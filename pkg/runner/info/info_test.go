package info

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/store"
)

func TestInfoListsAddresses(t *testing.T) {
	cfg := store.StaticConfig{Path: t.TempDir(), Wallet: "addr-1", Settle: 250 * time.Millisecond}
	p, err := store.Load(cfg)
	require.NoError(t, err)
	require.NoError(t, p.SetBalance("addr-2", asset.Balance{AssetID: "DOT", Amount: decimal.NewFromInt(1)}))

	var buf bytes.Buffer
	n := Info{Config: cfg, Service: &app.Service{Persistence: p}, Out: &buf}
	require.NoError(t, n.Do(context.Background()))

	out := buf.String()
	require.Contains(t, out, cfg.Path)
	require.Contains(t, out, "addr-1")
	require.Contains(t, out, "250ms")
	require.Contains(t, out, "  addr-2")
}

func TestInfoWithoutService(t *testing.T) {
	var buf bytes.Buffer
	n := Info{Config: store.StaticConfig{Path: t.TempDir()}, Out: &buf}
	require.Error(t, n.Do(context.Background()))
	require.Contains(t, buf.String(), "(not set)")
}
