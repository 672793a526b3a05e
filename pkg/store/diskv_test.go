package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tableflip.dev/tokenbar/pkg/asset"
)

func newTestPersistence(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(StaticConfig{Path: t.TempDir()})
	require.NoError(t, err)
	return p
}

func TestBalancesKeepInsertionOrder(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	for _, id := range []string{"ksm", "dot", "acala/aUSD"} {
		require.NoError(t, p.SetBalance("addr-1", asset.Balance{AssetID: id, Amount: decimal.NewFromInt(1)}))
	}
	require.NoError(t, p.SetBalance("addr-2", asset.Balance{AssetID: "glmr"}))

	got, err := p.Balances(ctx, "addr-1")
	require.NoError(t, err)
	require.Equal(t, []string{"ksm", "dot", "acala/aUSD"}, balanceIDs(got))

	// updating an existing balance keeps its position
	require.NoError(t, p.SetBalance("addr-1", asset.Balance{AssetID: "ksm", Amount: decimal.NewFromInt(7)}))
	got, err = p.Balances(ctx, "addr-1")
	require.NoError(t, err)
	require.Equal(t, []string{"ksm", "dot", "acala/aUSD"}, balanceIDs(got))
	require.True(t, got[0].Amount.Equal(decimal.NewFromInt(7)))

	require.Equal(t, []string{"addr-1", "addr-2"}, p.Addresses(ctx))
}

func TestRemoveBalance(t *testing.T) {
	p := newTestPersistence(t)
	require.NoError(t, p.SetBalance("addr", asset.Balance{AssetID: "dot"}))
	require.NoError(t, p.RemoveBalance("addr", "dot"))

	err := p.RemoveBalance("addr", "dot")
	require.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	got, err := p.Balances(context.Background(), "addr")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWatchListPreservesAdded(t *testing.T) {
	p := newTestPersistence(t)
	added := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.AddWatch("addr", asset.WatchedAsset{AssetID: "ksm", Added: added}))
	require.NoError(t, p.AddWatch("addr", asset.WatchedAsset{AssetID: "dot"}))
	require.NoError(t, p.AddWatch("addr", asset.WatchedAsset{AssetID: "ksm", Symbol: "KSM"}))

	got, err := p.Watched(context.Background(), "addr")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "ksm", got[0].AssetID)
	require.Equal(t, "KSM", got[0].Symbol)
	require.True(t, got[0].Added.Equal(added))
	require.Equal(t, "dot", got[1].AssetID)
	require.False(t, got[1].Added.IsZero())

	require.NoError(t, p.RemoveWatch("addr", "ksm"))
	got, err = p.Watched(context.Background(), "addr")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestTransactionsNewestFirst(t *testing.T) {
	p := newTestPersistence(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"t1", "t2", "t3"} {
		tx := asset.Tx{ID: id, AssetID: "dot", Direction: asset.DirectionIn, Amount: decimal.NewFromInt(int64(i + 1)), Time: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, p.AddTransaction("addr", tx))
	}
	require.NoError(t, p.AddTransaction("addr", asset.Tx{ID: "other", AssetID: "ksm", Time: base}))

	got, err := p.Transactions(context.Background(), "addr", "dot")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, tx := range got {
		ids = append(ids, tx.ID)
	}
	require.Equal(t, []string{"t3", "t2", "t1"}, ids)
}

func TestPersistenceValidation(t *testing.T) {
	p := newTestPersistence(t)
	require.ErrorIs(t, p.SetBalance("", asset.Balance{AssetID: "dot"}), ErrAddressRequired)
	require.ErrorIs(t, p.SetBalance("addr", asset.Balance{AssetID: " "}), ErrAssetRequired)
	require.ErrorIs(t, p.AddWatch("addr", asset.WatchedAsset{}), ErrAssetRequired)
	require.Error(t, p.AddTransaction("addr", asset.Tx{AssetID: "dot"}))

	_, err := p.Balances(context.Background(), "")
	require.ErrorIs(t, err, ErrAddressRequired)
}

func TestKeyTransformRoundTrip(t *testing.T) {
	key := recordKey(kindBalance, "5Grw/addr", "dot-token")
	pk := keyToPathTransform(key)
	require.Equal(t, []string{kindBalance, encode("5Grw/addr")}, pk.Path)
	require.Equal(t, key, pathToKeyTransform(pk))
}

func balanceIDs(bs []asset.Balance) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.AssetID)
	}
	return out
}
