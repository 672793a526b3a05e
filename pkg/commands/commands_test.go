package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"tableflip.dev/tokenbar/pkg/asset"
	"tableflip.dev/tokenbar/pkg/commands/options"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	prev := color.Output
	color.Output = &buf
	color.NoColor = true
	t.Cleanup(func() { color.Output = prev })

	*output = options.OutputOptions{}
	cmd := New()
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestCommandTree(t *testing.T) {
	cmd := New()
	for _, path := range [][]string{
		{"ui"}, {"filters"}, {"balance", "set"}, {"balance", "rm"},
		{"watch", "add"}, {"watch", "rm"}, {"watch", "ls"},
		{"tx", "add"}, {"tx", "ls"}, {"report"}, {"info"}, {"version"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		require.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestFiltersFollowStoredData(t *testing.T) {
	t.Setenv("TOKENBAR_PATH", t.TempDir())
	t.Setenv("TOKENBAR_ADDRESS", "addr-1")

	run(t, "balance", "set", "DOT", "DOT", "4", "--name", "Polkadot")
	run(t, "watch", "add", "KSM", "KSM")
	run(t, "watch", "add", "DOT")
	run(t, "tx", "add", "DOT", "in", "1.5", "--from", "alice")

	out := run(t, "filters", "--json")
	var entries []asset.FilterEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "DOT", entries[0].AssetID)
	require.Equal(t, asset.KindOwned, entries[0].Kind)
	require.Equal(t, "5.5", entries[0].Amount.String())
	require.Equal(t, "KSM", entries[1].AssetID)
	require.True(t, entries[1].Watched())

	out = run(t, "tx", "ls", "DOT")
	require.Contains(t, out, "+1.5")
	require.Contains(t, out, "alice")
}
