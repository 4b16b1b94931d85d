package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/compiler"
)

func runResolveCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewResolveCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestResolveExactID(t *testing.T) {
	assets := testAssetsDir(t)

	out, err := runResolveCommand(t, "text", "crate", "--assets", assets)
	require.NoError(t, err)
	assert.Contains(t, out, "crate → crate")
	assert.Contains(t, out, "name: Wooden Crate")
	assert.Contains(t, out, "category: prop")
	assert.NotContains(t, out, "fallback_for")
}

func TestResolveHumanName(t *testing.T) {
	assets := testAssetsDir(t)

	out, err := runResolveCommand(t, "text", "box", "--assets", assets)
	require.NoError(t, err)
	assert.Contains(t, out, "box → crate")
}

func TestResolveFallback(t *testing.T) {
	assets := testAssetsDir(t)

	out, err := runResolveCommand(t, "text", "drum", "--assets", assets)
	require.NoError(t, err)
	assert.Contains(t, out, "drum → barrel")
	assert.Contains(t, out, "matched via fallback_for")
}

func TestResolveMiss(t *testing.T) {
	assets := testAssetsDir(t)

	out, err := runResolveCommand(t, "text", "submarine", "--assets", assets)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), compiler.ErrUnresolvedAsset)
	assert.Contains(t, out, "submarine")
}

func TestResolveJSON(t *testing.T) {
	assets := testAssetsDir(t)

	out, err := runResolveCommand(t, "json", "drum", "--assets", assets)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ResolveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "drum", resp.Data.Query)
	require.NotNil(t, resp.Data.Resolved)
	assert.Equal(t, "barrel", resp.Data.Resolved.AssetID)
	assert.True(t, resp.Data.Fallback)
}
