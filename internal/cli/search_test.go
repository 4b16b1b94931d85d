package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/catalog"
)

func TestSearchFindsAssets(t *testing.T) {
	assets := testAssetsDir(t)

	buf := &bytes.Buffer{}
	cmd := NewSearchCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"crate", "--assets", assets})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `1 result(s) for "crate"`)
	assert.Contains(t, buf.String(), "Wooden Crate")
}

func TestSearchRanksExactIDFirst(t *testing.T) {
	assets := testAssetsDir(t)

	buf := &bytes.Buffer{}
	cmd := NewSearchCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"crate", "--assets", assets})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   []catalog.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "crate", resp.Data[0].AssetID)
	assert.Positive(t, resp.Data[0].Score)
}

func TestSearchNoMatches(t *testing.T) {
	assets := testAssetsDir(t)

	buf := &bytes.Buffer{}
	cmd := NewSearchCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"submarine", "--assets", assets})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `No assets match "submarine"`)
}

func TestSearchCategoryFilter(t *testing.T) {
	assets := testAssetsDir(t)

	buf := &bytes.Buffer{}
	cmd := NewSearchCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"crate", "--assets", assets, "--category", "sensor"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No assets match")
}

func TestSearchMissingRepository(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSearchCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"crate", "--assets", "/nonexistent/assets"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}
