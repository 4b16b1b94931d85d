package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/ir"
)

// Scene decodes raw scene JSON into a spec, failing the test on any
// decode error. Defaults are applied exactly as in production loading.
func Scene(t *testing.T, raw string) *ir.SceneSpec {
	t.Helper()
	var spec ir.SceneSpec
	require.NoError(t, json.Unmarshal([]byte(raw), &spec))
	return &spec
}
