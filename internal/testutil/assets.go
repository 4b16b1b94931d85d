// Package testutil builds throwaway asset repositories and scene specs
// for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssetFixture describes one asset to materialize under a temporary
// repository root. Zero values fall back to sensible test defaults.
type AssetFixture struct {
	ID           string
	Name         string
	Category     string
	Tags         []string
	FallbackFor  []string
	SensorType   string
	Availability string
	HumanNames   []string
	Usage        []string
	Fragment     string
	ExtraFields  map[string]any
}

// WriteAssetTree materializes the fixtures as
// {root}/{id}/manifest.json plus a model.xml fragment and returns the
// repository root.
func WriteAssetTree(t *testing.T, fixtures ...AssetFixture) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range fixtures {
		WriteAsset(t, root, f)
	}
	return root
}

// WriteAsset materializes one fixture under an existing root.
func WriteAsset(t *testing.T, root string, f AssetFixture) {
	t.Helper()
	require.NotEmpty(t, f.ID, "asset fixture needs an ID")

	dir := filepath.Join(root, f.ID)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	name := f.Name
	if name == "" {
		name = f.ID
	}
	category := f.Category
	if category == "" {
		category = "prop"
	}

	manifest := map[string]any{
		"asset_id":     f.ID,
		"name":         name,
		"category":     category,
		"mjcf_include": "model.xml",
	}
	if len(f.Tags) > 0 {
		manifest["tags"] = f.Tags
	}
	if len(f.FallbackFor) > 0 {
		manifest["fallback_for"] = f.FallbackFor
	}
	if f.SensorType != "" {
		manifest["sensor_type"] = f.SensorType
	}
	if f.Availability != "" {
		manifest["availability"] = f.Availability
	}
	if len(f.HumanNames) > 0 || len(f.Usage) > 0 {
		sem := map[string]any{}
		if len(f.HumanNames) > 0 {
			sem["human_names"] = f.HumanNames
		}
		if len(f.Usage) > 0 {
			sem["usage"] = f.Usage
		}
		manifest["semantics"] = sem
	}
	for k, v := range f.ExtraFields {
		manifest[k] = v
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644))

	fragment := f.Fragment
	if fragment == "" {
		fragment = MinimalFragment(f.ID)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.xml"), []byte(fragment), 0o644))
}

// MinimalFragment returns a tiny valid fragment declaring one geom
// named after the asset.
func MinimalFragment(id string) string {
	return fmt.Sprintf(`<mujoco>
  <worldbody>
    <geom name="%s_geom" type="box" size="0.1 0.1 0.1"/>
  </worldbody>
</mujoco>
`, id)
}
