package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/ir"
)

func TestManifestDecodeDefaults(t *testing.T) {
	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(`{
		"asset_id": "oak_tree",
		"name": "Oak Tree",
		"category": "nature",
		"mjcf_include": "model.xml"
	}`), &m))

	assert.Equal(t, AvailabilityLocal, m.Availability, "availability defaults to local")
	assert.True(t, m.Local())
	assert.Nil(t, m.Extra)
	require.NoError(t, m.validate())
}

func TestManifestPreservesUnknownFields(t *testing.T) {
	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(`{
		"asset_id": "oak_tree",
		"name": "Oak Tree",
		"category": "nature",
		"mjcf_include": "model.xml",
		"license": "CC-BY-4.0",
		"lod_levels": [0, 1, 2]
	}`), &m))

	require.NotNil(t, m.Extra)
	assert.Equal(t, "CC-BY-4.0", m.Extra["license"])
	assert.Equal(t, []any{float64(0), float64(1), float64(2)}, m.Extra["lod_levels"])
	assert.NotContains(t, m.Extra, "asset_id", "known fields stay out of Extra")
}

func TestManifestValidation(t *testing.T) {
	base := func() Manifest {
		return Manifest{
			AssetID:      "x",
			Name:         "X",
			Category:     "prop",
			Availability: AvailabilityLocal,
			MJCFInclude:  "model.xml",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Manifest)
		wantErr string
	}{
		{"valid", func(m *Manifest) {}, ""},
		{"legacy robot category", func(m *Manifest) { m.Category = "robot" }, ""},
		{"missing asset id", func(m *Manifest) { m.AssetID = "" }, "asset_id is required"},
		{"missing name", func(m *Manifest) { m.Name = "" }, "name is required"},
		{"unknown category", func(m *Manifest) { m.Category = "spaceship" }, "unknown category"},
		{"unknown sensor type", func(m *Manifest) { m.SensorType = "sonar" }, "unknown sensor_type"},
		{"bad availability", func(m *Manifest) { m.Availability = "cloud" }, "availability must be"},
		{"missing include", func(m *Manifest) { m.MJCFInclude = "" }, "mjcf_include is required"},
		{"nonpositive size", func(m *Manifest) { m.PhysicalSize = &ir.Vec3{1, 0, 1} }, "physical_size[1] must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(&m)
			err := m.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	t.Run("valid file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{
			"asset_id": "rover",
			"name": "Rover",
			"category": "vehicle",
			"sensor_type": "camera",
			"mjcf_include": "rover.xml",
			"physical_size": [1.2, 0.8, 0.5]
		}`), 0o644))

		m, err := LoadManifest(path)
		require.NoError(t, err)
		assert.Equal(t, "rover", m.AssetID)
		assert.Equal(t, [3]float64{1.2, 0.8, 0.5}, [3]float64(*m.PhysicalSize))
	})

	t.Run("invalid json", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
		_, err := LoadManifest(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse manifest")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadManifest(filepath.Join(dir, "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read manifest")
	})
}
