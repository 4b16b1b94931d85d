package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/roach88/mjscene/internal/ir"
)

// Asset availability states.
const (
	AvailabilityLocal  = "local"
	AvailabilityRemote = "remote"
)

// validCategories is the closed category set. "robot" is a legacy
// alias still accepted from older manifests.
var validCategories = map[string]bool{
	"environment": true,
	"vehicle":     true,
	"nature":      true,
	"urban":       true,
	"sensor":      true,
	"person":      true,
	"animal":      true,
	"prop":        true,
	"robot":       true,
}

var validSensorTypes = map[string]bool{
	"camera":      true,
	"imu":         true,
	"lidar":       true,
	"gps":         true,
	"rangefinder": true,
	"depth":       true,
	"other":       true,
}

// PlacementRules constrains where instances of an asset may be placed.
type PlacementRules struct {
	AllowOn      []string `json:"allow_on,omitempty"`
	MinClearance float64  `json:"min_clearance,omitempty"`
}

// Semantics carries the human vocabulary used by fuzzy search.
type Semantics struct {
	HumanNames []string `json:"human_names,omitempty"`
	Usage      []string `json:"usage,omitempty"`
}

// Manifest describes one reusable asset. Unknown top-level fields are
// preserved in Extra so newer manifests survive a round trip through
// an older build.
type Manifest struct {
	AssetID      string         `json:"asset_id"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Tags         []string       `json:"tags,omitempty"`
	FallbackFor  []string       `json:"fallback_for,omitempty"`
	SensorType   string         `json:"sensor_type,omitempty"`
	Availability string         `json:"availability,omitempty"`
	RemoteURL    string         `json:"remote_url,omitempty"`
	MJCFInclude  string         `json:"mjcf_include"`
	PhysicalSize *ir.Vec3       `json:"physical_size,omitempty"`
	Placement    PlacementRules `json:"placement_rules,omitempty"`
	Semantics    Semantics      `json:"semantics,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

var manifestKnownKeys = map[string]bool{
	"asset_id":        true,
	"name":            true,
	"category":        true,
	"tags":            true,
	"fallback_for":    true,
	"sensor_type":     true,
	"availability":    true,
	"remote_url":      true,
	"mjcf_include":    true,
	"physical_size":   true,
	"placement_rules": true,
	"semantics":       true,
	"extra":           true,
}

func (m *Manifest) UnmarshalJSON(data []byte) error {
	type manifestAlias Manifest
	aux := manifestAlias{Availability: AvailabilityLocal}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		if manifestKnownKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if aux.Extra == nil {
			aux.Extra = make(map[string]any)
		}
		aux.Extra[key] = v
	}
	*m = Manifest(aux)
	return nil
}

// Local reports whether the asset's fragment is available on disk.
func (m *Manifest) Local() bool {
	return m.Availability == AvailabilityLocal
}

// validate checks the closed sets and bounds. Violations make the
// manifest unusable, not the scan.
func (m *Manifest) validate() error {
	if m.AssetID == "" {
		return fmt.Errorf("asset_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validCategories[m.Category] {
		return fmt.Errorf("unknown category %q", m.Category)
	}
	if m.SensorType != "" && !validSensorTypes[m.SensorType] {
		return fmt.Errorf("unknown sensor_type %q", m.SensorType)
	}
	if m.Availability != AvailabilityLocal && m.Availability != AvailabilityRemote {
		return fmt.Errorf("availability must be %q or %q, got %q", AvailabilityLocal, AvailabilityRemote, m.Availability)
	}
	if m.MJCFInclude == "" {
		return fmt.Errorf("mjcf_include is required")
	}
	if m.PhysicalSize != nil {
		for i, c := range m.PhysicalSize {
			if c <= 0 {
				return fmt.Errorf("physical_size[%d] must be positive, got %v", i, c)
			}
		}
	}
	return nil
}

// LoadManifest reads and validates a single manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}
