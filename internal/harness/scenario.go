package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance case: a scene, the asset repository
// to link it against, and the seed that pins placement. The compiled
// document is checked against structural invariants and, when Golden
// names a fixture, against a golden file.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// AssetsDir is the asset repository root, relative to the
	// scenario file location.
	AssetsDir string `yaml:"assets_dir"`

	// Scene holds the scene spec inline. Mutually exclusive with
	// SceneFile.
	Scene map[string]any `yaml:"scene,omitempty"`

	// SceneFile points at a scene file (JSON or YAML), relative to
	// the scenario file location. Mutually exclusive with Scene.
	SceneFile string `yaml:"scene_file,omitempty"`

	// Seed pins layout expansion for reproducible documents.
	Seed int64 `yaml:"seed"`

	// Golden names the golden fixture to compare against. Defaults to
	// Name; set it explicitly when several scenarios share one
	// expected document.
	Golden string `yaml:"golden,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Relative paths
// inside the scenario resolve against the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "asset_dir:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.AssetsDir != "" && !filepath.IsAbs(scenario.AssetsDir) {
		scenario.AssetsDir = filepath.Join(base, scenario.AssetsDir)
	}
	if scenario.SceneFile != "" && !filepath.IsAbs(scenario.SceneFile) {
		scenario.SceneFile = filepath.Join(base, scenario.SceneFile)
	}
	if scenario.Golden == "" {
		scenario.Golden = scenario.Name
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.AssetsDir == "" {
		return fmt.Errorf("assets_dir is required")
	}
	if info, err := os.Stat(s.AssetsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("assets_dir is not a directory: %s", s.AssetsDir)
	}

	if len(s.Scene) == 0 && s.SceneFile == "" {
		return fmt.Errorf("one of scene or scene_file is required")
	}
	if len(s.Scene) > 0 && s.SceneFile != "" {
		return fmt.Errorf("scene and scene_file are mutually exclusive")
	}
	if s.SceneFile != "" {
		if _, err := os.Stat(s.SceneFile); os.IsNotExist(err) {
			return fmt.Errorf("scene file not found: %s", s.SceneFile)
		}
	}

	return nil
}
