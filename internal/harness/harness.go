// Package harness runs scenario files end to end: load a scene, link
// it against an asset repository, compile, and check the result.
//
// Scenarios are the conformance surface of the compiler. Each one
// exercises the whole pipeline with a fixed seed, so a golden file
// pins the exact document bytes a scenario must keep producing. The
// structural assertions (unique names, resolvable references) hold for
// every compiled document regardless of golden coverage.
package harness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/compiler"
	"github.com/roach88/mjscene/internal/ir"
	"github.com/roach88/mjscene/internal/mjcf"
)

// Result is the output of one scenario run.
type Result struct {
	Scenario *Scenario
	Spec     *ir.SceneSpec
	Document []byte
	Stats    mjcf.Stats
}

// Run executes a scenario file and returns the compiled document.
// Validation findings and build failures are returned as errors; use
// RunScenario inside tests to get assertions and golden comparison on
// top.
func Run(path string) (*Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(scenario.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	spec, findings, err := loadSpec(scenario, path)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if len(findings) > 0 {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, compiler.NewValidationErrors(findings))
	}

	if refErrs := compiler.ValidateAssetRefs(spec, cat); len(refErrs) > 0 {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, compiler.NewValidationErrors(refErrs))
	}

	doc, stats, err := mjcf.CompileWithStats(spec, cat, scenario.Seed)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Result{
		Scenario: scenario,
		Spec:     spec,
		Document: doc,
		Stats:    stats,
	}, nil
}

// RunScenario executes a scenario inside a test: any failure fails t,
// the document invariants are asserted, and the document is compared
// against the scenario's golden fixture.
func RunScenario(t *testing.T, path string) *Result {
	t.Helper()

	result, err := Run(path)
	require.NoError(t, err)

	AssertDocumentInvariants(t, result.Document)
	AssertGolden(t, result.Scenario.Golden, result.Document)
	return result
}

// loadSpec produces the scene spec from whichever source the scenario
// carries. Inline scenes reuse the file loading path so YAML handling
// and validation are identical for both sources.
func loadSpec(scenario *Scenario, scenarioPath string) (*ir.SceneSpec, []compiler.ValidationError, error) {
	if scenario.SceneFile != "" {
		return compiler.LoadScene(scenario.SceneFile)
	}
	data, err := yaml.Marshal(scenario.Scene)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal inline scene: %w", err)
	}
	return compiler.LoadSceneBytes(scenarioPath, data)
}
