package harness

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/compiler"
	"github.com/roach88/mjscene/internal/mjcf"
	"github.com/roach88/mjscene/internal/testutil"
)

// TestScenarios runs every checked-in scenario end to end against its
// golden fixture. These are the regression net for the whole pipeline:
// loading, validation, linking, layout, and serialization.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "courtyard", path: "testdata/scenarios/courtyard.yaml"},
		{name: "courtyard_file", path: "testdata/scenarios/courtyard_file.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RunScenario(t, tt.path)

			assert.Equal(t, "courtyard", result.Spec.Name)
			assert.Equal(t, mjcf.Stats{InstanceCount: 4, AssetCount: 2}, result.Stats)
		})
	}
}

// TestScenarioDeterminism verifies that repeated runs of the same
// scenario produce byte-identical documents.
func TestScenarioDeterminism(t *testing.T) {
	first, err := Run("testdata/scenarios/courtyard.yaml")
	require.NoError(t, err)
	second, err := Run("testdata/scenarios/courtyard.yaml")
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Document, second.Document),
		"two runs of one scenario should produce identical documents")
}

// TestInlineAndFileSceneAgree verifies the inline scene and the
// standalone scene file compile to the same document.
func TestInlineAndFileSceneAgree(t *testing.T) {
	inline, err := Run("testdata/scenarios/courtyard.yaml")
	require.NoError(t, err)
	fromFile, err := Run("testdata/scenarios/courtyard_file.yaml")
	require.NoError(t, err)

	assert.True(t, bytes.Equal(inline.Document, fromFile.Document))
}

func TestRunReportsValidationFindings(t *testing.T) {
	assets := testutil.WriteAssetTree(t,
		testutil.AssetFixture{ID: "ground", Category: "environment"},
	)
	path := writeScenarioFile(t, `
name: nameless
description: scene is missing its name
assets_dir: `+assets+`
scene:
  environment:
    asset_id: ground
`)

	_, err := Run(path)
	require.Error(t, err)

	verrs, ok := compiler.AsValidationErrors(err)
	require.True(t, ok, "expected aggregated validation errors, got %v", err)
	require.NotEmpty(t, verrs.Errors)
	assert.Equal(t, compiler.ErrSchemaViolation, verrs.Errors[0].Code)
	assert.Equal(t, "name", verrs.Errors[0].Field)
}

func TestRunReportsUnresolvedAssets(t *testing.T) {
	assets := testutil.WriteAssetTree(t,
		testutil.AssetFixture{ID: "ground", Category: "environment"},
	)
	path := writeScenarioFile(t, `
name: ghost_ref
description: object references an asset the repository does not have
assets_dir: `+assets+`
scene:
  name: ghost_ref
  environment:
    asset_id: ground
  objects:
    - asset_id: phantom
`)

	_, err := Run(path)
	require.Error(t, err)

	verrs, ok := compiler.AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, verrs.Errors, 1)
	assert.Equal(t, compiler.ErrUnresolvedAsset, verrs.Errors[0].Code)
	assert.Contains(t, verrs.Errors[0].Message, "Asset not found: 'phantom'")
}

// TestInvariantsOnRandomLayout compiles a seeded random scene and
// checks the structural invariants hold without golden coverage.
func TestInvariantsOnRandomLayout(t *testing.T) {
	assets := testutil.WriteAssetTree(t,
		testutil.AssetFixture{ID: "ground", Category: "environment"},
		testutil.AssetFixture{ID: "rock", Category: "nature"},
	)
	path := writeScenarioFile(t, `
name: scattered
description: random rock field
assets_dir: `+assets+`
seed: 7
scene:
  name: scattered
  environment:
    asset_id: ground
  objects:
    - asset_id: rock
      layout:
        type: random
        center: [0, 0, 0.3]
        radius: 8
        count: 12
        min_separation: 0.5
`)

	result, err := Run(path)
	require.NoError(t, err)
	require.Equal(t, 12, result.Stats.InstanceCount)

	AssertDocumentInvariants(t, result.Document)
}
