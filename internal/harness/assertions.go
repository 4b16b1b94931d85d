package harness

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/mjcf"
)

// refCheckAttrs are the reference attributes whose targets must exist
// as declared names somewhere in the document. Class references are
// excluded: defaults may be implicit.
var refCheckAttrs = []string{"site", "material", "mesh", "texture"}

// AssertDocumentInvariants checks the structural guarantees every
// compiled document carries: it parses, the skeleton sections exist,
// element names are globally unique, and references resolve to
// declared names.
func AssertDocumentInvariants(t *testing.T, doc []byte) {
	t.Helper()

	root, err := mjcf.Parse(bytes.NewReader(doc))
	require.NoError(t, err, "document must parse")
	require.Equal(t, "mujoco", root.Tag, "root element must be mujoco")

	model, ok := root.Attr("model")
	require.True(t, ok, "root must carry the scene name as model")
	assert.NotEmpty(t, model)

	require.NotNil(t, root.Child("option"), "document must carry an option section")
	require.NotNil(t, root.Child("worldbody"), "document must carry a worldbody")

	names := make(map[string]bool)
	collectDuplicates(t, root, names)
	checkReferences(t, root, names)
}

func collectDuplicates(t *testing.T, e *mjcf.Element, names map[string]bool) {
	t.Helper()
	if name, ok := e.Attr("name"); ok && name != "" {
		assert.False(t, names[name], "duplicate element name %q", name)
		names[name] = true
	}
	for _, c := range e.Children {
		collectDuplicates(t, c, names)
	}
}

func checkReferences(t *testing.T, e *mjcf.Element, names map[string]bool) {
	t.Helper()
	for _, ref := range refCheckAttrs {
		if val, ok := e.Attr(ref); ok {
			assert.True(t, names[val], "<%s %s=%q> does not resolve to a declared name", e.Tag, ref, val)
		}
	}
	for _, c := range e.Children {
		checkReferences(t, c, names)
	}
}
