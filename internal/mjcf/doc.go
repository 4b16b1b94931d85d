// Package mjcf assembles MuJoCo MJCF documents from validated scene
// specs and asset fragments.
//
// The hard part is linking. Every instance of an asset splices the
// same fragment into the world, so each splice renames every symbol
// the fragment declares to an instance-scoped name and rewrites the
// reference attributes that point at it; symbols the fragment merely
// references (shared globals like the grid material) are left alone.
// Rename tables and element trees belong to a single compile call and
// are never shared, so concurrent compiles cannot interfere.
//
// Serialization is the package's own: attribute order is
// insertion order, indentation is fixed, and there is no XML
// declaration. Identical compiles must produce byte-identical
// documents, which is a stronger promise than any generic XML writer
// makes.
package mjcf
