// Package ir defines the validated scene intermediate representation:
// the typed data model sitting between declarative scene files and
// compiled documents.
//
// The IR makes several guarantees the rest of the pipeline relies on:
//
//   - Specs are plain values. Nothing here touches the filesystem, the
//     asset repository, or a random source.
//   - The JSON wire contract is strict where silence would corrupt
//     meaning: vectors reject wrong arity, layouts reject unknown
//     type discriminators.
//   - Defaults are applied at decode time, so two files that spell the
//     same scene differently decode to the same value.
//   - Canonical serialization (MarshalCanonical) gives every spec a
//     stable byte form, and content hashes are domain-separated so a
//     spec hash can never collide with a document hash.
package ir
