// Package store provides SQLite-backed provenance records for compile
// runs.
//
// Every recorded run captures the input side (scene name, spec hash,
// seed) and the output side (document hash, size, instance and asset
// counts) plus the IR version that produced it. Given the same asset
// repository, a stored run is enough to recompile the scene and check
// the result hash, which is what VerifyRun does.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Hashes are computed in internal/ir using canonical JSON and SHA-256
// with domain separation.
package store
