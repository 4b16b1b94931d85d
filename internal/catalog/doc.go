// Package catalog indexes an asset repository: a directory tree where
// each asset folder carries a manifest describing identity, search
// semantics, and the location of its document fragment.
//
// A Catalog is built once by scanning the tree and is immutable
// afterwards; every query is a pure read, so a single Catalog is safe
// for concurrent use. Scanning is lenient (a malformed manifest is
// logged and skipped, never fatal), while exact-id resolution is
// strict and returns a NotFoundError carrying repair suggestions.
package catalog
