// Package storage provides SQLite-backed persistence for the recipe search
// pipeline: the ingredient catalog, recipe search projections, the
// recipe-ingredient link table, and precomputed embedding vectors.
//
// The search pipeline treats this package as read-only. Upsert methods exist
// as the seam the external recipe CRUD subsystem writes through, and as
// fixtures for tests.
//
// # Drivers
//
// Two SQLite drivers are supported via build tags:
//
//   - cgo builds use github.com/mattn/go-sqlite3
//   - CGO_ENABLED=0 or -tags purego builds use modernc.org/sqlite
//
// Both paths share one implementation: vector similarity is computed in Go
// over BLOB-encoded little-endian float32 vectors, and lexical search uses
// LIKE-based substring matching, so no driver extension is required.
//
// # Visibility
//
// Every candidate query takes the requester's scope and applies the
// visibility predicate in SQL: a row qualifies if it is public, system
// authored, or owned by the requester. Anonymous scopes only ever see public
// or system recipes. Filtering at the query layer keeps invisible recipes
// from ever being fetched, scored, or cached.
//
// # Schema
//
// Migrations are versioned with semver and applied on open; see
// migrations.go for the full schema.
package storage
