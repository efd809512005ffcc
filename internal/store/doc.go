// Package store defines the hierarchical key-value tree the fleet persists
// its state in, plus the typed account repository the core depends on.
//
// The tree addresses values by '/'-separated paths. Nested objects are
// stored as one leaf per scalar, so a field-level Update on one account never
// rewrites another account's data. Backends live in internal/platform
// (postgres, sqlite) and in memstore.
package store
