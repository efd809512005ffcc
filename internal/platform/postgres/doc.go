// Package postgres provides the PostgreSQL implementation of store.Tree.
// Every leaf of the tree is one row of the nodes table; the schema is managed
// with goose migrations embedded in the binary.
package postgres
