//go:build integration

// Package testdb connects integration tests to a real PostgreSQL database.
//
// Tests call GetTestDBWithT, which skips when no database URL is configured
// and fails instead when running in CI, where a database is always expected.
// The schema is migrated once per connection with the embedded goose
// migrations, and each test writes under its own root path (see UniqueRoot)
// so tests can run in parallel against one database.
//
// Environment variables, first match wins:
//
//   - SIMFLEET_TEST_DB_URL
//   - DATABASE_URL
package testdb
