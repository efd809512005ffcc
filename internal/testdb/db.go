//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/simfleet/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection and migration during setup.
const TestTimeout = 30 * time.Second

var urlEnvVars = []string{"SIMFLEET_TEST_DB_URL", "DATABASE_URL"}

// GetTestDatabaseURL returns the first database URL set in the environment.
func GetTestDatabaseURL() string {
	for _, name := range urlEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT opens the test database, applies migrations and closes the
// connection when the test ends.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dsn := GetTestDatabaseURL()
	if dsn == "" {
		if isCIEnvironment() {
			t.Fatalf("no database URL in CI; set one of %s", strings.Join(urlEnvVars, ", "))
		}
		t.Skipf("no database URL set (%s); skipping integration test", strings.Join(urlEnvVars, ", "))
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, dsn)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, postgres.Migrate(ctx, db, "up", quiet), "failed to migrate test database")
	return db
}

// UniqueRoot returns a root path no other test uses and deletes everything
// below it when the test ends.
func UniqueRoot(t *testing.T, db *sql.DB) string {
	t.Helper()
	root := "test-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if _, err := db.ExecContext(ctx, `DELETE FROM nodes WHERE path LIKE $1`, root+"/%"); err != nil {
			t.Logf("failed to clean up %s: %v", root, err)
		}
	})
	return root
}

// isCIEnvironment reports whether tests run under a CI system.
func isCIEnvironment() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
