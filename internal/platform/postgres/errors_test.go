package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/simfleet/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "no rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{
			name:     "invalid json",
			err:      &pgconn.PgError{Code: invalidTextRepresentationCode},
			expected: store.ErrInvalidValue,
		},
		{
			name:     "not null",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "value"},
			expected: store.ErrInvalidValue,
		},
		{
			name:     "check violation",
			err:      &pgconn.PgError{Code: checkViolationCode},
			expected: store.ErrInvalidValue,
		},
		{
			name:     "serialization failure",
			err:      &pgconn.PgError{Code: serializationFailureCode},
			expected: store.ErrTransactionFailed,
		},
		{
			name:     "deadlock",
			err:      fmt.Errorf("exec: %w", &pgconn.PgError{Code: deadlockDetectedCode}),
			expected: store.ErrTransactionFailed,
		},
		{
			name:     "connection failure",
			err:      &pgconn.PgError{Code: "08001"},
			expected: store.ErrUnavailable,
		},
		{
			name:     "admin shutdown",
			err:      &pgconn.PgError{Code: adminShutdownCode},
			expected: store.ErrUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)
			assert.ErrorIs(t, mapped, tc.expected)
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	assert.NoError(t, MapError(nil))

	other := errors.New("unexpected")
	assert.Equal(t, other, MapError(other))

	unknown := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(unknown), MapError(unknown))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(&pgconn.PgError{Code: "08006"}))
	assert.False(t, IsUnavailable(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, IsUnavailable(nil))
}
