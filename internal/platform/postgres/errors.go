package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/simfleet/internal/store"
)

// PostgreSQL error codes
const (
	// invalidTextRepresentationCode is raised when a value is not valid JSONB.
	invalidTextRepresentationCode = "22P02"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// serializationFailureCode is raised when concurrent transactions conflict.
	serializationFailureCode = "40001"

	// deadlockDetectedCode is raised when two transactions wait on each other.
	deadlockDetectedCode = "40P01"

	// adminShutdownCode is raised when the server is shutting down.
	adminShutdownCode = "57P01"

	// connectionExceptionClass prefixes every connection error code.
	connectionExceptionClass = "08"
)

// MapError maps a database error to the matching store error.
// It wraps the original error to preserve context for debugging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == invalidTextRepresentationCode:
			return fmt.Errorf("%w: %v", store.ErrInvalidValue, err)
		case pgErr.Code == checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidValue,
				pgErr.ConstraintName,
				err,
			)
		case pgErr.Code == notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidValue,
				pgErr.ColumnName,
				err,
			)
		case pgErr.Code == serializationFailureCode, pgErr.Code == deadlockDetectedCode:
			return fmt.Errorf("%w: %v", store.ErrTransactionFailed, err)
		case pgErr.Code == adminShutdownCode,
			len(pgErr.Code) >= 2 && pgErr.Code[:2] == connectionExceptionClass:
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
	}

	return err
}

// IsUnavailable reports whether err means the database could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(MapError(err), store.ErrUnavailable)
}
