package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidPath is returned when a key path is empty or contains an
	// empty segment.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidValue is returned when a value cannot be encoded as a tree.
	ErrInvalidValue = errors.New("invalid value")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrUnavailable is returned when the backing database cannot be reached.
	ErrUnavailable = errors.New("store unavailable")

	// ErrAccountNotFound indicates that no account exists for a phone number.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	// ErrSummaryNotFound indicates that no fleet run has stored a summary yet.
	ErrSummaryNotFound = fmt.Errorf("%w: run summary", ErrNotFound)

	// ErrServiceStatusNotFound indicates that the Status node is empty.
	ErrServiceStatusNotFound = fmt.Errorf("%w: service status", ErrNotFound)

	// ErrAPIsNotFound indicates that the apis node is empty.
	ErrAPIsNotFound = fmt.Errorf("%w: apis", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Path      string // The key path the operation targeted
	Operation string // The operation that failed (e.g., "get", "set")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %q failed: %s: %v",
			e.Operation,
			e.Path,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %q failed: %s", e.Operation, e.Path, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given path, operation, message, and wrapped error.
func NewStoreError(path, operation, message string, err error) *StoreError {
	return &StoreError{
		Path:      path,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
