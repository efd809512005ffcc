package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/store"
)

// Common service errors. The API layer maps them to status codes.
var (
	// ErrAccountNotFound indicates that no account is stored for a phone number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSummaryNotFound indicates that no fleet run has completed yet.
	ErrSummaryNotFound = errors.New("run summary not found")

	// ErrServiceStatusNotFound indicates that no carrier status is stored.
	ErrServiceStatusNotFound = errors.New("service status not found")

	// ErrAPIsNotFound indicates that no carrier api entries are stored.
	ErrAPIsNotFound = errors.New("api data not found")
)

// Constructor errors
var (
	ErrNilSender       = errors.New("upstream sender cannot be nil")
	ErrNilAccountStore = errors.New("account store cannot be nil")
	ErrNilClock        = errors.New("clock cannot be nil")
	ErrNilQuestService = errors.New("quest service cannot be nil")
	ErrNilNetworkTests = errors.New("network test service cannot be nil")
	ErrNilEmitter      = errors.New("event emitter cannot be nil")
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	// Service is the service that failed (e.g., "quest", "processor")
	Service string
	// Operation is the operation that failed (e.g., "record_outcome")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Known not-found and validation
// errors are returned as sentinels instead of being wrapped.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, store.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, ErrSummaryNotFound), errors.Is(err, store.ErrSummaryNotFound):
		return ErrSummaryNotFound
	case errors.Is(err, ErrServiceStatusNotFound), errors.Is(err, store.ErrServiceStatusNotFound):
		return ErrServiceStatusNotFound
	case errors.Is(err, ErrAPIsNotFound), errors.Is(err, store.ErrAPIsNotFound):
		return ErrAPIsNotFound
	case errors.Is(err, domain.ErrValidation):
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func wrapValidation(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}
