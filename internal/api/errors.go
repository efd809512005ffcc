package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/simfleet/internal/api/shared"
	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/fleet"
	"github.com/phrazzld/simfleet/internal/service"
	"github.com/phrazzld/simfleet/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, fleet.ErrNoAccounts),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrSummaryNotFound),
		errors.Is(err, service.ErrServiceStatusNotFound),
		errors.Is(err, service.ErrAPIsNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.As(err, &validationErrs),
		errors.Is(err, store.ErrInvalidPath):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, fleet.ErrNoAccounts):
		return "No phone numbers found in the database."
	case errors.Is(err, service.ErrAccountNotFound):
		return "Phone number not found"
	case errors.Is(err, service.ErrSummaryNotFound):
		return "No fleet run has finished yet"
	case errors.Is(err, service.ErrServiceStatusNotFound):
		return "No status data found."
	case errors.Is(err, service.ErrAPIsNotFound):
		return "No API data found in /apis."
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrEmptyPhoneNumber),
		errors.Is(err, domain.ErrEmptySIM),
		errors.Is(err, domain.ErrEmptyAccessToken):
		return "Missing data"
	case errors.Is(err, domain.ErrInvalidPhone), errors.Is(err, store.ErrInvalidPath):
		return "Invalid phone number"
	case errors.Is(err, store.ErrUnavailable):
		return "Store temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError reports the first failing field without echoing
// submitted values.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "max":
		return "too long"
	case "numeric":
		return "must be digits"
	default:
		return "validation failed"
	}
}

func wrapValidation(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

// respondWithServiceError maps err and writes the error response.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
