package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/simfleet/internal/domain"
)

// getPathPhone extracts and validates the phone number path parameter.
func getPathPhone(r *http.Request, paramName string) (string, error) {
	return checkPhone(chi.URLParam(r, paramName))
}

// getQueryPhone extracts and validates the ph_no query parameter.
func getQueryPhone(r *http.Request) (string, error) {
	return checkPhone(r.URL.Query().Get("ph_no"))
}

func checkPhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if err := domain.ValidatePhoneNumber(phone); err != nil {
		return "", wrapValidation(err)
	}
	return phone, nil
}
