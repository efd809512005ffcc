package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Default values written when an account is provisioned.
const (
	ConditionNotClaimed  = "Not Claimed Today"
	NetworkTestNotTested = "Not Tested"
)

// Common validation errors for Account
var (
	ErrEmptyPhoneNumber = errors.New("phone number cannot be empty")
	ErrInvalidPhone     = errors.New("phone number contains invalid characters")
	ErrEmptySIM         = errors.New("sim operator cannot be empty")
	ErrEmptyAccessToken = errors.New("access token cannot be empty")
)

// Account is one SIM-backed phone number tracked for daily processing.
// The phone number is its identity. QuestOutcome and NetworkTestOutcome are
// free text written by the processors; FinishTime is the completion marker in
// the fleet time zone, formatted with TimestampLayout.
type Account struct {
	PhoneNumber        string `json:"ph_no"`
	SIM                string `json:"sim"`
	AccessToken        string `json:"-"`
	Condition          string `json:"condition,omitempty"`
	QuestOutcome       string `json:"quest,omitempty"`
	NetworkTestOutcome string `json:"network_test,omitempty"`
	FinishTime         string `json:"finish_time,omitempty"`
}

// NewAccount creates a freshly provisioned account with the default
// condition and network test markers.
func NewAccount(phone, sim, accessToken string) (*Account, error) {
	a := &Account{
		PhoneNumber:        phone,
		SIM:                sim,
		AccessToken:        accessToken,
		Condition:          ConditionNotClaimed,
		NetworkTestOutcome: NetworkTestNotTested,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the fields required to process the account. Errors wrap
// both ErrValidation and the specific field error.
func (a *Account) Validate() error {
	err := ValidatePhoneNumber(a.PhoneNumber)
	switch {
	case err != nil:
	case strings.TrimSpace(a.SIM) == "":
		err = ErrEmptySIM
	case strings.TrimSpace(a.AccessToken) == "":
		err = ErrEmptyAccessToken
	default:
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// HasFinished reports whether a completion marker was ever recorded.
func (a *Account) HasFinished() bool {
	return a.FinishTime != ""
}

// CompletedOn reports whether the completion marker falls on the given date
// (DateLayout). This is the only idempotency key of a fleet run.
func (a *Account) CompletedOn(date string) bool {
	if a.FinishTime == "" {
		return false
	}
	finishDate, _, _ := strings.Cut(a.FinishTime, " ")
	return finishDate == date
}

// ValidatePhoneNumber rejects numbers that cannot be used as a store key.
func ValidatePhoneNumber(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return ErrEmptyPhoneNumber
	}
	if strings.ContainsAny(phone, "/.#$[] ") {
		return ErrInvalidPhone
	}
	return nil
}
