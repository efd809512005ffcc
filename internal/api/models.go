package api

import (
	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/fleet"
)

// AddAccountRequest is the body of POST /api/accounts and /addPhoneNumber.
type AddAccountRequest struct {
	PhoneNumber string `json:"ph_no"        validate:"required,max=32"`
	SIM         string `json:"sim"          validate:"required,max=64"`
	AccessToken string `json:"access_token" validate:"required"`
}

// AccountResponse is an account as returned to clients. The access token is
// never included.
type AccountResponse struct {
	PhoneNumber string `json:"ph_no"`
	SIM         string `json:"sim"`
	Condition   string `json:"condition,omitempty"`
	Quest       string `json:"quest,omitempty"`
	NetworkTest string `json:"network_test,omitempty"`
	FinishTime  string `json:"finish_time,omitempty"`
}

// AddAccountResponse is returned after an account has been stored.
type AddAccountResponse struct {
	Message string          `json:"message"`
	Account AccountResponse `json:"account"`
}

// ConditionResponse is the legacy /check response.
type ConditionResponse struct {
	Condition string `json:"condition"`
}

// ServiceStatusResponse is the carrier status listing served by /check
// without ph_no.
type ServiceStatusResponse struct {
	Status domain.ServiceStatus `json:"status"`
}

// RunResponse reports a finished fleet run.
type RunResponse struct {
	Message        string            `json:"message"`
	RunID          string            `json:"run_id"`
	ProcessedCount int               `json:"processed_count"`
	Processed      int               `json:"processed"`
	Skipped        int               `json:"skipped"`
	Errored        int               `json:"errored"`
	Summary        domain.RunSummary `json:"summary"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func accountToResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		PhoneNumber: a.PhoneNumber,
		SIM:         a.SIM,
		Condition:   a.Condition,
		Quest:       a.QuestOutcome,
		NetworkTest: a.NetworkTestOutcome,
		FinishTime:  a.FinishTime,
	}
}

func runToResponse(r *fleet.RunResult) RunResponse {
	return RunResponse{
		Message:        "Automatic tasks finished for all phone numbers.",
		RunID:          r.RunID.String(),
		ProcessedCount: r.Dispatched,
		Processed:      r.Processed,
		Skipped:        r.Skipped,
		Errored:        r.Errored,
		Summary:        r.Summary,
	}
}
