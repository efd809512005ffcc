package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/simfleet/internal/api/shared"
	"github.com/phrazzld/simfleet/internal/domain"
)

// AccountService provisions and looks up accounts.
type AccountService interface {
	AddAccount(ctx context.Context, phone, sim, accessToken string) (*domain.Account, error)
	GetAccount(ctx context.Context, phone string) (*domain.Account, error)
}

// StatusService reports today's fleet status and the carrier status listing.
type StatusService interface {
	Today(ctx context.Context) (*domain.DailyStatus, error)
	ServiceStatus(ctx context.Context) (domain.ServiceStatus, error)
}

// AccountHandler handles account requests.
type AccountHandler struct {
	accounts AccountService
	status   StatusService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService, status StatusService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{
		accounts: accounts,
		status:   status,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// AddAccount handles POST /api/accounts and the legacy POST /addPhoneNumber.
func (h *AccountHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req AddAccountRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	account, err := h.accounts.AddAccount(r.Context(), req.PhoneNumber, req.SIM, req.AccessToken)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AddAccountResponse{
		Message: "Phone number added and network test started",
		Account: accountToResponse(account),
	})
}

// GetAccount handles GET /api/accounts/{phone}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	phone, err := getPathPhone(r, "phone")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), phone)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// CheckCondition handles the legacy GET /check?ph_no=. Without ph_no it
// serves the carrier status listing.
func (h *AccountHandler) CheckCondition(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(r.URL.Query().Get("ph_no")) == "" {
		h.ServiceStatus(w, r)
		return
	}

	phone, err := getQueryPhone(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), phone)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	condition := account.Condition
	if condition == "" {
		condition = "No condition found"
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ConditionResponse{Condition: condition})
}

// TodayStatus handles GET /api/status/today.
func (h *AccountHandler) TodayStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.status.Today(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// ServiceStatus handles GET /api/status/services.
func (h *AccountHandler) ServiceStatus(w http.ResponseWriter, r *http.Request) {
	listing, err := h.status.ServiceStatus(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ServiceStatusResponse{Status: listing})
}
