package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/simfleet/internal/api/shared"
	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/fleet"
	"github.com/phrazzld/simfleet/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	result *fleet.RunResult
	err    error
	calls  int
}

func (s *stubRunner) RunAll(ctx context.Context) (*fleet.RunResult, error) {
	s.calls++
	return s.result, s.err
}

type stubAccounts struct {
	accounts map[string]*domain.Account
	addErr   error
	added    []string
}

func (s *stubAccounts) AddAccount(ctx context.Context, phone, sim, token string) (*domain.Account, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	account, err := domain.NewAccount(phone, sim, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	s.added = append(s.added, phone)
	s.accounts[phone] = account
	return account, nil
}

func (s *stubAccounts) GetAccount(ctx context.Context, phone string) (*domain.Account, error) {
	account, ok := s.accounts[phone]
	if !ok {
		return nil, service.ErrAccountNotFound
	}
	return account, nil
}

type stubStatus struct {
	today       *domain.DailyStatus
	summary     *domain.RunSummary
	err         error
	services    domain.ServiceStatus
	servicesErr error
}

func (s *stubStatus) Today(ctx context.Context) (*domain.DailyStatus, error) {
	return s.today, s.err
}

func (s *stubStatus) ServiceStatus(ctx context.Context) (domain.ServiceStatus, error) {
	return s.services, s.servicesErr
}

func (s *stubStatus) LatestSummary(ctx context.Context) (*domain.RunSummary, error) {
	if s.summary == nil {
		return nil, service.ErrSummaryNotFound
	}
	return s.summary, nil
}

type testServer struct {
	handler  http.Handler
	runner   *stubRunner
	accounts *stubAccounts
	status   *stubStatus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{
		runner:   &stubRunner{},
		accounts: &stubAccounts{accounts: map[string]*domain.Account{}},
		status:   &stubStatus{},
	}
	ts.handler = NewRouter(Handlers{
		Runs:     NewRunHandler(ts.runner, ts.status, logger),
		Accounts: NewAccountHandler(ts.accounts, ts.status, logger),
		Health:   NewHealthHandler(nil),
	}, logger)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v))
	return v
}

func TestStartRun(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/api/runs", "/startNow"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			runID := uuid.New()
			ts.runner.result = &fleet.RunResult{
				RunID:      runID,
				Dispatched: 3,
				Processed:  2,
				Skipped:    1,
				Summary: domain.RunSummary{
					TotalAccounts:  3,
					CompletedCount: 3,
					SuccessCount:   2,
					FailCount:      1,
					FailNumbers:    []string{"0922"},
					Duration:       "0:00:05",
					Date:           "2026-10-19",
				},
			}

			rec := ts.do(t, http.MethodPost, path, "")

			require.Equal(t, http.StatusOK, rec.Code)
			resp := decodeBody[RunResponse](t, rec)
			assert.Equal(t, "Automatic tasks finished for all phone numbers.", resp.Message)
			assert.Equal(t, runID.String(), resp.RunID)
			assert.Equal(t, 3, resp.ProcessedCount)
			assert.Equal(t, 1, resp.Skipped)
			assert.Equal(t, []string{"0922"}, resp.Summary.FailNumbers)
			assert.Equal(t, 1, ts.runner.calls)
			assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
		})
	}
}

func TestStartRun_NoAccounts(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.runner.err = fleet.ErrNoAccounts

	rec := ts.do(t, http.MethodPost, "/startNow", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[shared.ErrorResponse](t, rec)
	assert.Equal(t, "No phone numbers found in the database.", resp.Error)
	assert.NotEmpty(t, resp.TraceID)
}

func TestStartRun_InternalErrorIsHidden(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.runner.err = errors.New("pq: password authentication failed for user admin")

	rec := ts.do(t, http.MethodPost, "/api/runs", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLatestSummary(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/runs/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ts.status.summary = &domain.RunSummary{TotalAccounts: 4, FailNumbers: []string{}, Date: "2026-10-19"}
	rec = ts.do(t, http.MethodGet, "/api/runs/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 4, resp["total_phone_numbers"])
	assert.Equal(t, "2026-10-19", resp["date"])
}

func TestAddAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "api route",
			path:       "/api/accounts",
			body:       `{"ph_no":"09421234567","sim":"MPT","access_token":"tok"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "legacy route",
			path:       "/addPhoneNumber",
			body:       `{"ph_no":"09421234567","sim":"MPT","access_token":"tok"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			path:       "/addPhoneNumber",
			body:       `{"ph_no":"09421234567","sim":"MPT"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid AccessToken: required field",
		},
		{
			name:       "malformed json",
			path:       "/api/accounts",
			body:       `{"ph_no":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "empty body",
			path:       "/api/accounts",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)

			rec := ts.do(t, http.MethodPost, tc.path, tc.body)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			if tc.wantError != "" {
				resp := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, tc.wantError, resp.Error)
				assert.Empty(t, ts.accounts.added)
				return
			}
			resp := decodeBody[AddAccountResponse](t, rec)
			assert.Equal(t, "Phone number added and network test started", resp.Message)
			assert.Equal(t, "09421234567", resp.Account.PhoneNumber)
			assert.NotContains(t, rec.Body.String(), "tok\"")
			assert.Equal(t, []string{"09421234567"}, ts.accounts.added)
		})
	}
}

func TestAddAccount_ServiceValidationError(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.accounts.addErr = fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrInvalidPhone)

	rec := ts.do(t, http.MethodPost, "/api/accounts", `{"ph_no":"09a","sim":"MPT","access_token":"tok"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid phone number", decodeBody[shared.ErrorResponse](t, rec).Error)
}

func TestGetAccount(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	account, err := domain.NewAccount("09421234567", "MPT", "secret-token")
	require.NoError(t, err)
	ts.accounts.accounts[account.PhoneNumber] = account

	rec := ts.do(t, http.MethodGet, "/api/accounts/09421234567", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[AccountResponse](t, rec)
	assert.Equal(t, "MPT", resp.SIM)
	assert.Equal(t, domain.ConditionNotClaimed, resp.Condition)
	assert.NotContains(t, rec.Body.String(), "secret-token")

	rec = ts.do(t, http.MethodGet, "/api/accounts/09000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckCondition(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	account, err := domain.NewAccount("09421234567", "MPT", "tok")
	require.NoError(t, err)
	account.Condition = "Claimed"
	ts.accounts.accounts[account.PhoneNumber] = account

	rec := ts.do(t, http.MethodGet, "/check?ph_no=09421234567", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Claimed", decodeBody[ConditionResponse](t, rec).Condition)

	rec = ts.do(t, http.MethodGet, "/check?ph_no=09999999999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Phone number not found", decodeBody[shared.ErrorResponse](t, rec).Error)

	rec = ts.do(t, http.MethodGet, "/check?ph_no=09.1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckCondition_ServiceStatusListing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		listing    domain.ServiceStatus
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "listing",
			path:       "/check",
			listing:    domain.ServiceStatus{"mytel": {"up": "true", "api": "https://mytel.example", "name": "Mytel"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "blank ph_no",
			path:       "/check?ph_no=%20",
			listing:    domain.ServiceStatus{"mpt": {"api": "N/A", "name": "N/A"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "api route",
			path:       "/api/status/services",
			listing:    domain.ServiceStatus{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no status node",
			path:       "/check",
			err:        service.ErrServiceStatusNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "No status data found.",
		},
		{
			name:       "no apis node",
			path:       "/check",
			err:        service.ErrAPIsNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "No API data found in /apis.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.status.services = tt.listing
			ts.status.servicesErr = tt.err

			rec := ts.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[shared.ErrorResponse](t, rec).Error)
				return
			}
			assert.Equal(t, tt.listing, decodeBody[ServiceStatusResponse](t, rec).Status)
		})
	}
}

func TestTodayStatus(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.status.today = &domain.DailyStatus{
		Date:             "2026-10-19",
		TotalNumbers:     2,
		CompletedNumbers: 1,
		SuccessCount:     1,
		FailNumbers:      []string{},
	}

	rec := ts.do(t, http.MethodGet, "/api/status/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 2, resp["total_numbers"])
	assert.EqualValues(t, 1, resp["completed_numbers"])

	rec = ts.do(t, http.MethodGet, "/checkStatusForToday", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeBody[map[string]any](t, rec)["total_numbers"])

	ts.status.err = service.ErrAccountNotFound
	rec = ts.do(t, http.MethodGet, "/api/status/today", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[HealthResponse](t, rec).Status)

	failing := NewHealthHandler(func(ctx context.Context) error { return errors.New("db down") })
	rec = httptest.NewRecorder()
	failing(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no accounts", fmt.Errorf("run: %w", fleet.ErrNoAccounts), http.StatusNotFound},
		{"account not found", service.ErrAccountNotFound, http.StatusNotFound},
		{"no service status", service.ErrServiceStatusNotFound, http.StatusNotFound},
		{"validation", fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}
