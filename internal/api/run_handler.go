package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/simfleet/internal/api/shared"
	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/fleet"
	"github.com/phrazzld/simfleet/internal/platform/logger"
)

// FleetRunner runs the daily workflow across all accounts.
type FleetRunner interface {
	RunAll(ctx context.Context) (*fleet.RunResult, error)
}

// SummaryService returns the summary of the last run.
type SummaryService interface {
	LatestSummary(ctx context.Context) (*domain.RunSummary, error)
}

// RunHandler handles fleet run requests.
type RunHandler struct {
	runner    FleetRunner
	summaries SummaryService
	logger    *slog.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runner FleetRunner, summaries SummaryService, logger *slog.Logger) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{
		runner:    runner,
		summaries: summaries,
		logger:    logger.With(slog.String("component", "run_handler")),
	}
}

// StartRun handles POST /api/runs and the legacy POST /startNow. The response
// is written after every account has been processed; a client disconnecting
// early does not stop the run.
func (h *RunHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.runner.RunAll(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	log.Info("fleet run completed via API",
		slog.String("run_id", result.RunID.String()),
		slog.Int("processed_count", result.Dispatched))
	shared.RespondWithJSON(w, r, http.StatusOK, runToResponse(result))
}

// LatestSummary handles GET /api/runs/latest.
func (h *RunHandler) LatestSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaries.LatestSummary(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
