package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/domain"
)

// StatusLister lists accounts for status reports.
type StatusLister interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// StatusService reports on the fleet without changing it.
type StatusService struct {
	accounts  StatusLister
	reports   ReportReader
	clock     *domain.Clock
	logger    *slog.Logger
}

// NewStatusService creates a StatusService.
func NewStatusService(
	accounts StatusLister,
	reports ReportReader,
	clock *domain.Clock,
	logger *slog.Logger,
) (*StatusService, error) {
	if accounts == nil || reports == nil {
		return nil, ErrNilAccountStore
	}
	if clock == nil {
		return nil, ErrNilClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusService{
		accounts:  accounts,
		reports:   reports,
		clock:     clock,
		logger:    logger.With(slog.String("component", "status_service")),
	}, nil
}

// Today reports completion and network test results for the current date.
// It returns ErrAccountNotFound when the fleet is empty.
func (s *StatusService) Today(ctx context.Context) (*domain.DailyStatus, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, NewServiceError("status", "list_accounts", "failed to list accounts", err)
	}
	if len(accounts) == 0 {
		return nil, ErrAccountNotFound
	}
	status := domain.StatusForDate(accounts, s.clock.Today())
	return &status, nil
}

// LatestSummary returns the summary stored by the last fleet run.
func (s *StatusService) LatestSummary(ctx context.Context) (*domain.RunSummary, error) {
	summary, err := s.reports.LatestSummary(ctx)
	if err != nil {
		return nil, NewServiceError("status", "latest_summary", "failed to load run summary", err)
	}
	return summary, nil
}

// ServiceStatus lists the carrier status node enriched with each carrier's
// api and name.
func (s *StatusService) ServiceStatus(ctx context.Context) (domain.ServiceStatus, error) {
	status, apis, err := s.reports.ServiceStatusNodes(ctx)
	if err != nil {
		return nil, NewServiceError("status", "service_status", "failed to load service status", err)
	}
	listing := domain.EnrichServiceStatus(status, apis)
	s.logger.DebugContext(ctx, "listed service status", slog.Int("carriers", len(listing)))
	return listing, nil
}
