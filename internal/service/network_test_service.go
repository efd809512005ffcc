package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/platform/logger"
	"github.com/phrazzld/simfleet/internal/platform/upstream"
	"github.com/phrazzld/simfleet/internal/redact"
)

// NetworkTestRecorder stores network test outcomes.
type NetworkTestRecorder interface {
	SetNetworkTestOutcome(ctx context.Context, phone, outcome string) error
}

// NetworkTestService submits the synthetic network test sample for one account.
type NetworkTestService struct {
	client    Sender
	endpoints upstream.Endpoints
	userAgent string
	accounts  NetworkTestRecorder
	logger    *slog.Logger
}

// NewNetworkTestService creates a NetworkTestService. An empty userAgent
// falls back to upstream.DefaultUserAgent.
func NewNetworkTestService(
	client Sender,
	endpoints upstream.Endpoints,
	userAgent string,
	accounts NetworkTestRecorder,
	logger *slog.Logger,
) (*NetworkTestService, error) {
	if client == nil {
		return nil, ErrNilSender
	}
	if accounts == nil {
		return nil, ErrNilAccountStore
	}
	if userAgent == "" {
		userAgent = upstream.DefaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkTestService{
		client:    client,
		endpoints: endpoints,
		userAgent: userAgent,
		accounts:  accounts,
		logger:    logger.With(slog.String("component", "network_test_service")),
	}, nil
}

// SubmitNetworkTest posts the sample for phone on operator and records the
// outcome. The error is non-nil only when recording fails.
func (s *NetworkTestService) SubmitNetworkTest(ctx context.Context, phone, operator, accessToken string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("phone", phone))

	outcome := s.submit(ctx, log, phone, operator, accessToken)
	log.Info("network test processed", slog.String("outcome", outcome))

	if err := s.accounts.SetNetworkTestOutcome(ctx, phone, outcome); err != nil {
		return outcome, NewServiceError("network_test", "record_outcome", "failed to record network test outcome", err)
	}
	return outcome, nil
}

func (s *NetworkTestService) submit(ctx context.Context, log *slog.Logger, phone, operator, accessToken string) string {
	sample := upstream.NewNetworkTestSample(domain.InternationalMSISDN(phone), operator)
	headers := upstream.NetworkTestHeaders(accessToken, s.userAgent)

	resp, err := s.client.Send(ctx, http.MethodPost, s.endpoints.NetworkTestSubmit(), headers, sample)
	if resp == nil {
		log.Warn("network test request failed", slog.String("error", redact.Error(err)))
		return domain.NetworkTestNoResponse
	}
	if resp.OK() {
		return domain.NetworkTestSuccess
	}

	msg, ok, err := resp.Message()
	switch {
	case err != nil:
		log.Debug("network test error body is not JSON",
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()))
		return domain.NetworkTestParseError
	case !ok:
		return domain.NetworkTestFailed
	default:
		return msg
	}
}

var _ NetworkTester = (*NetworkTestService)(nil)
