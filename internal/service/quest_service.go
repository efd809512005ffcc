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

// QuestRecorder stores quest outcomes.
type QuestRecorder interface {
	SetQuestOutcome(ctx context.Context, phone, outcome string) error
}

// QuestService claims the daily quest reward for one account.
type QuestService struct {
	client    Sender
	endpoints upstream.Endpoints
	accounts  QuestRecorder
	logger    *slog.Logger
}

// NewQuestService creates a QuestService.
func NewQuestService(
	client Sender,
	endpoints upstream.Endpoints,
	accounts QuestRecorder,
	logger *slog.Logger,
) (*QuestService, error) {
	if client == nil {
		return nil, ErrNilSender
	}
	if accounts == nil {
		return nil, ErrNilAccountStore
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestService{
		client:    client,
		endpoints: endpoints,
		accounts:  accounts,
		logger:    logger.With(slog.String("component", "quest_service")),
	}, nil
}

// ClaimDailyQuest finds today's quest day, claims its reward and records the
// outcome on the account. The outcome is returned even when recording it
// fails; the error is non-nil only in that case.
func (s *QuestService) ClaimDailyQuest(ctx context.Context, phone, accessToken string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("phone", phone))

	outcome := s.claim(ctx, log, phone, accessToken)
	log.Info("daily quest processed", slog.String("outcome", outcome))

	if err := s.accounts.SetQuestOutcome(ctx, phone, outcome); err != nil {
		return outcome, NewServiceError("quest", "record_outcome", "failed to record quest outcome", err)
	}
	return outcome, nil
}

func (s *QuestService) claim(ctx context.Context, log *slog.Logger, phone, accessToken string) string {
	headers := upstream.QuestHeaders(accessToken)

	resp, err := s.client.Send(ctx, http.MethodGet, s.endpoints.DailyQuestInfo(phone), headers, nil)
	if resp == nil {
		log.Warn("daily quest info request failed", slog.String("error", redact.Error(err)))
		return domain.QuestRequestError
	}

	var info upstream.QuestInfo
	if err := resp.DecodeJSON(&info); err != nil {
		log.Debug("daily quest info body is not JSON",
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()))
	}

	day, ok := info.CurrentDay()
	if !ok {
		if info.Message != nil && *info.Message != "" {
			return *info.Message
		}
		return domain.QuestNoCurrentDay
	}

	reward := upstream.RewardRequest{
		MSISDN:    phone,
		Language:  upstream.Language,
		DayNumber: day,
	}
	resp, err = s.client.Send(ctx, http.MethodPost, s.endpoints.SendReward(), headers, reward)
	if resp == nil {
		log.Warn("reward claim request failed",
			slog.Int("day", day),
			slog.String("error", redact.Error(err)))
		return domain.QuestClaimError
	}

	var claimed upstream.RewardResponse
	if err := resp.DecodeJSON(&claimed); err != nil {
		log.Debug("reward claim body is not JSON",
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()))
	}
	return domain.ClassifyClaim(claimed.Message, claimed.Result)
}

var _ QuestClaimer = (*QuestService)(nil)
