package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/platform/logger"
)

// AccountProcessor runs the daily workflow for one account: claim the quest,
// submit the network test, then write the completion marker. An account
// whose completion marker is dated today is left untouched.
type AccountProcessor struct {
	accounts     AccountStore
	quests       QuestClaimer
	networkTests NetworkTester
	clock        *domain.Clock
	logger       *slog.Logger
}

// NewAccountProcessor creates an AccountProcessor.
func NewAccountProcessor(
	accounts AccountStore,
	quests QuestClaimer,
	networkTests NetworkTester,
	clock *domain.Clock,
	logger *slog.Logger,
) (*AccountProcessor, error) {
	if accounts == nil {
		return nil, ErrNilAccountStore
	}
	if quests == nil {
		return nil, ErrNilQuestService
	}
	if networkTests == nil {
		return nil, ErrNilNetworkTests
	}
	if clock == nil {
		return nil, ErrNilClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountProcessor{
		accounts:     accounts,
		quests:       quests,
		networkTests: networkTests,
		clock:        clock,
		logger:       logger.With(slog.String("component", "account_processor")),
	}, nil
}

// Process brings the account for phone up to date for today. Upstream
// failures end up as recorded outcomes; the returned error reports store
// failures only, which abort this account without retrying.
func (p *AccountProcessor) Process(ctx context.Context, phone string) (domain.ProcessResult, error) {
	log := logger.FromContextOrDefault(ctx, p.logger).With(slog.String("phone", phone))
	ctx = logger.WithLogger(ctx, log)

	account, err := p.accounts.GetAccount(ctx, phone)
	if err != nil {
		return "", NewServiceError("processor", "load_account", "failed to load account", err)
	}

	today := p.clock.Today()
	if account.CompletedOn(today) {
		log.Debug("account already processed today", slog.String("finish_time", account.FinishTime))
		return domain.ProcessSkipped, nil
	}

	if _, err := p.quests.ClaimDailyQuest(ctx, account.PhoneNumber, account.AccessToken); err != nil {
		return "", err
	}
	if _, err := p.networkTests.SubmitNetworkTest(ctx, account.PhoneNumber, account.SIM, account.AccessToken); err != nil {
		return "", err
	}

	finishTime := domain.FormatTimestamp(p.clock.Now())
	if err := p.accounts.SetFinishTime(ctx, account.PhoneNumber, finishTime); err != nil {
		return "", NewServiceError("processor", "record_finish_time", "failed to record finish time", err)
	}

	log.Info("account processed", slog.String("finish_time", finishTime))
	return domain.ProcessCompleted, nil
}
