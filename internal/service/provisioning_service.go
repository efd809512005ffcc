package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/domain"
	"github.com/phrazzld/simfleet/internal/events"
	"github.com/phrazzld/simfleet/internal/platform/logger"
)

// ProvisioningService adds accounts to the fleet and answers lookups.
type ProvisioningService struct {
	accounts AccountStore
	emitter  EventEmitter
	logger   *slog.Logger
}

// NewProvisioningService creates a ProvisioningService.
func NewProvisioningService(accounts AccountStore, emitter EventEmitter, logger *slog.Logger) (*ProvisioningService, error) {
	if accounts == nil {
		return nil, ErrNilAccountStore
	}
	if emitter == nil {
		return nil, ErrNilEmitter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvisioningService{
		accounts: accounts,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "provisioning_service")),
	}, nil
}

// AddAccount stores a new account, replacing any account with the same phone
// number, and emits an account.added event so a first network test runs in
// the background. A failed emit is logged; the account stays stored.
func (s *ProvisioningService) AddAccount(ctx context.Context, phone, sim, accessToken string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("phone", phone))

	account, err := domain.NewAccount(phone, sim, accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return nil, NewServiceError("provisioning", "save_account", "failed to save account", err)
	}

	event, err := events.NewAccountAddedEvent(account.PhoneNumber)
	if err != nil {
		log.Error("failed to build account added event", slog.String("error", err.Error()))
		return account, nil
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit account added event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return account, nil
	}

	log.Info("account added", slog.String("sim", account.SIM))
	return account, nil
}

// GetAccount returns the stored account for phone or ErrAccountNotFound.
func (s *ProvisioningService) GetAccount(ctx context.Context, phone string) (*domain.Account, error) {
	if err := domain.ValidatePhoneNumber(phone); err != nil {
		return nil, NewServiceError("provisioning", "get_account", "invalid phone number", wrapValidation(err))
	}
	account, err := s.accounts.GetAccount(ctx, phone)
	if err != nil {
		return nil, NewServiceError("provisioning", "get_account", "failed to load account", err)
	}
	return account, nil
}
