package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/simfleet/internal/domain"
)

// Common errors
var (
	ErrNilAccountReader = errors.New("account reader cannot be nil")
	ErrNilNetworkTester = errors.New("network tester cannot be nil")
	ErrEmptyPhoneNumber = errors.New("phone number cannot be empty")
)

// AccountReader loads the stored account for a phone number.
type AccountReader interface {
	GetAccount(ctx context.Context, phone string) (*domain.Account, error)
}

// NetworkTester submits a network test and records its outcome.
type NetworkTester interface {
	SubmitNetworkTest(ctx context.Context, phone, operator, accessToken string) (string, error)
}

// NetworkTestTask runs one network test for a freshly provisioned account.
// Credentials are read when the task executes, not when it is created.
type NetworkTestTask struct {
	id       uuid.UUID
	phone    string
	accounts AccountReader
	tester   NetworkTester
	logger   *slog.Logger
}

// NewNetworkTestTask creates a new network test task
func NewNetworkTestTask(
	phone string,
	accounts AccountReader,
	tester NetworkTester,
	logger *slog.Logger,
) (*NetworkTestTask, error) {
	if accounts == nil {
		return nil, ErrNilAccountReader
	}
	if tester == nil {
		return nil, ErrNilNetworkTester
	}
	if phone == "" {
		return nil, ErrEmptyPhoneNumber
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NetworkTestTask{
		id:       uuid.New(),
		phone:    phone,
		accounts: accounts,
		tester:   tester,
		logger:   logger.With("task_type", TaskTypeNetworkTest, "phone", phone),
	}, nil
}

// ID returns the task's unique identifier
func (t *NetworkTestTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *NetworkTestTask) Type() string {
	return TaskTypeNetworkTest
}

// PhoneNumber returns the account the task tests.
func (t *NetworkTestTask) PhoneNumber() string {
	return t.phone
}

// Execute loads the account and submits the network test. The outcome is
// recorded by the tester; only store failures are returned.
func (t *NetworkTestTask) Execute(ctx context.Context) error {
	account, err := t.accounts.GetAccount(ctx, t.phone)
	if err != nil {
		return fmt.Errorf("loading account: %w", err)
	}

	outcome, err := t.tester.SubmitNetworkTest(ctx, account.PhoneNumber, account.SIM, account.AccessToken)
	if err != nil {
		return fmt.Errorf("submitting network test: %w", err)
	}

	t.logger.Info("network test finished", "outcome", outcome)
	return nil
}

// NetworkTestTaskFactory creates NetworkTestTask instances
type NetworkTestTaskFactory struct {
	accounts AccountReader
	tester   NetworkTester
	logger   *slog.Logger
}

// NewNetworkTestTaskFactory creates a new factory for NetworkTestTasks
func NewNetworkTestTaskFactory(
	accounts AccountReader,
	tester NetworkTester,
	logger *slog.Logger,
) *NetworkTestTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkTestTaskFactory{
		accounts: accounts,
		tester:   tester,
		logger:   logger,
	}
}

// CreateTask creates a new NetworkTestTask for phone
func (f *NetworkTestTaskFactory) CreateTask(phone string) (Task, error) {
	task, err := NewNetworkTestTask(phone, f.accounts, f.tester, f.logger)
	if err != nil {
		return nil, err
	}
	return task, nil
}

var _ Task = (*NetworkTestTask)(nil)
