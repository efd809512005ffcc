package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/simfleet/internal/events"
)

// TaskFactory builds the task for an account.
type TaskFactory interface {
	CreateTask(phone string) (Task, error)
}

// TaskSubmitter accepts tasks for background execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// AccountAddedHandler turns account.added events into background tasks.
type AccountAddedHandler struct {
	factory TaskFactory
	runner  TaskSubmitter
	logger  *slog.Logger
}

// NewAccountAddedHandler creates a handler that builds tasks with factory and
// submits them to runner.
func NewAccountAddedHandler(factory TaskFactory, runner TaskSubmitter, logger *slog.Logger) *AccountAddedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountAddedHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "account_added_handler"),
	}
}

// HandleEvent ignores every event type other than account.added.
func (h *AccountAddedHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeAccountAdded {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.AccountAddedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	task, err := h.factory.CreateTask(payload.PhoneNumber)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task submitted for new account",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"phone", payload.PhoneNumber,
		"event_id", event.ID)
	return nil
}

var _ events.EventHandler = (*AccountAddedHandler)(nil)
