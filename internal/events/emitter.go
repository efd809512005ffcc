package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNilEvent is returned when a nil event is emitted.
var ErrNilEvent = errors.New("event cannot be nil")

// Dispatcher fans events out to handlers registered in process. Every handler
// sees every event, in registration order, on the emitting goroutine.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher with no handlers.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger: logger.With(slog.String("component", "event_dispatcher")),
	}
}

// RegisterHandler subscribes handler to all subsequent events.
func (d *Dispatcher) RegisterHandler(handler EventHandler) {
	d.mu.Lock()
	d.handlers = append(d.handlers, handler)
	n := len(d.handlers)
	d.mu.Unlock()

	d.logger.Debug("event handler registered", slog.Int("handlers", n))
}

// EmitEvent delivers event to every handler. A failing handler does not stop
// delivery; the failures are joined into the returned error.
func (d *Dispatcher) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return ErrNilEvent
	}

	d.mu.RLock()
	handlers := append([]EventHandler(nil), d.handlers...)
	d.mu.RUnlock()

	attrs := slog.Group("event",
		slog.String("id", event.ID.String()),
		slog.String("type", event.Type),
	)
	if len(handlers) == 0 {
		d.logger.WarnContext(ctx, "event dropped, no handlers", attrs)
		return nil
	}
	d.logger.DebugContext(ctx, "dispatching event", attrs, slog.Int("handlers", len(handlers)))

	var errs []error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			d.logger.ErrorContext(ctx, "event handler failed",
				attrs,
				slog.Int("handler", i),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

var _ EventEmitter = (*Dispatcher)(nil)
