package event

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/stayops/backend/internal/domain/shared"
)

// InMemoryEventBus delivers domain events synchronously, in process.
// Handler errors and panics are logged per handler and never abort
// delivery to the remaining handlers: alerting must not be able to
// fail the mutation whose event it observes.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish delivers events to every interested handler
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		b.logger.Warn("event published before bus start, dropping",
			zap.Int("count", len(events)),
		)
		return nil
	}

	for _, event := range events {
		handlers := b.registry.HandlersFor(event.EventType())
		for _, handler := range handlers {
			b.dispatch(ctx, handler, event)
		}
	}
	return nil
}

// dispatch invokes one handler, isolating panics
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}

// Subscribe registers a handler for the given event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	b.registry.Register(handler, eventTypes...)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as accepting events
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("in-memory event bus started")
	return nil
}

// Stop marks the bus as stopped
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("in-memory event bus stopped")
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
