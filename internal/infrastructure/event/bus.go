// Package event dispatches domain events after their transaction commits:
// in-process handlers through the bus and downstream consumers through Kafka.
package event

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers events to registered handlers synchronously.
// Handler failures are logged and never returned to the publisher, since
// the state change that raised the event is already committed.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("events"),
	}
}

// Publish dispatches every event to its handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatchToHandler(ctx, handler, event); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. Without event types it receives every event.
func (b *InMemoryEventBus) Subscribe(handler Handler, eventTypes ...string) {
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// dispatchToHandler converts a handler panic into an error
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler Handler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

// LoggingHandler writes each event to the log; used when no broker is configured
func LoggingHandler(logger *zap.Logger) Handler {
	return HandlerFunc(func(_ context.Context, event shared.DomainEvent) error {
		logger.Info("Domain event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("tenant_id", event.TenantID().String()),
		)
		return nil
	})
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
