package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/retail/backend/internal/domain/shared"
)

// LoggingEventHandler is a wildcard handler that writes every domain
// event to the application log. It gives operators an audit trail of
// state changes without touching the aggregates themselves.
type LoggingEventHandler struct {
	logger *zap.Logger
}

// NewLoggingEventHandler creates a new logging event handler
func NewLoggingEventHandler(logger *zap.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{logger: logger.Named("events")}
}

// Handle implements shared.EventHandler
func (h *LoggingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes implements shared.EventHandler. Empty means all events.
func (h *LoggingEventHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*LoggingEventHandler)(nil)
