package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/shared"
)

// LoggingHandler is a wildcard handler that writes every domain event to the
// structured log. It gives operators an audit trail of order, catalog and
// review activity without a dedicated event store.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a handler that logs all domain events
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event metadata
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Ensure LoggingHandler implements EventHandler
var _ shared.EventHandler = (*LoggingHandler)(nil)
