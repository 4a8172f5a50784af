package finance

import (
	"context"

	"github.com/tradedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents hands the aggregate's pending events to the publisher and
// clears them. A failed publish is logged; the state change already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}
