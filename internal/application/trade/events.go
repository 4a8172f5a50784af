package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
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
		logger.Warn("Failed to publish trade events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}

// loadOpenOrder fetches the order a new document will reference and
// refuses archived or cancelled orders.
func loadOpenOrder(ctx context.Context, orderRepo trade.OrderRepository, tenantID, orderID uuid.UUID) (*trade.Order, error) {
	order, err := orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.AcceptsDocuments() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order "+order.OrderNumber+" no longer accepts documents")
	}
	return order, nil
}

// parseUUIDFilter copies an optional uuid query value into the filter map
func parseUUIDFilter(filter shared.Filter, key, value string) error {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Invalid "+key)
	}
	filter.Filters[key] = id
	return nil
}
