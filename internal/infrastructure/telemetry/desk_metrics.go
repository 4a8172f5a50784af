package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter is nil")

// DeskMetrics turns domain events into business counters. It is
// subscribed to the event bus, so services stay unaware of metrics.
type DeskMetrics struct {
	ordersCreated       metric.Int64Counter
	documentTransitions metric.Int64Counter
	paymentsRecorded    metric.Int64Counter
	paymentAmount       metric.Float64Counter
	postings            metric.Int64Counter
	postedAmount        metric.Float64Counter
	reversals           metric.Int64Counter
}

// NewDeskMetrics registers the instruments on the meter
func NewDeskMetrics(meter metric.Meter) (*DeskMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &DeskMetrics{}
	var err error

	if m.ordersCreated, err = meter.Int64Counter("tradedesk.orders.created",
		metric.WithDescription("Orders opened"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("orders.created: %w", err)
	}
	if m.documentTransitions, err = meter.Int64Counter("tradedesk.documents.transitions",
		metric.WithDescription("Status changes of purchase orders and invoices"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("documents.transitions: %w", err)
	}
	if m.paymentsRecorded, err = meter.Int64Counter("tradedesk.payments.recorded",
		metric.WithDescription("Payments applied to purchase orders and invoices"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, fmt.Errorf("payments.recorded: %w", err)
	}
	if m.paymentAmount, err = meter.Float64Counter("tradedesk.payments.amount",
		metric.WithDescription("Sum of recorded payments")); err != nil {
		return nil, fmt.Errorf("payments.amount: %w", err)
	}
	if m.postings, err = meter.Int64Counter("tradedesk.ledger.postings",
		metric.WithDescription("Transactions posted to the ledger"),
		metric.WithUnit("{transaction}")); err != nil {
		return nil, fmt.Errorf("ledger.postings: %w", err)
	}
	if m.postedAmount, err = meter.Float64Counter("tradedesk.ledger.posted_amount",
		metric.WithDescription("Sum of debits of posted transactions")); err != nil {
		return nil, fmt.Errorf("ledger.posted_amount: %w", err)
	}
	if m.reversals, err = meter.Int64Counter("tradedesk.ledger.reversals",
		metric.WithDescription("Posted transactions cancelled and reversed"),
		metric.WithUnit("{transaction}")); err != nil {
		return nil, fmt.Errorf("ledger.reversals: %w", err)
	}
	return m, nil
}

// EventTypes lists the events that feed a counter
func (m *DeskMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeDocumentStatusChanged,
		trade.EventTypePaymentRecorded,
		finance.EventTypeTransactionPosted,
		finance.EventTypeTransactionReversed,
	}
}

// Handle records one event
func (m *DeskMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := attribute.String("tenant_id", event.TenantID().String())

	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(tenant,
			attribute.String("workflow_type", string(e.WorkflowType))))
	case *trade.DocumentStatusChangedEvent:
		m.documentTransitions.Add(ctx, 1, metric.WithAttributes(tenant,
			attribute.String("document", e.AggregateType()),
			attribute.String("status", e.NewStatus)))
	case *trade.PaymentRecordedEvent:
		attrs := metric.WithAttributes(tenant, attribute.String("document", e.AggregateType()))
		m.paymentsRecorded.Add(ctx, 1, attrs)
		m.paymentAmount.Add(ctx, e.Amount.InexactFloat64(), attrs)
	case *finance.TransactionPostedEvent:
		if e.EventType() == finance.EventTypeTransactionReversed {
			m.reversals.Add(ctx, 1, metric.WithAttributes(tenant))
			return nil
		}
		m.postings.Add(ctx, 1, metric.WithAttributes(tenant))
		m.postedAmount.Add(ctx, e.TotalAmount.InexactFloat64(), metric.WithAttributes(tenant))
	}
	return nil
}

var _ shared.EventHandler = (*DeskMetrics)(nil)
