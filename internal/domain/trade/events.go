package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrder           = "Order"
	AggregateTypeQuotation       = "Quotation"
	AggregateTypePurchaseOrder   = "PurchaseOrder"
	AggregateTypeSalesInvoice    = "SalesInvoice"
	AggregateTypeShippingInvoice = "ShippingInvoice"
)

// Event type constants
const (
	EventTypeOrderCreated           = "OrderCreated"
	EventTypeOrderStatusChanged     = "OrderStatusChanged"
	EventTypeOrderArchived          = "OrderArchived"
	EventTypeOrderRestored          = "OrderRestored"
	EventTypeQuotationCreated       = "QuotationCreated"
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypeSalesInvoiceCreated    = "SalesInvoiceCreated"
	EventTypeShippingInvoiceCreated = "ShippingInvoiceCreated"
	EventTypeDocumentStatusChanged  = "DocumentStatusChanged"
	EventTypePaymentRecorded        = "PaymentRecorded"
)

// OrderCreatedEvent is published when an order is opened
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string       `json:"order_number"`
	ClientID     uuid.UUID    `json:"client_id"`
	WorkflowType WorkflowType `json:"workflow_type"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		ClientID:        order.ClientID,
		WorkflowType:    order.WorkflowType,
	}
}

// OrderStatusChangedEvent is published on every order status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderArchivedEvent is published when an order is archived or restored
type OrderArchivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderArchivedEvent creates an archive or restore event
func NewOrderArchivedEvent(order *Order, archived bool) *OrderArchivedEvent {
	eventType := EventTypeOrderRestored
	if archived {
		eventType = EventTypeOrderArchived
	}
	return &OrderArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
	}
}

// DocumentLinkedEvent is published when a child document is created for an order
type DocumentLinkedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	DocumentNumber string    `json:"document_number"`
}

// NewDocumentLinkedEvent creates a new DocumentLinkedEvent
func NewDocumentLinkedEvent(eventType, aggType string, docID, tenantID, orderID uuid.UUID, number string) *DocumentLinkedEvent {
	return &DocumentLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, docID, tenantID),
		OrderID:         orderID,
		DocumentNumber:  number,
	}
}

// DocumentStatusChangedEvent is published when a purchase order or invoice changes status
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
}

// NewDocumentStatusChangedEvent creates a new DocumentStatusChangedEvent
func NewDocumentStatusChangedEvent(aggType string, docID, tenantID, orderID uuid.UUID, oldStatus, newStatus string) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, aggType, docID, tenantID),
		OrderID:         orderID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// PaymentRecordedEvent is published when money is paid against a purchase order or invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(aggType string, docID, tenantID, orderID uuid.UUID, amount, remaining decimal.Decimal) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, aggType, docID, tenantID),
		OrderID:         orderID,
		Amount:          amount,
		Remaining:       remaining,
	}
}
