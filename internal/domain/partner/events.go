package partner

import (
	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeClient   = "Client"
	AggregateTypeSupplier = "Supplier"
)

// Event type constants
const (
	EventTypeClientCreated        = "ClientCreated"
	EventTypeSupplierCreated      = "SupplierCreated"
	EventTypePartnerStatusChanged = "PartnerStatusChanged"
)

// ClientCreatedEvent is published when a new client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, client.ID, client.TenantID),
		ClientID:        client.ID,
		Code:            client.Code,
		Name:            client.Name,
	}
}

// SupplierCreatedEvent is published when a new supplier is registered
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID, supplier.TenantID),
		SupplierID:      supplier.ID,
		Code:            supplier.Code,
		Name:            supplier.Name,
	}
}

// PartnerStatusChangedEvent is published when a client or supplier is activated or deactivated
type PartnerStatusChangedEvent struct {
	shared.BaseDomainEvent
	Active bool `json:"active"`
}

// NewPartnerStatusChangedEvent creates a new PartnerStatusChangedEvent
func NewPartnerStatusChangedEvent(aggType string, id, tenantID uuid.UUID, active bool) *PartnerStatusChangedEvent {
	return &PartnerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerStatusChanged, aggType, id, tenantID),
		Active:          active,
	}
}
