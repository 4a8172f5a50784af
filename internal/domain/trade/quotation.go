package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// QuotationStatus represents the state of a supplier quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected:
		return true
	}
	return false
}

// Label returns the display label
func (s QuotationStatus) Label() string {
	return shared.DisplayLabel(string(s))
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent
	case QuotationStatusSent:
		return target == QuotationStatusAccepted || target == QuotationStatusRejected
	}
	return false
}

// Quotation is a supplier's priced offer gathered for a standard workflow order
type Quotation struct {
	shared.TenantAggregateRoot
	OrderID         uuid.UUID
	SupplierID      uuid.UUID
	SupplierName    string
	QuotationNumber string
	Items           []LineItem
	TotalAmount     decimal.Decimal
	ValidUntil      *time.Time
	Status          QuotationStatus
	Notes           string
}

// NewQuotation creates a draft quotation with its total computed from items
func NewQuotation(tenantID, orderID uuid.UUID, quotationNumber string, supplierID uuid.UUID, supplierName string, items []LineItem, validUntil *time.Time) (*Quotation, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		QuotationNumber:     quotationNumber,
		Items:               items,
		ValidUntil:          validUntil,
		Status:              QuotationStatusDraft,
	}
	if q.Items == nil {
		q.Items = make([]LineItem, 0)
	}
	q.TotalAmount = CalculateSubtotal(q.Items)
	q.AddDomainEvent(NewDocumentLinkedEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID, tenantID, orderID, quotationNumber))

	return q, nil
}

// TransitionTo moves the quotation to the target status
func (q *Quotation) TransitionTo(target QuotationStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid quotation status: %s", target))
	}
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move quotation from %s to %s", q.Status, target))
	}
	if target == QuotationStatusSent && len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a quotation without items")
	}
	q.Status = target
	q.MarkChanged()
	return nil
}

// IsExpired reports whether the validity window has passed
func (q *Quotation) IsExpired(now time.Time) bool {
	return q.ValidUntil != nil && now.After(*q.ValidUntil)
}
