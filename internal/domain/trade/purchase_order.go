package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "sent"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSent, PurchaseOrderStatusConfirmed, PurchaseOrderStatusReceived:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// Label returns the display label
func (s PurchaseOrderStatus) Label() string {
	return shared.DisplayLabel(string(s))
}

// CanTransitionTo checks if the status can transition to the target status.
// The lifecycle is strictly linear.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusConfirmed
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusReceived
	}
	return false
}

// PurchaseOrder is an order placed with a supplier on behalf of a client order.
// RemainingAmount is always TotalAmount - PaidAmount and never negative.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderID         uuid.UUID
	SupplierID      uuid.UUID
	SupplierName    string
	PONumber        string
	Items           []LineItem
	PaymentTerms    string
	DeliveryDate    *time.Time
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Payments        []Payment
	Status          PurchaseOrderStatus
	SentAt          *time.Time
	ConfirmedAt     *time.Time
	ReceivedAt      *time.Time
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID, orderID uuid.UUID, poNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "Purchase order number cannot be empty")
	}
	if len(poNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "Purchase order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		PONumber:            poNumber,
		Items:               make([]LineItem, 0),
		TotalAmount:         decimal.Zero,
		PaidAmount:          decimal.Zero,
		RemainingAmount:     decimal.Zero,
		Payments:            make([]Payment, 0),
		Status:              PurchaseOrderStatusDraft,
	}
	po.AddDomainEvent(NewDocumentLinkedEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, po.ID, tenantID, orderID, poNumber))

	return po, nil
}

// AddItem appends a line item. Only allowed in draft.
func (p *PurchaseOrder) AddItem(description string, quantity int, unitPrice decimal.Decimal) (*LineItem, error) {
	if err := p.ensureDraft("add items to"); err != nil {
		return nil, err
	}
	items, item, err := addLineItem(p.Items, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	p.Items = items
	p.recalculateTotals()
	p.MarkChanged()
	return item, nil
}

// UpdateItem replaces a line item's values. Only allowed in draft.
func (p *PurchaseOrder) UpdateItem(itemID uuid.UUID, description string, quantity int, unitPrice decimal.Decimal) error {
	if err := p.ensureDraft("update items in"); err != nil {
		return err
	}
	if err := updateLineItem(p.Items, itemID, description, quantity, unitPrice); err != nil {
		return err
	}
	p.recalculateTotals()
	p.MarkChanged()
	return nil
}

// RemoveItem deletes a line item. Only allowed in draft.
func (p *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if err := p.ensureDraft("remove items from"); err != nil {
		return err
	}
	items, err := removeLineItem(p.Items, itemID)
	if err != nil {
		return err
	}
	p.Items = items
	p.recalculateTotals()
	p.MarkChanged()
	return nil
}

// SetTerms sets payment terms and the expected delivery date
func (p *PurchaseOrder) SetTerms(paymentTerms string, deliveryDate *time.Time) error {
	if p.Status == PurchaseOrderStatusReceived {
		return shared.NewDomainError("INVALID_STATE", "Cannot change terms of a received purchase order")
	}
	if len(paymentTerms) > 200 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 200 characters")
	}
	p.PaymentTerms = paymentTerms
	p.DeliveryDate = deliveryDate
	p.MarkChanged()
	return nil
}

// Send issues the purchase order to the supplier
func (p *PurchaseOrder) Send() error {
	if len(p.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a purchase order without items")
	}
	if err := p.transitionTo(PurchaseOrderStatusSent); err != nil {
		return err
	}
	now := time.Now()
	p.SentAt = &now
	return nil
}

// Confirm records the supplier's acceptance
func (p *PurchaseOrder) Confirm() error {
	if err := p.transitionTo(PurchaseOrderStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	p.ConfirmedAt = &now
	return nil
}

// Receive records delivery of the goods
func (p *PurchaseOrder) Receive() error {
	if err := p.transitionTo(PurchaseOrderStatusReceived); err != nil {
		return err
	}
	now := time.Now()
	p.ReceivedAt = &now
	return nil
}

// RecordPayment registers a payment to the supplier. Payments are allowed
// once the purchase order has left draft and may not exceed the remaining amount.
func (p *PurchaseOrder) RecordPayment(amount decimal.Decimal, paidAt time.Time, method PaymentMethod, reference string) (*Payment, error) {
	if p.Status == PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record payments against a draft purchase order")
	}
	payment, err := newPayment(amount, p.RemainingAmount, paidAt, method, reference)
	if err != nil {
		return nil, err
	}

	p.Payments = append(p.Payments, *payment)
	p.PaidAmount = p.PaidAmount.Add(amount)
	p.recalculateTotals()
	p.MarkChanged()
	p.AddDomainEvent(NewPaymentRecordedEvent(AggregateTypePurchaseOrder, p.ID, p.TenantID, p.OrderID, amount, p.RemainingAmount))
	return payment, nil
}

// IsFullyPaid reports whether nothing remains to be paid
func (p *PurchaseOrder) IsFullyPaid() bool {
	return p.TotalAmount.IsPositive() && p.RemainingAmount.IsZero()
}

func (p *PurchaseOrder) transitionTo(target PurchaseOrderStatus) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move purchase order from %s to %s", p.Status, target))
	}
	oldStatus := p.Status
	p.Status = target
	p.MarkChanged()
	p.AddDomainEvent(NewDocumentStatusChangedEvent(AggregateTypePurchaseOrder, p.ID, p.TenantID, p.OrderID, string(oldStatus), string(target)))
	return nil
}

func (p *PurchaseOrder) ensureDraft(action string) error {
	if p.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s a %s purchase order", action, p.Status))
	}
	return nil
}

func (p *PurchaseOrder) recalculateTotals() {
	p.TotalAmount = CalculateSubtotal(p.Items)
	remaining := p.TotalAmount.Sub(p.PaidAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	p.RemainingAmount = remaining
}
