package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue,
		InvoiceStatusPartiallyPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Label returns the display label
func (s InvoiceStatus) Label() string {
	return shared.DisplayLabel(string(s))
}

// IsTerminal reports whether no further transitions are possible
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Overdue is only ever set by an explicit command.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusPartiallyPaid ||
			target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusPartiallyPaid:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusPartiallyPaid || target == InvoiceStatusCancelled
	}
	return false
}

// AcceptsPayment reports whether payments may be recorded in this status
func (s InvoiceStatus) AcceptsPayment() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid || s == InvoiceStatusOverdue
}

// SalesInvoice bills the client for an order. Subtotal, commission fee and
// total are derived from the items and commission rate and never set directly.
type SalesInvoice struct {
	shared.TenantAggregateRoot
	OrderID         uuid.UUID
	PurchaseOrderID *uuid.UUID
	InvoiceNumber   string
	Items           []LineItem
	Subtotal        decimal.Decimal
	CommissionRate  decimal.Decimal
	CommissionFee   decimal.Decimal
	Total           decimal.Decimal
	PaidAmount      decimal.Decimal
	Payments        []Payment
	IssueDate       time.Time
	DueDate         *time.Time
	Status          InvoiceStatus
	Notes           string
}

// NewSalesInvoice creates a draft invoice issued today
func NewSalesInvoice(tenantID, orderID uuid.UUID, invoiceNumber string, commissionRate decimal.Decimal) (*SalesInvoice, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}

	inv := &SalesInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		InvoiceNumber:       invoiceNumber,
		Items:               make([]LineItem, 0),
		PaidAmount:          decimal.Zero,
		Payments:            make([]Payment, 0),
		IssueDate:           time.Now(),
		Status:              InvoiceStatusDraft,
	}
	if err := inv.applyTotals(commissionRate); err != nil {
		return nil, err
	}
	inv.AddDomainEvent(NewDocumentLinkedEvent(EventTypeSalesInvoiceCreated, AggregateTypeSalesInvoice, inv.ID, tenantID, orderID, invoiceNumber))

	return inv, nil
}

// LinkPurchaseOrder associates the invoice with the purchase order it resells
func (i *SalesInvoice) LinkPurchaseOrder(purchaseOrderID uuid.UUID) error {
	if err := i.ensureDraft("relink"); err != nil {
		return err
	}
	i.PurchaseOrderID = &purchaseOrderID
	i.MarkChanged()
	return nil
}

// AddItem appends a line item. Only allowed in draft.
func (i *SalesInvoice) AddItem(description string, quantity int, unitPrice decimal.Decimal) (*LineItem, error) {
	if err := i.ensureDraft("add items to"); err != nil {
		return nil, err
	}
	items, item, err := addLineItem(i.Items, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	i.Items = items
	i.recalculate()
	return item, nil
}

// UpdateItem replaces a line item's values. Only allowed in draft.
func (i *SalesInvoice) UpdateItem(itemID uuid.UUID, description string, quantity int, unitPrice decimal.Decimal) error {
	if err := i.ensureDraft("update items in"); err != nil {
		return err
	}
	if err := updateLineItem(i.Items, itemID, description, quantity, unitPrice); err != nil {
		return err
	}
	i.recalculate()
	return nil
}

// RemoveItem deletes a line item. Only allowed in draft.
func (i *SalesInvoice) RemoveItem(itemID uuid.UUID) error {
	if err := i.ensureDraft("remove items from"); err != nil {
		return err
	}
	items, err := removeLineItem(i.Items, itemID)
	if err != nil {
		return err
	}
	i.Items = items
	i.recalculate()
	return nil
}

// SetCommissionRate changes the commission percentage. Only allowed in draft.
func (i *SalesInvoice) SetCommissionRate(rate decimal.Decimal) error {
	if err := i.ensureDraft("change the commission of"); err != nil {
		return err
	}
	if err := i.applyTotals(rate); err != nil {
		return err
	}
	i.MarkChanged()
	return nil
}

// SetDates sets the issue and due dates
func (i *SalesInvoice) SetDates(issueDate time.Time, dueDate *time.Time) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change dates of a %s invoice", i.Status))
	}
	if dueDate != nil && dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the issue date")
	}
	i.IssueDate = issueDate
	i.DueDate = dueDate
	i.MarkChanged()
	return nil
}

// TransitionTo applies an externally commanded status change
func (i *SalesInvoice) TransitionTo(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid invoice status: %s", target))
	}
	if !i.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move invoice from %s to %s", i.Status, target))
	}
	if target == InvoiceStatusSent && len(i.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send an invoice without items")
	}
	i.setStatus(target)
	return nil
}

// RecordPayment registers a client payment. The invoice moves to paid when
// nothing is outstanding, otherwise to partially paid.
func (i *SalesInvoice) RecordPayment(amount decimal.Decimal, paidAt time.Time, method PaymentMethod, reference string) (*Payment, error) {
	if !i.Status.AcceptsPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payments against a %s invoice", i.Status))
	}
	payment, err := newPayment(amount, i.Outstanding(), paidAt, method, reference)
	if err != nil {
		return nil, err
	}

	i.Payments = append(i.Payments, *payment)
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.MarkChanged()
	i.AddDomainEvent(NewPaymentRecordedEvent(AggregateTypeSalesInvoice, i.ID, i.TenantID, i.OrderID, amount, i.Outstanding()))

	next := InvoiceStatusPartiallyPaid
	if i.Outstanding().IsZero() {
		next = InvoiceStatusPaid
	}
	if next != i.Status {
		i.setStatus(next)
	}
	return payment, nil
}

// Outstanding returns the unpaid part of the total
func (i *SalesInvoice) Outstanding() decimal.Decimal {
	outstanding := i.Total.Sub(i.PaidAmount)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// Totals returns the computed money summary
func (i *SalesInvoice) Totals() DocumentTotals {
	return DocumentTotals{
		Subtotal:       i.Subtotal,
		CommissionRate: i.CommissionRate,
		CommissionFee:  i.CommissionFee,
		Total:          i.Total,
	}
}

func (i *SalesInvoice) setStatus(target InvoiceStatus) {
	oldStatus := i.Status
	i.Status = target
	i.MarkChanged()
	i.AddDomainEvent(NewDocumentStatusChangedEvent(AggregateTypeSalesInvoice, i.ID, i.TenantID, i.OrderID, string(oldStatus), string(target)))
}

func (i *SalesInvoice) recalculate() {
	// rate was validated when set
	_ = i.applyTotals(i.CommissionRate)
	i.MarkChanged()
}

func (i *SalesInvoice) applyTotals(rate decimal.Decimal) error {
	totals, err := CalculateDocumentTotals(i.Items, rate)
	if err != nil {
		return err
	}
	i.Subtotal = totals.Subtotal
	i.CommissionRate = totals.CommissionRate
	i.CommissionFee = totals.CommissionFee
	i.Total = totals.Total
	return nil
}

func (i *SalesInvoice) ensureDraft(action string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s a %s invoice", action, i.Status))
	}
	return nil
}
