package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// ShippingCosts holds the cost components of a shipment
type ShippingCosts struct {
	Freight   decimal.Decimal
	Insurance decimal.Decimal
	Handling  decimal.Decimal
	Override  *decimal.Decimal // replaces the computed sum when set
}

// Sum returns freight + insurance + handling
func (c ShippingCosts) Sum() decimal.Decimal {
	return c.Freight.Add(c.Insurance).Add(c.Handling)
}

// Total returns the override when set, otherwise Sum
func (c ShippingCosts) Total() decimal.Decimal {
	if c.Override != nil {
		return *c.Override
	}
	return c.Sum()
}

func (c ShippingCosts) validate() error {
	components := []struct {
		name  string
		value decimal.Decimal
	}{
		{"freight", c.Freight},
		{"insurance", c.Insurance},
		{"handling", c.Handling},
	}
	for _, comp := range components {
		if comp.value.IsNegative() {
			return shared.NewDomainError("INVALID_SHIPPING_COST", fmt.Sprintf("Shipping %s cannot be negative", comp.name))
		}
	}
	if c.Override != nil && c.Override.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost override cannot be negative")
	}
	return nil
}

// ShipmentLine selects an invoiced item and the quantity shipped
type ShipmentLine struct {
	Description string
	Quantity    int
}

// ShippingInvoice documents the shipment of goods for an order
type ShippingInvoice struct {
	shared.TenantAggregateRoot
	OrderID           uuid.UUID
	InvoiceID         *uuid.UUID
	ShippingNumber    string
	Carrier           string
	TrackingNumber    string
	ShipDate          *time.Time
	Costs             ShippingCosts
	TotalShippingCost decimal.Decimal
	Items             []LineItem
	Notes             string
}

// NewShippingInvoice creates a shipment record with its total cost computed
func NewShippingInvoice(tenantID, orderID uuid.UUID, shippingNumber string, costs ShippingCosts) (*ShippingInvoice, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if shippingNumber == "" {
		return nil, shared.NewDomainError("INVALID_SHIPPING_NUMBER", "Shipping number cannot be empty")
	}
	if err := costs.validate(); err != nil {
		return nil, err
	}

	s := &ShippingInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		ShippingNumber:      shippingNumber,
		Costs:               costs,
		TotalShippingCost:   costs.Total(),
		Items:               make([]LineItem, 0),
	}
	s.AddDomainEvent(NewDocumentLinkedEvent(EventTypeShippingInvoiceCreated, AggregateTypeShippingInvoice, s.ID, tenantID, orderID, shippingNumber))

	return s, nil
}

// SetTracking sets carrier, tracking number and ship date
func (s *ShippingInvoice) SetTracking(carrier, trackingNumber string, shipDate *time.Time) error {
	if len(carrier) > 100 {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier cannot exceed 100 characters")
	}
	if len(trackingNumber) > 100 {
		return shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number cannot exceed 100 characters")
	}
	s.Carrier = strings.TrimSpace(carrier)
	s.TrackingNumber = strings.TrimSpace(trackingNumber)
	s.ShipDate = shipDate
	s.MarkChanged()
	return nil
}

// SetCosts replaces the cost components and recomputes the total
func (s *ShippingInvoice) SetCosts(costs ShippingCosts) error {
	if err := costs.validate(); err != nil {
		return err
	}
	s.Costs = costs
	s.TotalShippingCost = costs.Total()
	s.MarkChanged()
	return nil
}

// ShipFromInvoice draws the shipped items from a sales invoice of the same
// order. Each line must name an invoiced description, and the lines of one
// description together may not exceed its invoiced quantity. Invoice items
// sharing a description count as one, priced by the first of them.
func (s *ShippingInvoice) ShipFromInvoice(invoice *SalesInvoice, lines []ShipmentLine) error {
	if invoice == nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice is required")
	}
	if invoice.OrderID != s.OrderID {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice belongs to a different order")
	}
	if invoice.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot ship against a cancelled invoice")
	}

	invoiced := make(map[string]*invoicedQuantity, len(invoice.Items))
	for _, item := range invoice.Items {
		if q, ok := invoiced[item.Description]; ok {
			q.quantity += item.Quantity
			continue
		}
		invoiced[item.Description] = &invoicedQuantity{quantity: item.Quantity, unitPrice: item.UnitPrice}
	}

	shipped := make(map[string]int, len(lines))
	items := make([]LineItem, 0, len(lines))
	for idx, line := range lines {
		source, ok := invoiced[line.Description]
		if !ok {
			return shared.NewDomainError("ITEM_NOT_INVOICED", fmt.Sprintf("Item %q is not on invoice %s", line.Description, invoice.InvoiceNumber))
		}
		item, err := newLineItemAt(idx, line.Description, line.Quantity, source.unitPrice)
		if err != nil {
			return err
		}
		shipped[line.Description] += line.Quantity
		if shipped[line.Description] > source.quantity {
			return shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Cannot ship %d of %q, only %d invoiced", shipped[line.Description], line.Description, source.quantity))
		}
		items = append(items, *item)
	}

	invoiceID := invoice.ID
	s.InvoiceID = &invoiceID
	s.Items = items
	s.MarkChanged()
	return nil
}

type invoicedQuantity struct {
	quantity  int
	unitPrice decimal.Decimal
}

// GoodsValue returns the invoiced value of the shipped items
func (s *ShippingInvoice) GoodsValue() decimal.Decimal {
	return CalculateSubtotal(s.Items)
}
