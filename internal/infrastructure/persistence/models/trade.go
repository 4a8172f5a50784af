package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared/valueobject"
	"github.com/tradedesk/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	TenantAggregateModel
	OrderNumber    string               `gorm:"type:varchar(50);not null;index"`
	ClientID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	ClientName     string               `gorm:"type:varchar(200);not null"`
	ProjectName    string               `gorm:"type:varchar(200);not null"`
	WorkflowType   trade.WorkflowType   `gorm:"type:varchar(20);not null"`
	Status         trade.OrderStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Priority       trade.Priority       `gorm:"type:varchar(10);not null;default:'medium'"`
	CommissionRate decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
	Requirements   string               `gorm:"type:text"`
	Archived       bool                 `gorm:"not null;default:false;index"`
	ArchivedAt     *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		ClientID:            m.ClientID,
		ClientName:          m.ClientName,
		ProjectName:         m.ProjectName,
		WorkflowType:        m.WorkflowType,
		Status:              m.Status,
		Currency:            m.Currency,
		Priority:            m.Priority,
		CommissionRate:      m.CommissionRate,
		Requirements:        m.Requirements,
		Archived:            m.Archived,
		ArchivedAt:          m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.ClientID = o.ClientID
	m.ClientName = o.ClientName
	m.ProjectName = o.ProjectName
	m.WorkflowType = o.WorkflowType
	m.Status = o.Status
	m.Currency = o.Currency
	m.Priority = o.Priority
	m.CommissionRate = o.CommissionRate
	m.Requirements = o.Requirements
	m.Archived = o.Archived
	m.ArchivedAt = o.ArchivedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// LineItemColumns are the columns of a priced document row. Position keeps
// the caller's ordering.
type LineItemColumns struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// ToDomain converts the columns to a domain LineItem
func (c LineItemColumns) ToDomain() trade.LineItem {
	return trade.LineItem{
		ID:          c.ID,
		Description: c.Description,
		Quantity:    c.Quantity,
		UnitPrice:   c.UnitPrice,
		Total:       c.Total,
	}
}

func lineItemColumns(position int, i trade.LineItem) LineItemColumns {
	return LineItemColumns{
		ID:          i.ID,
		Position:    position,
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Total:       i.Total,
	}
}

// PaymentColumns are the columns of a recorded payment
type PaymentColumns struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Amount    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaidAt    time.Time           `gorm:"not null"`
	Method    trade.PaymentMethod `gorm:"type:varchar(30);not null"`
	Reference string              `gorm:"type:varchar(100)"`
}

// ToDomain converts the columns to a domain Payment
func (c PaymentColumns) ToDomain() trade.Payment {
	return trade.Payment{
		ID:        c.ID,
		Amount:    c.Amount,
		PaidAt:    c.PaidAt,
		Method:    c.Method,
		Reference: c.Reference,
	}
}

func paymentColumns(p trade.Payment) PaymentColumns {
	return PaymentColumns{
		ID:        p.ID,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
		Method:    p.Method,
		Reference: p.Reference,
	}
}

// QuotationModel is the persistence model for the Quotation aggregate root
type QuotationModel struct {
	TenantAggregateModel
	OrderID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName    string                `gorm:"type:varchar(200);not null"`
	QuotationNumber string                `gorm:"type:varchar(50);not null;index"`
	Items           []QuotationItemModel  `gorm:"foreignKey:QuotationID;references:ID"`
	TotalAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ValidUntil      *time.Time
	Status          trade.QuotationStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes           string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// QuotationItemModel is a line of a quotation
type QuotationItemModel struct {
	LineItemColumns `gorm:"embedded"`
	QuotationID     uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (QuotationItemModel) TableName() string {
	return "quotation_items"
}

// ToDomain converts the persistence model to a domain Quotation
func (m *QuotationModel) ToDomain() *trade.Quotation {
	items := make([]trade.LineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.LineItemColumns.ToDomain()
	}
	return &trade.Quotation{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderID:             m.OrderID,
		SupplierID:          m.SupplierID,
		SupplierName:        m.SupplierName,
		QuotationNumber:     m.QuotationNumber,
		Items:               items,
		TotalAmount:         m.TotalAmount,
		ValidUntil:          m.ValidUntil,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Quotation
func (m *QuotationModel) FromDomain(q *trade.Quotation) {
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.OrderID = q.OrderID
	m.SupplierID = q.SupplierID
	m.SupplierName = q.SupplierName
	m.QuotationNumber = q.QuotationNumber
	m.TotalAmount = q.TotalAmount
	m.ValidUntil = q.ValidUntil
	m.Status = q.Status
	m.Notes = q.Notes
	m.Items = make([]QuotationItemModel, len(q.Items))
	for i, item := range q.Items {
		m.Items[i] = QuotationItemModel{LineItemColumns: lineItemColumns(i, item), QuotationID: q.ID}
	}
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation
func QuotationModelFromDomain(q *trade.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderID         uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SupplierName    string                      `gorm:"type:varchar(200);not null"`
	PONumber        string                      `gorm:"column:po_number;type:varchar(50);not null;index"`
	Items           []PurchaseOrderItemModel    `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Payments        []PurchaseOrderPaymentModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	PaymentTerms    string                      `gorm:"type:varchar(200)"`
	DeliveryDate    *time.Time
	TotalAmount     decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount      decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingAmount decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Status          trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	SentAt          *time.Time
	ConfirmedAt     *time.Time
	ReceivedAt      *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItemModel is a line of a purchase order
type PurchaseOrderItemModel struct {
	LineItemColumns `gorm:"embedded"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrderPaymentModel is a payment made to the supplier
type PurchaseOrderPaymentModel struct {
	PaymentColumns  `gorm:"embedded"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PurchaseOrderPaymentModel) TableName() string {
	return "purchase_order_payments"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	items := make([]trade.LineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.LineItemColumns.ToDomain()
	}
	payments := make([]trade.Payment, len(m.Payments))
	for i, p := range m.Payments {
		payments[i] = p.PaymentColumns.ToDomain()
	}
	return &trade.PurchaseOrder{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderID:             m.OrderID,
		SupplierID:          m.SupplierID,
		SupplierName:        m.SupplierName,
		PONumber:            m.PONumber,
		Items:               items,
		PaymentTerms:        m.PaymentTerms,
		DeliveryDate:        m.DeliveryDate,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		RemainingAmount:     m.RemainingAmount,
		Payments:            payments,
		Status:              m.Status,
		SentAt:              m.SentAt,
		ConfirmedAt:         m.ConfirmedAt,
		ReceivedAt:          m.ReceivedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder
func (m *PurchaseOrderModel) FromDomain(p *trade.PurchaseOrder) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.OrderID = p.OrderID
	m.SupplierID = p.SupplierID
	m.SupplierName = p.SupplierName
	m.PONumber = p.PONumber
	m.PaymentTerms = p.PaymentTerms
	m.DeliveryDate = p.DeliveryDate
	m.TotalAmount = p.TotalAmount
	m.PaidAmount = p.PaidAmount
	m.RemainingAmount = p.RemainingAmount
	m.Status = p.Status
	m.SentAt = p.SentAt
	m.ConfirmedAt = p.ConfirmedAt
	m.ReceivedAt = p.ReceivedAt
	m.Items = make([]PurchaseOrderItemModel, len(p.Items))
	for i, item := range p.Items {
		m.Items[i] = PurchaseOrderItemModel{LineItemColumns: lineItemColumns(i, item), PurchaseOrderID: p.ID}
	}
	m.Payments = make([]PurchaseOrderPaymentModel, len(p.Payments))
	for i, pay := range p.Payments {
		m.Payments[i] = PurchaseOrderPaymentModel{PaymentColumns: paymentColumns(pay), PurchaseOrderID: p.ID}
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(p *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(p)
	return m
}

// SalesInvoiceModel is the persistence model for the SalesInvoice aggregate root
type SalesInvoiceModel struct {
	TenantAggregateModel
	OrderID         uuid.UUID                  `gorm:"type:uuid;not null;index"`
	PurchaseOrderID *uuid.UUID                 `gorm:"type:uuid;index"`
	InvoiceNumber   string                     `gorm:"type:varchar(50);not null;index"`
	Items           []SalesInvoiceItemModel    `gorm:"foreignKey:SalesInvoiceID;references:ID"`
	Payments        []SalesInvoicePaymentModel `gorm:"foreignKey:SalesInvoiceID;references:ID"`
	Subtotal        decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	CommissionRate  decimal.Decimal            `gorm:"type:decimal(5,2);not null;default:0"`
	CommissionFee   decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount      decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	IssueDate       time.Time                  `gorm:"not null"`
	DueDate         *time.Time
	Status          trade.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes           string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SalesInvoiceModel) TableName() string {
	return "sales_invoices"
}

// SalesInvoiceItemModel is a line of a sales invoice
type SalesInvoiceItemModel struct {
	LineItemColumns `gorm:"embedded"`
	SalesInvoiceID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (SalesInvoiceItemModel) TableName() string {
	return "sales_invoice_items"
}

// SalesInvoicePaymentModel is a client payment against an invoice
type SalesInvoicePaymentModel struct {
	PaymentColumns `gorm:"embedded"`
	SalesInvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (SalesInvoicePaymentModel) TableName() string {
	return "sales_invoice_payments"
}

// ToDomain converts the persistence model to a domain SalesInvoice
func (m *SalesInvoiceModel) ToDomain() *trade.SalesInvoice {
	items := make([]trade.LineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.LineItemColumns.ToDomain()
	}
	payments := make([]trade.Payment, len(m.Payments))
	for i, p := range m.Payments {
		payments[i] = p.PaymentColumns.ToDomain()
	}
	return &trade.SalesInvoice{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderID:             m.OrderID,
		PurchaseOrderID:     m.PurchaseOrderID,
		InvoiceNumber:       m.InvoiceNumber,
		Items:               items,
		Subtotal:            m.Subtotal,
		CommissionRate:      m.CommissionRate,
		CommissionFee:       m.CommissionFee,
		Total:               m.Total,
		PaidAmount:          m.PaidAmount,
		Payments:            payments,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain SalesInvoice
func (m *SalesInvoiceModel) FromDomain(inv *trade.SalesInvoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.OrderID = inv.OrderID
	m.PurchaseOrderID = inv.PurchaseOrderID
	m.InvoiceNumber = inv.InvoiceNumber
	m.Subtotal = inv.Subtotal
	m.CommissionRate = inv.CommissionRate
	m.CommissionFee = inv.CommissionFee
	m.Total = inv.Total
	m.PaidAmount = inv.PaidAmount
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.Notes = inv.Notes
	m.Items = make([]SalesInvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i] = SalesInvoiceItemModel{LineItemColumns: lineItemColumns(i, item), SalesInvoiceID: inv.ID}
	}
	m.Payments = make([]SalesInvoicePaymentModel, len(inv.Payments))
	for i, pay := range inv.Payments {
		m.Payments[i] = SalesInvoicePaymentModel{PaymentColumns: paymentColumns(pay), SalesInvoiceID: inv.ID}
	}
}

// SalesInvoiceModelFromDomain creates a new persistence model from a domain SalesInvoice
func SalesInvoiceModelFromDomain(inv *trade.SalesInvoice) *SalesInvoiceModel {
	m := &SalesInvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ShippingInvoiceModel is the persistence model for the ShippingInvoice aggregate root
type ShippingInvoiceModel struct {
	TenantAggregateModel
	OrderID           uuid.UUID                  `gorm:"type:uuid;not null;index"`
	InvoiceID         *uuid.UUID                 `gorm:"type:uuid;index"`
	ShippingNumber    string                     `gorm:"type:varchar(50);not null;index"`
	Carrier           string                     `gorm:"type:varchar(100)"`
	TrackingNumber    string                     `gorm:"type:varchar(100)"`
	ShipDate          *time.Time
	Freight           decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Insurance         decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Handling          decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	CostOverride      decimal.NullDecimal        `gorm:"type:decimal(18,4)"`
	TotalShippingCost decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Items             []ShippingInvoiceItemModel `gorm:"foreignKey:ShippingInvoiceID;references:ID"`
	Notes             string                     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ShippingInvoiceModel) TableName() string {
	return "shipping_invoices"
}

// ShippingInvoiceItemModel is a shipped line
type ShippingInvoiceItemModel struct {
	LineItemColumns   `gorm:"embedded"`
	ShippingInvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ShippingInvoiceItemModel) TableName() string {
	return "shipping_invoice_items"
}

// ToDomain converts the persistence model to a domain ShippingInvoice
func (m *ShippingInvoiceModel) ToDomain() *trade.ShippingInvoice {
	items := make([]trade.LineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.LineItemColumns.ToDomain()
	}
	costs := trade.ShippingCosts{
		Freight:   m.Freight,
		Insurance: m.Insurance,
		Handling:  m.Handling,
	}
	if m.CostOverride.Valid {
		override := m.CostOverride.Decimal
		costs.Override = &override
	}
	return &trade.ShippingInvoice{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderID:             m.OrderID,
		InvoiceID:           m.InvoiceID,
		ShippingNumber:      m.ShippingNumber,
		Carrier:             m.Carrier,
		TrackingNumber:      m.TrackingNumber,
		ShipDate:            m.ShipDate,
		Costs:               costs,
		TotalShippingCost:   m.TotalShippingCost,
		Items:               items,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain ShippingInvoice
func (m *ShippingInvoiceModel) FromDomain(s *trade.ShippingInvoice) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.OrderID = s.OrderID
	m.InvoiceID = s.InvoiceID
	m.ShippingNumber = s.ShippingNumber
	m.Carrier = s.Carrier
	m.TrackingNumber = s.TrackingNumber
	m.ShipDate = s.ShipDate
	m.Freight = s.Costs.Freight
	m.Insurance = s.Costs.Insurance
	m.Handling = s.Costs.Handling
	m.CostOverride = decimal.NullDecimal{}
	if s.Costs.Override != nil {
		m.CostOverride = decimal.NewNullDecimal(*s.Costs.Override)
	}
	m.TotalShippingCost = s.TotalShippingCost
	m.Notes = s.Notes
	m.Items = make([]ShippingInvoiceItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i] = ShippingInvoiceItemModel{LineItemColumns: lineItemColumns(i, item), ShippingInvoiceID: s.ID}
	}
}

// ShippingInvoiceModelFromDomain creates a new persistence model from a domain ShippingInvoice
func ShippingInvoiceModelFromDomain(s *trade.ShippingInvoice) *ShippingInvoiceModel {
	m := &ShippingInvoiceModel{}
	m.FromDomain(s)
	return m
}
