package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
)

// =============================================================================
// Shared DTOs
// =============================================================================

// LineItemRequest carries one priced row. Quantity and unit price minimums
// are enforced by the domain so violations surface as INVALID_LINE_ITEM.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func toLineItemInputs(reqs []LineItemRequest) []trade.LineItemInput {
	inputs := make([]trade.LineItemInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = trade.LineItemInput{Description: r.Description, Quantity: r.Quantity, UnitPrice: r.UnitPrice}
	}
	return inputs
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// ToLineItemResponses converts domain line items
func ToLineItemResponses(items []trade.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return out
}

// RecordPaymentRequest records money paid against a purchase order or invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    *time.Time      `json:"paid_at"`
	Method    string          `json:"method" binding:"required,oneof=bank_transfer letter_of_credit cash cheque card"`
	Reference string          `json:"reference" binding:"max=100"`
}

func (r RecordPaymentRequest) paidAt() time.Time {
	if r.PaidAt == nil {
		return time.Now()
	}
	return *r.PaidAt
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paid_at"`
	Method      string          `json:"method"`
	MethodLabel string          `json:"method_label"`
	Reference   string          `json:"reference"`
}

// ToPaymentResponses converts domain payments
func ToPaymentResponses(payments []trade.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = PaymentResponse{
			ID:          p.ID,
			Amount:      p.Amount,
			PaidAt:      p.PaidAt,
			Method:      string(p.Method),
			MethodLabel: p.Method.Label(),
			Reference:   p.Reference,
		}
	}
	return out
}

// StatusRequest asks for a status transition
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFilter holds paging options shared by the document lists
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toDomain() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}.Normalize()
}

// =============================================================================
// Order DTOs
// =============================================================================

// CreateOrderRequest represents a request to open an order for a client
type CreateOrderRequest struct {
	ClientID       uuid.UUID        `json:"client_id" binding:"required"`
	ProjectName    string           `json:"project_name" binding:"required,min=1,max=200"`
	WorkflowType   string           `json:"workflow_type" binding:"required,workflow_type"`
	Currency       string           `json:"currency" binding:"omitempty,len=3"`
	Priority       string           `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Requirements   string           `json:"requirements" binding:"max=5000"`
}

// UpdateOrderRequest represents a request to edit an order. Nil fields are unchanged.
type UpdateOrderRequest struct {
	ProjectName    *string          `json:"project_name" binding:"omitempty,min=1,max=200"`
	Requirements   *string          `json:"requirements" binding:"omitempty,max=5000"`
	Currency       *string          `json:"currency" binding:"omitempty,len=3"`
	Priority       *string          `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// OrderListFilter represents filter options for listing orders
type OrderListFilter struct {
	ListFilter
	Status          string `form:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
	ClientID        string `form:"client_id" binding:"omitempty,uuid"`
	WorkflowType    string `form:"workflow_type" binding:"omitempty,workflow_type"`
	Priority        string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	IncludeArchived bool   `form:"include_archived"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID       `json:"id"`
	OrderNumber       string          `json:"order_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	ClientName        string          `json:"client_name"`
	ProjectName       string          `json:"project_name"`
	WorkflowType      string          `json:"workflow_type"`
	WorkflowTypeLabel string          `json:"workflow_type_label"`
	Status            string          `json:"status"`
	StatusLabel       string          `json:"status_label"`
	Currency          string          `json:"currency"`
	Priority          string          `json:"priority"`
	PriorityLabel     string          `json:"priority_label"`
	CommissionRate    decimal.Decimal `json:"commission_rate"`
	Requirements      string          `json:"requirements"`
	Archived          bool            `json:"archived"`
	ArchivedAt        *time.Time      `json:"archived_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		ClientID:          o.ClientID,
		ClientName:        o.ClientName,
		ProjectName:       o.ProjectName,
		WorkflowType:      string(o.WorkflowType),
		WorkflowTypeLabel: o.WorkflowType.Label(),
		Status:            string(o.Status),
		StatusLabel:       o.Status.Label(),
		Currency:          o.Currency.String(),
		Priority:          string(o.Priority),
		PriorityLabel:     o.Priority.Label(),
		CommissionRate:    o.CommissionRate,
		Requirements:      o.Requirements,
		Archived:          o.Archived,
		ArchivedAt:        o.ArchivedAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// OrderStatusCount is the number of orders in one status
type OrderStatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

// OrderSummaryResponse counts non-archived orders by status
type OrderSummaryResponse struct {
	Statuses []OrderStatusCount `json:"statuses"`
	Total    int64              `json:"total"`
}

// =============================================================================
// Quotation DTOs
// =============================================================================

// CreateQuotationRequest records a supplier quotation for an order
type CreateQuotationRequest struct {
	OrderID    uuid.UUID         `json:"order_id" binding:"required"`
	SupplierID uuid.UUID         `json:"supplier_id" binding:"required"`
	Items      []LineItemRequest `json:"items" binding:"dive"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes" binding:"max=2000"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	SupplierID      uuid.UUID          `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name"`
	QuotationNumber string             `json:"quotation_number"`
	Items           []LineItemResponse `json:"items"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	ValidUntil      *time.Time         `json:"valid_until,omitempty"`
	Expired         bool               `json:"expired"`
	Status          string             `json:"status"`
	StatusLabel     string             `json:"status_label"`
	Notes           string             `json:"notes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToQuotationResponse converts a domain Quotation to QuotationResponse
func ToQuotationResponse(q *trade.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:              q.ID,
		OrderID:         q.OrderID,
		SupplierID:      q.SupplierID,
		SupplierName:    q.SupplierName,
		QuotationNumber: q.QuotationNumber,
		Items:           ToLineItemResponses(q.Items),
		TotalAmount:     q.TotalAmount,
		ValidUntil:      q.ValidUntil,
		Expired:         q.IsExpired(time.Now()),
		Status:          string(q.Status),
		StatusLabel:     q.Status.Label(),
		Notes:           q.Notes,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

// ToQuotationResponses converts a slice of quotations
func ToQuotationResponses(quotations []trade.Quotation) []QuotationResponse {
	out := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		out[i] = ToQuotationResponse(&quotations[i])
	}
	return out
}

// =============================================================================
// Purchase order DTOs
// =============================================================================

// CreatePurchaseOrderRequest raises a draft purchase order against an order
type CreatePurchaseOrderRequest struct {
	OrderID      uuid.UUID         `json:"order_id" binding:"required"`
	SupplierID   uuid.UUID         `json:"supplier_id" binding:"required"`
	Items        []LineItemRequest `json:"items" binding:"dive"`
	PaymentTerms string            `json:"payment_terms" binding:"max=200"`
	DeliveryDate *time.Time        `json:"delivery_date"`
}

// PurchaseOrderListFilter represents filter options for listing purchase orders
type PurchaseOrderListFilter struct {
	ListFilter
	OrderID    string `form:"order_id" binding:"omitempty,uuid"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=draft sent confirmed received"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	SupplierID      uuid.UUID          `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name"`
	PONumber        string             `json:"po_number"`
	Items           []LineItemResponse `json:"items"`
	PaymentTerms    string             `json:"payment_terms"`
	DeliveryDate    *time.Time         `json:"delivery_date,omitempty"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
	Payments        []PaymentResponse  `json:"payments"`
	Status          string             `json:"status"`
	StatusLabel     string             `json:"status_label"`
	SentAt          *time.Time         `json:"sent_at,omitempty"`
	ConfirmedAt     *time.Time         `json:"confirmed_at,omitempty"`
	ReceivedAt      *time.Time         `json:"received_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(p *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:              p.ID,
		OrderID:         p.OrderID,
		SupplierID:      p.SupplierID,
		SupplierName:    p.SupplierName,
		PONumber:        p.PONumber,
		Items:           ToLineItemResponses(p.Items),
		PaymentTerms:    p.PaymentTerms,
		DeliveryDate:    p.DeliveryDate,
		TotalAmount:     p.TotalAmount,
		PaidAmount:      p.PaidAmount,
		RemainingAmount: p.RemainingAmount,
		Payments:        ToPaymentResponses(p.Payments),
		Status:          string(p.Status),
		StatusLabel:     p.Status.Label(),
		SentAt:          p.SentAt,
		ConfirmedAt:     p.ConfirmedAt,
		ReceivedAt:      p.ReceivedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToPurchaseOrderResponses converts a slice of purchase orders
func ToPurchaseOrderResponses(pos []trade.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, len(pos))
	for i := range pos {
		out[i] = ToPurchaseOrderResponse(&pos[i])
	}
	return out
}

// =============================================================================
// Sales invoice DTOs
// =============================================================================

// CreateInvoiceRequest drafts a sales invoice for an order. A nil
// commission rate defaults to the order's rate.
type CreateInvoiceRequest struct {
	OrderID         uuid.UUID         `json:"order_id" binding:"required"`
	PurchaseOrderID *uuid.UUID        `json:"purchase_order_id"`
	Items           []LineItemRequest `json:"items" binding:"dive"`
	CommissionRate  *decimal.Decimal  `json:"commission_rate"`
	IssueDate       *time.Time        `json:"issue_date"`
	DueDate         *time.Time        `json:"due_date"`
	Notes           string            `json:"notes" binding:"max=2000"`
}

// UpdateCommissionRequest changes a draft invoice's commission rate
type UpdateCommissionRequest struct {
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// InvoiceListFilter represents filter options for listing invoices
type InvoiceListFilter struct {
	ListFilter
	OrderID string `form:"order_id" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=draft sent paid overdue partially_paid cancelled"`
}

// InvoiceResponse represents a sales invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	PurchaseOrderID *uuid.UUID         `json:"purchase_order_id,omitempty"`
	InvoiceNumber   string             `json:"invoice_number"`
	Items           []LineItemResponse `json:"items"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	CommissionRate  decimal.Decimal    `json:"commission_rate"`
	CommissionFee   decimal.Decimal    `json:"commission_fee"`
	Total           decimal.Decimal    `json:"total"`
	PaidAmount      decimal.Decimal    `json:"paid_amount"`
	Outstanding     decimal.Decimal    `json:"outstanding"`
	Payments        []PaymentResponse  `json:"payments"`
	IssueDate       time.Time          `json:"issue_date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	Status          string             `json:"status"`
	StatusLabel     string             `json:"status_label"`
	Notes           string             `json:"notes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// ToInvoiceResponse converts a domain SalesInvoice to InvoiceResponse
func ToInvoiceResponse(i *trade.SalesInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              i.ID,
		OrderID:         i.OrderID,
		PurchaseOrderID: i.PurchaseOrderID,
		InvoiceNumber:   i.InvoiceNumber,
		Items:           ToLineItemResponses(i.Items),
		Subtotal:        i.Subtotal,
		CommissionRate:  i.CommissionRate,
		CommissionFee:   i.CommissionFee,
		Total:           i.Total,
		PaidAmount:      i.PaidAmount,
		Outstanding:     i.Outstanding(),
		Payments:        ToPaymentResponses(i.Payments),
		IssueDate:       i.IssueDate,
		DueDate:         i.DueDate,
		Status:          string(i.Status),
		StatusLabel:     i.Status.Label(),
		Notes:           i.Notes,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
		Version:         i.Version,
	}
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []trade.SalesInvoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}

// =============================================================================
// Shipping invoice DTOs
// =============================================================================

// ShipmentLineRequest selects an invoiced item by description
type ShipmentLineRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity"`
}

// CreateShippingInvoiceRequest records a shipment. When InvoiceID is set
// the shipped items are drawn from that invoice.
type CreateShippingInvoiceRequest struct {
	OrderID        uuid.UUID             `json:"order_id" binding:"required"`
	InvoiceID      *uuid.UUID            `json:"invoice_id"`
	Carrier        string                `json:"carrier" binding:"max=100"`
	TrackingNumber string                `json:"tracking_number" binding:"max=100"`
	ShipDate       *time.Time            `json:"ship_date"`
	Freight        decimal.Decimal       `json:"freight"`
	Insurance      decimal.Decimal       `json:"insurance"`
	Handling       decimal.Decimal       `json:"handling"`
	CostOverride   *decimal.Decimal      `json:"cost_override"`
	Items          []ShipmentLineRequest `json:"items" binding:"dive"`
	Notes          string                `json:"notes" binding:"max=2000"`
}

// ShippingListFilter represents filter options for listing shipments
type ShippingListFilter struct {
	ListFilter
	OrderID string `form:"order_id" binding:"omitempty,uuid"`
}

// ShippingInvoiceResponse represents a shipment in API responses
type ShippingInvoiceResponse struct {
	ID                uuid.UUID          `json:"id"`
	OrderID           uuid.UUID          `json:"order_id"`
	InvoiceID         *uuid.UUID         `json:"invoice_id,omitempty"`
	ShippingNumber    string             `json:"shipping_number"`
	Carrier           string             `json:"carrier"`
	TrackingNumber    string             `json:"tracking_number"`
	ShipDate          *time.Time         `json:"ship_date,omitempty"`
	Freight           decimal.Decimal    `json:"freight"`
	Insurance         decimal.Decimal    `json:"insurance"`
	Handling          decimal.Decimal    `json:"handling"`
	CostOverride      *decimal.Decimal   `json:"cost_override,omitempty"`
	TotalShippingCost decimal.Decimal    `json:"total_shipping_cost"`
	Items             []LineItemResponse `json:"items"`
	GoodsValue        decimal.Decimal    `json:"goods_value"`
	Notes             string             `json:"notes"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ToShippingInvoiceResponse converts a domain ShippingInvoice to ShippingInvoiceResponse
func ToShippingInvoiceResponse(s *trade.ShippingInvoice) ShippingInvoiceResponse {
	return ShippingInvoiceResponse{
		ID:                s.ID,
		OrderID:           s.OrderID,
		InvoiceID:         s.InvoiceID,
		ShippingNumber:    s.ShippingNumber,
		Carrier:           s.Carrier,
		TrackingNumber:    s.TrackingNumber,
		ShipDate:          s.ShipDate,
		Freight:           s.Costs.Freight,
		Insurance:         s.Costs.Insurance,
		Handling:          s.Costs.Handling,
		CostOverride:      s.Costs.Override,
		TotalShippingCost: s.TotalShippingCost,
		Items:             ToLineItemResponses(s.Items),
		GoodsValue:        s.GoodsValue(),
		Notes:             s.Notes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToShippingInvoiceResponses converts a slice of shipments
func ToShippingInvoiceResponses(shipments []trade.ShippingInvoice) []ShippingInvoiceResponse {
	out := make([]ShippingInvoiceResponse, len(shipments))
	for i := range shipments {
		out[i] = ToShippingInvoiceResponse(&shipments[i])
	}
	return out
}

// =============================================================================
// Calculation and workflow DTOs
// =============================================================================

// CalculateTotalsRequest prices a list of items without persisting anything.
// With Clamp set, out-of-range quantities and prices are raised to their
// minimums instead of rejected.
type CalculateTotalsRequest struct {
	Items          []LineItemRequest `json:"items" binding:"dive"`
	CommissionRate decimal.Decimal   `json:"commission_rate"`
	Clamp          bool              `json:"clamp"`
}

// TotalsResponse is the computed money summary of a document
type TotalsResponse struct {
	Items          []LineItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	CommissionRate decimal.Decimal    `json:"commission_rate"`
	CommissionFee  decimal.Decimal    `json:"commission_fee"`
	Total          decimal.Decimal    `json:"total"`
}

// WorkflowResponse is the derived step list of an order
type WorkflowResponse struct {
	OrderID      uuid.UUID            `json:"order_id"`
	WorkflowType string               `json:"workflow_type"`
	Steps        []trade.WorkflowStep `json:"steps"`
	Progress     float64              `json:"progress"`
	NextStep     string               `json:"next_step,omitempty"`
	Complete     bool                 `json:"complete"`
}

// ToWorkflowResponse converts a derived Workflow
func ToWorkflowResponse(w trade.Workflow) WorkflowResponse {
	resp := WorkflowResponse{
		OrderID:      w.OrderID,
		WorkflowType: string(w.WorkflowType),
		Steps:        w.Steps,
		Progress:     w.Progress(),
		Complete:     w.IsComplete(),
	}
	if next, ok := w.NextStep(); ok {
		resp.NextStep = next.Name
	}
	return resp
}
