package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindAllForTenant lists orders. Recognised filter keys: "status",
	// "client_id", "workflow_type", "priority", "include_archived".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountForTenant counts orders matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus returns the number of non-archived orders per status
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[OrderStatus]int64, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// DeleteForTenant permanently removes an order
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// GenerateOrderNumber returns the next ORD-YYYY-NNNNN number
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]Quotation, error)
	CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error)
	Save(ctx context.Context, quotation *Quotation) error
	GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindAllForTenant lists purchase orders. Recognised filter keys: "order_id", "supplier_id", "status".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]PurchaseOrder, error)
	CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	GeneratePONumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// SalesInvoiceRepository defines the interface for sales invoice persistence
type SalesInvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesInvoice, error)

	// FindAllForTenant lists invoices. Recognised filter keys: "order_id", "status".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesInvoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]SalesInvoice, error)
	CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error)
	Save(ctx context.Context, invoice *SalesInvoice) error
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// ShippingInvoiceRepository defines the interface for shipping invoice persistence
type ShippingInvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ShippingInvoice, error)

	// FindAllForTenant lists shipments. Recognised filter keys: "order_id".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ShippingInvoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]ShippingInvoice, error)
	CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error)
	Save(ctx context.Context, shipment *ShippingInvoice) error
	GenerateShippingNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
