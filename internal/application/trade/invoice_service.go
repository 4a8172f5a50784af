package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// InvoiceService handles client sales invoices
type InvoiceService struct {
	invoiceRepo    trade.SalesInvoiceRepository
	orderRepo      trade.OrderRepository
	poRepo         trade.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo trade.SalesInvoiceRepository, orderRepo trade.OrderRepository, poRepo trade.PurchaseOrderRepository, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		poRepo:      poRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for invoice events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create drafts an invoice. The commission rate defaults to the order's.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	order, err := loadOpenOrder(ctx, s.orderRepo, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if _, err := trade.BuildLineItems(toLineItemInputs(req.Items)); err != nil {
		return nil, err
	}

	rate := order.CommissionRate
	if req.CommissionRate != nil {
		rate = *req.CommissionRate
	}
	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoice, err := trade.NewSalesInvoice(tenantID, order.ID, number, rate)
	if err != nil {
		return nil, err
	}

	if req.PurchaseOrderID != nil {
		po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, *req.PurchaseOrderID)
		if err != nil {
			return nil, err
		}
		if po.OrderID != order.ID {
			return nil, shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order belongs to a different order")
		}
		if err := invoice.LinkPurchaseOrder(po.ID); err != nil {
			return nil, err
		}
	}
	for _, item := range req.Items {
		if _, err := invoice.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.IssueDate != nil || req.DueDate != nil {
		issue := invoice.IssueDate
		if req.IssueDate != nil {
			issue = *req.IssueDate
		}
		if err := invoice.SetDates(issue, req.DueDate); err != nil {
			return nil, err
		}
	}
	invoice.Notes = req.Notes

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.logger.Info("Sales invoice created",
		zap.String("order_number", order.OrderNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices, optionally for one order or status
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := filter.toDomain()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if err := parseUUIDFilter(domainFilter, "order_id", filter.OrderID); err != nil {
		return nil, 0, err
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceResponses(invoices), total, nil
}

// AddItem appends a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, id uuid.UUID, req LineItemRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *trade.SalesInvoice) error {
		_, err := inv.AddItem(req.Description, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItem replaces a line item of a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, tenantID, id, itemID uuid.UUID, req LineItemRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *trade.SalesInvoice) error {
		return inv.UpdateItem(itemID, req.Description, req.Quantity, req.UnitPrice)
	})
}

// RemoveItem deletes a line item of a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *trade.SalesInvoice) error {
		return inv.RemoveItem(itemID)
	})
}

// UpdateCommission changes a draft invoice's commission rate
func (s *InvoiceService) UpdateCommission(ctx context.Context, tenantID, id uuid.UUID, req UpdateCommissionRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *trade.SalesInvoice) error {
		return inv.SetCommissionRate(req.CommissionRate)
	})
}

// UpdateStatus applies an explicit status change. Overdue is only set here.
func (s *InvoiceService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req StatusRequest) (*InvoiceResponse, error) {
	resp, err := s.mutate(ctx, tenantID, id, func(inv *trade.SalesInvoice) error {
		return inv.TransitionTo(trade.InvoiceStatus(req.Status))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sales invoice status changed",
		zap.String("invoice_number", resp.InvoiceNumber),
		zap.String("status", resp.Status),
	)
	return resp, nil
}

// RecordPayment registers a client payment and moves the invoice to paid
// or partially paid.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	resp, err := s.mutate(ctx, tenantID, id, func(inv *trade.SalesInvoice) error {
		_, err := inv.RecordPayment(req.Amount, req.paidAt(), trade.PaymentMethod(req.Method), req.Reference)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Client payment recorded",
		zap.String("invoice_number", resp.InvoiceNumber),
		zap.String("amount", req.Amount.String()),
		zap.String("outstanding", resp.Outstanding.String()),
	)
	return resp, nil
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*trade.SalesInvoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(invoice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}
