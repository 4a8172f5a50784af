package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase orders placed with suppliers
type PurchaseOrderService struct {
	poRepo         trade.PurchaseOrderRepository
	orderRepo      trade.OrderRepository
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(poRepo trade.PurchaseOrderRepository, orderRepo trade.OrderRepository, supplierRepo partner.SupplierRepository, logger *zap.Logger) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		poRepo:       poRepo,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for purchase order events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create raises a draft purchase order with an active supplier
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := loadOpenOrder(ctx, s.orderRepo, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot raise a purchase order with an inactive supplier")
	}

	// validate every item before consuming a number
	if _, err := trade.BuildLineItems(toLineItemInputs(req.Items)); err != nil {
		return nil, err
	}
	number, err := s.poRepo.GeneratePONumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	po, err := trade.NewPurchaseOrder(tenantID, order.ID, number, supplier.ID, supplier.Name)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if _, err := po.AddItem(item.Description, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.PaymentTerms != "" || req.DeliveryDate != nil {
		if err := po.SetTerms(req.PaymentTerms, req.DeliveryDate); err != nil {
			return nil, err
		}
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("po_number", po.PONumber),
		zap.String("total", po.TotalAmount.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// GetByID retrieves a purchase order
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(po)
	return &response, nil
}

// List retrieves purchase orders, optionally for one order or supplier
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := filter.toDomain()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if err := parseUUIDFilter(domainFilter, "order_id", filter.OrderID); err != nil {
		return nil, 0, err
	}
	if err := parseUUIDFilter(domainFilter, "supplier_id", filter.SupplierID); err != nil {
		return nil, 0, err
	}

	pos, err := s.poRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.poRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderResponses(pos), total, nil
}

// AddItem appends a line item to a draft purchase order
func (s *PurchaseOrderService) AddItem(ctx context.Context, tenantID, id uuid.UUID, req LineItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, id, func(po *trade.PurchaseOrder) error {
		_, err := po.AddItem(req.Description, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItem replaces a line item of a draft purchase order
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, tenantID, id, itemID uuid.UUID, req LineItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, id, func(po *trade.PurchaseOrder) error {
		return po.UpdateItem(itemID, req.Description, req.Quantity, req.UnitPrice)
	})
}

// RemoveItem deletes a line item of a draft purchase order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, id, func(po *trade.PurchaseOrder) error {
		return po.RemoveItem(itemID)
	})
}

// Send issues the purchase order to the supplier
func (s *PurchaseOrderService) Send(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, id, (*trade.PurchaseOrder).Send)
}

// Confirm records the supplier's acceptance
func (s *PurchaseOrderService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, id, (*trade.PurchaseOrder).Confirm)
}

// Receive records delivery of the goods
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, tenantID, id, (*trade.PurchaseOrder).Receive)
}

// RecordPayment registers a payment to the supplier
func (s *PurchaseOrderService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req RecordPaymentRequest) (*PurchaseOrderResponse, error) {
	resp, err := s.mutate(ctx, tenantID, id, func(po *trade.PurchaseOrder) error {
		_, err := po.RecordPayment(req.Amount, req.paidAt(), trade.PaymentMethod(req.Method), req.Reference)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Supplier payment recorded",
		zap.String("po_number", resp.PONumber),
		zap.String("amount", req.Amount.String()),
		zap.String("remaining", resp.RemainingAmount.String()),
	)
	return resp, nil
}

// mutate loads the purchase order, applies fn and saves the result
func (s *PurchaseOrderService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(po); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, po)

	response := ToPurchaseOrderResponse(po)
	return &response, nil
}
