package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// QuotationService records supplier quotations for standard workflow orders
type QuotationService struct {
	quotationRepo  trade.QuotationRepository
	orderRepo      trade.OrderRepository
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(quotationRepo trade.QuotationRepository, orderRepo trade.OrderRepository, supplierRepo partner.SupplierRepository, logger *zap.Logger) *QuotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for quotation events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a draft quotation. Fast-track orders skip quotations and
// refuse them.
func (s *QuotationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	order, err := loadOpenOrder(ctx, s.orderRepo, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.WorkflowType != trade.WorkflowTypeStandard {
		return nil, shared.NewDomainError("INVALID_STATE", "Quotations are only gathered for standard workflow orders")
	}
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	items, err := trade.BuildLineItems(toLineItemInputs(req.Items))
	if err != nil {
		return nil, err
	}
	number, err := s.quotationRepo.GenerateQuotationNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	quotation, err := trade.NewQuotation(tenantID, order.ID, number, supplier.ID, supplier.Name, items, req.ValidUntil)
	if err != nil {
		return nil, err
	}
	quotation.Notes = req.Notes

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}
	s.logger.Info("Quotation recorded",
		zap.String("order_number", order.OrderNumber),
		zap.String("quotation_number", quotation.QuotationNumber),
		zap.String("total", quotation.TotalAmount.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, quotation)

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// GetByID retrieves a quotation
func (s *QuotationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// ListByOrder returns the quotations gathered for an order
func (s *QuotationService) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]QuotationResponse, error) {
	quotations, err := s.quotationRepo.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return ToQuotationResponses(quotations), nil
}

// UpdateStatus sends, accepts or rejects a quotation
func (s *QuotationService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req StatusRequest) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := quotation.TransitionTo(trade.QuotationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}
	s.logger.Info("Quotation status changed",
		zap.String("quotation_number", quotation.QuotationNumber),
		zap.String("status", string(quotation.Status)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, quotation)

	response := ToQuotationResponse(quotation)
	return &response, nil
}
