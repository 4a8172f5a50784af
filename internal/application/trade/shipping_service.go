package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ShippingService records shipments of invoiced goods
type ShippingService struct {
	shippingRepo   trade.ShippingInvoiceRepository
	orderRepo      trade.OrderRepository
	invoiceRepo    trade.SalesInvoiceRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewShippingService creates a new ShippingService
func NewShippingService(shippingRepo trade.ShippingInvoiceRepository, orderRepo trade.OrderRepository, invoiceRepo trade.SalesInvoiceRepository, logger *zap.Logger) *ShippingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingService{
		shippingRepo: shippingRepo,
		orderRepo:    orderRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for shipment events
func (s *ShippingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a shipment. Items can only be shipped against an invoice
// of the same order.
func (s *ShippingService) Create(ctx context.Context, tenantID uuid.UUID, req CreateShippingInvoiceRequest) (*ShippingInvoiceResponse, error) {
	order, err := loadOpenOrder(ctx, s.orderRepo, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if len(req.Items) > 0 && req.InvoiceID == nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Shipped items must be drawn from an invoice")
	}

	number, err := s.shippingRepo.GenerateShippingNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	shipment, err := trade.NewShippingInvoice(tenantID, order.ID, number, trade.ShippingCosts{
		Freight:   req.Freight,
		Insurance: req.Insurance,
		Handling:  req.Handling,
		Override:  req.CostOverride,
	})
	if err != nil {
		return nil, err
	}
	if err := shipment.SetTracking(req.Carrier, req.TrackingNumber, req.ShipDate); err != nil {
		return nil, err
	}
	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		lines := make([]trade.ShipmentLine, len(req.Items))
		for i, item := range req.Items {
			lines[i] = trade.ShipmentLine{Description: item.Description, Quantity: item.Quantity}
		}
		if err := shipment.ShipFromInvoice(invoice, lines); err != nil {
			return nil, err
		}
	}
	shipment.Notes = req.Notes

	if err := s.shippingRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}
	s.logger.Info("Shipment recorded",
		zap.String("order_number", order.OrderNumber),
		zap.String("shipping_number", shipment.ShippingNumber),
		zap.String("shipping_cost", shipment.TotalShippingCost.String()),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, shipment)

	response := ToShippingInvoiceResponse(shipment)
	return &response, nil
}

// GetByID retrieves a shipment
func (s *ShippingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ShippingInvoiceResponse, error) {
	shipment, err := s.shippingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToShippingInvoiceResponse(shipment)
	return &response, nil
}

// List retrieves shipments, optionally for one order
func (s *ShippingService) List(ctx context.Context, tenantID uuid.UUID, filter ShippingListFilter) ([]ShippingInvoiceResponse, int64, error) {
	domainFilter := filter.toDomain()
	if err := parseUUIDFilter(domainFilter, "order_id", filter.OrderID); err != nil {
		return nil, 0, err
	}
	shipments, err := s.shippingRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.shippingRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToShippingInvoiceResponses(shipments), total, nil
}
