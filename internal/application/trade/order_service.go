package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderRepositories bundles the repositories an order's lifecycle touches
type OrderRepositories struct {
	Orders           trade.OrderRepository
	Clients          partner.ClientRepository
	Quotations       trade.QuotationRepository
	PurchaseOrders   trade.PurchaseOrderRepository
	Invoices         trade.SalesInvoiceRepository
	ShippingInvoices trade.ShippingInvoiceRepository
}

// OrderService handles order lifecycle operations
type OrderService struct {
	repos          OrderRepositories
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(repos OrderRepositories, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{repos: repos, logger: logger}
}

// SetEventPublisher sets the event publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a pending order for an active client
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	client, err := s.repos.Clients.FindByIDForTenant(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot open an order for an inactive client")
	}

	number, err := s.repos.Orders.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(tenantID, number, client.ID, client.Name, req.ProjectName, trade.WorkflowType(req.WorkflowType))
	if err != nil {
		return nil, err
	}
	if req.Requirements != "" {
		if err := order.UpdateDetails(order.ProjectName, req.Requirements); err != nil {
			return nil, err
		}
	}
	if req.Currency != "" {
		if err := order.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}
	if req.Priority != "" {
		if err := order.SetPriority(trade.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.CommissionRate != nil {
		if err := order.SetCommissionRate(*req.CommissionRate); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("workflow_type", string(order.WorkflowType)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.repos.Orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders. Archived orders are excluded unless requested.
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := filter.toDomain()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.WorkflowType != "" {
		domainFilter.Filters["workflow_type"] = filter.WorkflowType
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.IncludeArchived {
		domainFilter.Filters["include_archived"] = true
	}
	if err := parseUUIDFilter(domainFilter, "client_id", filter.ClientID); err != nil {
		return nil, 0, err
	}

	orders, err := s.repos.Orders.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Orders.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Update edits the order's details, currency, priority or commission rate
func (s *OrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.repos.Orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if req.ProjectName != nil || req.Requirements != nil {
		project, requirements := order.ProjectName, order.Requirements
		if req.ProjectName != nil {
			project = *req.ProjectName
		}
		if req.Requirements != nil {
			requirements = *req.Requirements
		}
		if err := order.UpdateDetails(project, requirements); err != nil {
			return nil, err
		}
	}
	if req.Currency != nil {
		if err := order.SetCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		if err := order.SetPriority(trade.Priority(*req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.CommissionRate != nil {
		if err := order.SetCommissionRate(*req.CommissionRate); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Orders.Save(ctx, order); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves the order along its lifecycle
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, req StatusRequest) (*OrderResponse, error) {
	order, err := s.repos.Orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.TransitionTo(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.repos.Orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Archive soft-deletes an order
func (s *OrderService) Archive(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.setArchived(ctx, tenantID, orderID, true)
}

// Restore brings an archived order back into the lists
func (s *OrderService) Restore(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.setArchived(ctx, tenantID, orderID, false)
}

func (s *OrderService) setArchived(ctx context.Context, tenantID, orderID uuid.UUID, archived bool) (*OrderResponse, error) {
	order, err := s.repos.Orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if archived {
		err = order.Archive()
	} else {
		err = order.Restore()
	}
	if err != nil {
		return nil, err
	}
	if err := s.repos.Orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order archive flag changed",
		zap.String("order_number", order.OrderNumber),
		zap.Bool("archived", archived),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete archives the order, or removes it permanently when hard is set.
// A hard delete requires a pending, non-archived order with no linked documents.
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID, hard bool) error {
	if !hard {
		_, err := s.Archive(ctx, tenantID, orderID)
		return err
	}

	order, err := s.repos.Orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if !order.CanHardDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only pending, non-archived orders can be deleted permanently")
	}
	linked, err := s.countLinkedDocuments(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if linked > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an order with linked documents; archive it instead")
	}

	if err := s.repos.Orders.DeleteForTenant(ctx, tenantID, orderID); err != nil {
		return err
	}
	s.logger.Info("Order deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber),
	)
	return nil
}

// Summary counts non-archived orders per status
func (s *OrderService) Summary(ctx context.Context, tenantID uuid.UUID) (*OrderSummaryResponse, error) {
	counts, err := s.repos.Orders.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	summary := &OrderSummaryResponse{Statuses: make([]OrderStatusCount, 0, len(trade.AllOrderStatuses))}
	for _, status := range trade.AllOrderStatuses {
		n := counts[status]
		summary.Statuses = append(summary.Statuses, OrderStatusCount{
			Status: string(status),
			Label:  status.Label(),
			Count:  n,
		})
		summary.Total += n
	}
	return summary, nil
}

func (s *OrderService) countLinkedDocuments(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	counters := []func(context.Context, uuid.UUID, uuid.UUID) (int64, error){
		s.repos.Quotations.CountByOrder,
		s.repos.PurchaseOrders.CountByOrder,
		s.repos.Invoices.CountByOrder,
		s.repos.ShippingInvoices.CountByOrder,
	}
	var total int64
	for _, count := range counters {
		n, err := count(ctx, tenantID, orderID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
