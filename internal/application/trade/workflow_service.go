package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/trade"
)

// WorkflowService derives an order's workflow from its linked documents
type WorkflowService struct {
	orderRepo     trade.OrderRepository
	quotationRepo trade.QuotationRepository
	poRepo        trade.PurchaseOrderRepository
	invoiceRepo   trade.SalesInvoiceRepository
	shippingRepo  trade.ShippingInvoiceRepository
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(repos OrderRepositories) *WorkflowService {
	return &WorkflowService{
		orderRepo:     repos.Orders,
		quotationRepo: repos.Quotations,
		poRepo:        repos.PurchaseOrders,
		invoiceRepo:   repos.Invoices,
		shippingRepo:  repos.ShippingInvoices,
	}
}

// ForOrder loads the order's documents and builds its workflow. Quotations
// take part only for standard workflow orders.
func (s *WorkflowService) ForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*WorkflowResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	var docs trade.WorkflowDocuments
	if order.WorkflowType == trade.WorkflowTypeStandard {
		quotations, err := s.quotationRepo.FindByOrder(ctx, tenantID, orderID)
		if err != nil {
			return nil, err
		}
		if quotations == nil {
			quotations = []trade.Quotation{}
		}
		docs.Quotations = quotations
	}
	if docs.PurchaseOrders, err = s.poRepo.FindByOrder(ctx, tenantID, orderID); err != nil {
		return nil, err
	}
	if docs.Invoices, err = s.invoiceRepo.FindByOrder(ctx, tenantID, orderID); err != nil {
		return nil, err
	}
	if docs.ShippingInvoices, err = s.shippingRepo.FindByOrder(ctx, tenantID, orderID); err != nil {
		return nil, err
	}

	response := ToWorkflowResponse(trade.BuildWorkflow(order, docs))
	return &response, nil
}
