package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[trade.OrderStatus]int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[trade.OrderStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockQuotationRepository is a mock implementation of trade.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Quotation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.Quotation, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *trade.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuotationRepository) GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of trade.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *MockPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockSalesInvoiceRepository is a mock implementation of trade.SalesInvoiceRepository
type MockSalesInvoiceRepository struct {
	mock.Mock
}

func (m *MockSalesInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesInvoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.SalesInvoice, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesInvoiceRepository) Save(ctx context.Context, inv *trade.SalesInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockSalesInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockShippingInvoiceRepository is a mock implementation of trade.ShippingInvoiceRepository
type MockShippingInvoiceRepository struct {
	mock.Mock
}

func (m *MockShippingInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.ShippingInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ShippingInvoice), args.Error(1)
}

func (m *MockShippingInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.ShippingInvoice, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]trade.ShippingInvoice), args.Error(1)
}

func (m *MockShippingInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShippingInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.ShippingInvoice, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]trade.ShippingInvoice), args.Error(1)
}

func (m *MockShippingInvoiceRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShippingInvoiceRepository) Save(ctx context.Context, s *trade.ShippingInvoice) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShippingInvoiceRepository) GenerateShippingNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockClientRepository stubs client lookups
type MockClientRepository struct {
	mock.Mock
	partner.ClientRepository
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

// MockSupplierRepository stubs supplier lookups
type MockSupplierRepository struct {
	mock.Mock
	partner.SupplierRepository
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// tradeFixture wires every trade service against fresh mocks
type tradeFixture struct {
	tenantID   uuid.UUID
	orders     *MockOrderRepository
	clients    *MockClientRepository
	suppliers  *MockSupplierRepository
	quotations *MockQuotationRepository
	pos        *MockPurchaseOrderRepository
	invoices   *MockSalesInvoiceRepository
	shipments  *MockShippingInvoiceRepository
	publisher  *recordingPublisher
}

func newTradeFixture() *tradeFixture {
	return &tradeFixture{
		tenantID:   uuid.New(),
		orders:     new(MockOrderRepository),
		clients:    new(MockClientRepository),
		suppliers:  new(MockSupplierRepository),
		quotations: new(MockQuotationRepository),
		pos:        new(MockPurchaseOrderRepository),
		invoices:   new(MockSalesInvoiceRepository),
		shipments:  new(MockShippingInvoiceRepository),
		publisher:  &recordingPublisher{},
	}
}

func (f *tradeFixture) repos() OrderRepositories {
	return OrderRepositories{
		Orders:           f.orders,
		Clients:          f.clients,
		Quotations:       f.quotations,
		PurchaseOrders:   f.pos,
		Invoices:         f.invoices,
		ShippingInvoices: f.shipments,
	}
}

// order registers a stored order with no pending events
func (f *tradeFixture) order(workflow trade.WorkflowType) *trade.Order {
	o, err := trade.NewOrder(f.tenantID, "ORD-2026-00001", uuid.New(), "Acme", "Textiles", workflow)
	if err != nil {
		panic(err)
	}
	o.ClearDomainEvents()
	f.orders.On("FindByIDForTenant", mock.Anything, f.tenantID, o.ID).Return(o, nil)
	return o
}

func (f *tradeFixture) supplier(active bool) *partner.Supplier {
	s, err := partner.NewSupplier(f.tenantID, "SUP", "Shanghai Textiles")
	if err != nil {
		panic(err)
	}
	if !active {
		_ = s.Deactivate()
	}
	s.ClearDomainEvents()
	f.suppliers.On("FindByIDForTenant", mock.Anything, f.tenantID, s.ID).Return(s, nil)
	return s
}
