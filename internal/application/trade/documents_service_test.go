package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuotationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records quotation for standard order", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewQuotationService(f.quotations, f.orders, f.suppliers, nil)
		svc.SetEventPublisher(f.publisher)
		order := f.order(trade.WorkflowTypeStandard)
		supplier := f.supplier(true)
		f.quotations.On("GenerateQuotationNumber", ctx, f.tenantID).Return("QUO-2026-00001", nil)
		f.quotations.On("Save", ctx, mock.AnythingOfType("*trade.Quotation")).Return(nil)

		resp, err := svc.Create(ctx, f.tenantID, CreateQuotationRequest{
			OrderID:    order.ID,
			SupplierID: supplier.ID,
			Items: []LineItemRequest{
				{Description: "Cotton rolls", Quantity: 10, UnitPrice: dec("12.50")},
				{Description: "Dye", Quantity: 2, UnitPrice: dec("40")},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(dec("205")))
		assert.Equal(t, "Shanghai Textiles", resp.SupplierName)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, []string{trade.EventTypeQuotationCreated}, f.publisher.types())
	})

	t.Run("fast-track orders take no quotations", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewQuotationService(f.quotations, f.orders, f.suppliers, nil)
		order := f.order(trade.WorkflowTypeFastTrack)

		_, err := svc.Create(ctx, f.tenantID, CreateQuotationRequest{OrderID: order.ID, SupplierID: uuid.New()})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("reports the offending item index", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewQuotationService(f.quotations, f.orders, f.suppliers, nil)
		order := f.order(trade.WorkflowTypeStandard)
		supplier := f.supplier(true)

		_, err := svc.Create(ctx, f.tenantID, CreateQuotationRequest{
			OrderID:    order.ID,
			SupplierID: supplier.ID,
			Items: []LineItemRequest{
				{Description: "ok", Quantity: 1, UnitPrice: dec("1")},
				{Description: "bad", Quantity: 0, UnitPrice: dec("1")},
			},
		})

		var itemErr *trade.InvalidLineItemError
		require.ErrorAs(t, err, &itemErr)
		assert.Equal(t, 1, itemErr.Index)
		assert.Equal(t, "quantity", itemErr.Field)
		f.quotations.AssertNotCalled(t, "GenerateQuotationNumber", mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService(t *testing.T) {
	ctx := context.Background()

	newPO := func(t *testing.T, f *tradeFixture) *trade.PurchaseOrder {
		t.Helper()
		po, err := trade.NewPurchaseOrder(f.tenantID, uuid.New(), "PO-2026-00001", uuid.New(), "Supplier")
		require.NoError(t, err)
		_, err = po.AddItem("Widgets", 4, dec("25"))
		require.NoError(t, err)
		po.ClearDomainEvents()
		f.pos.On("FindByIDForTenant", ctx, f.tenantID, po.ID).Return(po, nil)
		f.pos.On("Save", ctx, po).Return(nil)
		return po
	}

	t.Run("create computes totals", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewPurchaseOrderService(f.pos, f.orders, f.suppliers, nil)
		order := f.order(trade.WorkflowTypeFastTrack)
		supplier := f.supplier(true)
		f.pos.On("GeneratePONumber", ctx, f.tenantID).Return("PO-2026-00003", nil)
		f.pos.On("Save", ctx, mock.AnythingOfType("*trade.PurchaseOrder")).Return(nil)

		resp, err := svc.Create(ctx, f.tenantID, CreatePurchaseOrderRequest{
			OrderID:      order.ID,
			SupplierID:   supplier.ID,
			Items:        []LineItemRequest{{Description: "Widgets", Quantity: 3, UnitPrice: dec("19.99")}},
			PaymentTerms: "Net 30",
		})

		require.NoError(t, err)
		assert.Equal(t, "PO-2026-00003", resp.PONumber)
		assert.True(t, resp.TotalAmount.Equal(dec("59.97")))
		assert.True(t, resp.RemainingAmount.Equal(dec("59.97")))
		assert.Equal(t, "Net 30", resp.PaymentTerms)
	})

	t.Run("inactive supplier refused", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewPurchaseOrderService(f.pos, f.orders, f.suppliers, nil)
		order := f.order(trade.WorkflowTypeFastTrack)
		supplier := f.supplier(false)

		_, err := svc.Create(ctx, f.tenantID, CreatePurchaseOrderRequest{OrderID: order.ID, SupplierID: supplier.ID})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("archived order refuses documents", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewPurchaseOrderService(f.pos, f.orders, f.suppliers, nil)
		order := f.order(trade.WorkflowTypeFastTrack)
		require.NoError(t, order.Archive())

		_, err := svc.Create(ctx, f.tenantID, CreatePurchaseOrderRequest{OrderID: order.ID, SupplierID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("items are frozen once sent", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewPurchaseOrderService(f.pos, f.orders, f.suppliers, nil)
		po := newPO(t, f)

		resp, err := svc.Send(ctx, f.tenantID, po.ID)
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)

		_, err = svc.AddItem(ctx, f.tenantID, po.ID, LineItemRequest{Description: "More", Quantity: 1, UnitPrice: dec("1")})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("update item recomputes total", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewPurchaseOrderService(f.pos, f.orders, f.suppliers, nil)
		po := newPO(t, f)

		resp, err := svc.UpdateItem(ctx, f.tenantID, po.ID, po.Items[0].ID, LineItemRequest{Description: "Widgets", Quantity: 10, UnitPrice: dec("25")})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(dec("250")))
	})

	t.Run("payments never exceed the remaining amount", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewPurchaseOrderService(f.pos, f.orders, f.suppliers, nil)
		svc.SetEventPublisher(f.publisher)
		po := newPO(t, f)
		require.NoError(t, po.Send())
		po.ClearDomainEvents()

		resp, err := svc.RecordPayment(ctx, f.tenantID, po.ID, RecordPaymentRequest{Amount: dec("60"), Method: "bank_transfer"})
		require.NoError(t, err)
		assert.True(t, resp.PaidAmount.Equal(dec("60")))
		assert.True(t, resp.RemainingAmount.Equal(dec("40")))
		assert.Equal(t, []string{trade.EventTypePaymentRecorded}, f.publisher.types())

		_, err = svc.RecordPayment(ctx, f.tenantID, po.ID, RecordPaymentRequest{Amount: dec("40.01"), Method: "cash"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", domainErr.Code)
	})
}

func TestInvoiceService(t *testing.T) {
	ctx := context.Background()

	t.Run("create defaults commission to the order rate", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewInvoiceService(f.invoices, f.orders, f.pos, nil)
		order := f.order(trade.WorkflowTypeFastTrack)
		require.NoError(t, order.SetCommissionRate(dec("5")))
		f.invoices.On("GenerateInvoiceNumber", ctx, f.tenantID).Return("INV-2026-00001", nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*trade.SalesInvoice")).Return(nil)

		resp, err := svc.Create(ctx, f.tenantID, CreateInvoiceRequest{
			OrderID: order.ID,
			Items:   []LineItemRequest{{Description: "Widgets", Quantity: 10, UnitPrice: dec("100")}},
		})

		require.NoError(t, err)
		assert.True(t, resp.Subtotal.Equal(dec("1000")))
		assert.True(t, resp.CommissionRate.Equal(dec("5")))
		assert.True(t, resp.CommissionFee.Equal(dec("50")))
		assert.True(t, resp.Total.Equal(dec("1050")))
	})

	t.Run("linked purchase order must belong to the order", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewInvoiceService(f.invoices, f.orders, f.pos, nil)
		order := f.order(trade.WorkflowTypeFastTrack)
		po, _ := trade.NewPurchaseOrder(f.tenantID, uuid.New(), "PO-1", uuid.New(), "S")
		f.pos.On("FindByIDForTenant", ctx, f.tenantID, po.ID).Return(po, nil)
		f.invoices.On("GenerateInvoiceNumber", ctx, f.tenantID).Return("INV-2026-00002", nil)

		_, err := svc.Create(ctx, f.tenantID, CreateInvoiceRequest{OrderID: order.ID, PurchaseOrderID: &po.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PURCHASE_ORDER", domainErr.Code)
	})

	t.Run("commission change recomputes total", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewInvoiceService(f.invoices, f.orders, f.pos, nil)
		inv, _ := trade.NewSalesInvoice(f.tenantID, uuid.New(), "INV-1", decimal.Zero)
		_, err := inv.AddItem("Widgets", 2, dec("50"))
		require.NoError(t, err)
		f.invoices.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.invoices.On("Save", ctx, inv).Return(nil)

		resp, err := svc.UpdateCommission(ctx, f.tenantID, inv.ID, UpdateCommissionRequest{CommissionRate: dec("12.5")})

		require.NoError(t, err)
		assert.True(t, resp.CommissionFee.Equal(dec("12.5")))
		assert.True(t, resp.Total.Equal(dec("112.5")))
	})

	t.Run("partial then full payment", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewInvoiceService(f.invoices, f.orders, f.pos, nil)
		inv, _ := trade.NewSalesInvoice(f.tenantID, uuid.New(), "INV-1", decimal.Zero)
		_, err := inv.AddItem("Widgets", 1, dec("300"))
		require.NoError(t, err)
		f.invoices.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.invoices.On("Save", ctx, inv).Return(nil)

		resp, err := svc.UpdateStatus(ctx, f.tenantID, inv.ID, StatusRequest{Status: "sent"})
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)

		resp, err = svc.RecordPayment(ctx, f.tenantID, inv.ID, RecordPaymentRequest{Amount: dec("100"), Method: "cheque"})
		require.NoError(t, err)
		assert.Equal(t, "partially_paid", resp.Status)
		assert.Equal(t, "Partially Paid", resp.StatusLabel)
		assert.True(t, resp.Outstanding.Equal(dec("200")))

		resp, err = svc.RecordPayment(ctx, f.tenantID, inv.ID, RecordPaymentRequest{Amount: dec("200"), Method: "cheque"})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.True(t, resp.Outstanding.IsZero())
	})

	t.Run("draft invoice cannot go overdue", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewInvoiceService(f.invoices, f.orders, f.pos, nil)
		inv, _ := trade.NewSalesInvoice(f.tenantID, uuid.New(), "INV-1", decimal.Zero)

		f.invoices.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)

		_, err := svc.UpdateStatus(ctx, f.tenantID, inv.ID, StatusRequest{Status: "overdue"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewInvoiceService(f.invoices, f.orders, f.pos, nil)
		inv, _ := trade.NewSalesInvoice(f.tenantID, uuid.New(), "INV-1", decimal.Zero)
		f.invoices.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.invoices.On("Save", ctx, inv).Return(errors.New("db down"))

		_, err := svc.AddItem(ctx, f.tenantID, inv.ID, LineItemRequest{Description: "x", Quantity: 1, UnitPrice: dec("1")})
		assert.EqualError(t, err, "db down")
	})
}

func TestShippingService_Create(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*tradeFixture, *ShippingService, *trade.Order, *trade.SalesInvoice) {
		t.Helper()
		f := newTradeFixture()
		svc := NewShippingService(f.shipments, f.orders, f.invoices, nil)
		order := f.order(trade.WorkflowTypeFastTrack)
		inv, err := trade.NewSalesInvoice(f.tenantID, order.ID, "INV-1", decimal.Zero)
		require.NoError(t, err)
		_, err = inv.AddItem("Widgets", 10, dec("20"))
		require.NoError(t, err)
		f.invoices.On("FindByIDForTenant", ctx, f.tenantID, inv.ID).Return(inv, nil)
		f.shipments.On("GenerateShippingNumber", ctx, f.tenantID).Return("SHP-2026-00001", nil)
		return f, svc, order, inv
	}

	t.Run("ships invoiced items and sums costs", func(t *testing.T) {
		f, svc, order, inv := setup(t)
		f.shipments.On("Save", ctx, mock.AnythingOfType("*trade.ShippingInvoice")).Return(nil)

		resp, err := svc.Create(ctx, f.tenantID, CreateShippingInvoiceRequest{
			OrderID:   order.ID,
			InvoiceID: &inv.ID,
			Carrier:   "Maersk",
			Freight:   dec("300"),
			Insurance: dec("25.50"),
			Handling:  dec("10"),
			Items:     []ShipmentLineRequest{{Description: "Widgets", Quantity: 6}},
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalShippingCost.Equal(dec("335.50")))
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.GoodsValue.Equal(dec("120")))
		assert.Equal(t, &inv.ID, resp.InvoiceID)
	})

	t.Run("override replaces the computed cost", func(t *testing.T) {
		f, svc, order, _ := setup(t)
		f.shipments.On("Save", ctx, mock.AnythingOfType("*trade.ShippingInvoice")).Return(nil)
		override := dec("250")

		resp, err := svc.Create(ctx, f.tenantID, CreateShippingInvoiceRequest{
			OrderID: order.ID, Freight: dec("300"), CostOverride: &override,
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalShippingCost.Equal(override))
	})

	t.Run("cannot ship more than invoiced", func(t *testing.T) {
		f, svc, order, inv := setup(t)

		_, err := svc.Create(ctx, f.tenantID, CreateShippingInvoiceRequest{
			OrderID:   order.ID,
			InvoiceID: &inv.ID,
			Items:     []ShipmentLineRequest{{Description: "Widgets", Quantity: 11}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "QUANTITY_EXCEEDED", domainErr.Code)
		f.shipments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("items need an invoice", func(t *testing.T) {
		f := newTradeFixture()
		svc := NewShippingService(f.shipments, f.orders, f.invoices, nil)
		order := f.order(trade.WorkflowTypeFastTrack)

		_, err := svc.Create(ctx, f.tenantID, CreateShippingInvoiceRequest{
			OrderID: order.ID,
			Items:   []ShipmentLineRequest{{Description: "Widgets", Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INVOICE", domainErr.Code)
	})
}
