package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
)

func TestGormSalesInvoiceRepository_RoundTrip(t *testing.T) {
	repo := NewGormSalesInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, orderID := uuid.New(), uuid.New()

	invoice, err := trade.NewSalesInvoice(tenantID, orderID, "INV-2026-00001", decimal.RequireFromString("0.10"))
	require.NoError(t, err)
	_, err = invoice.AddItem("Oak desk", 2, decimal.NewFromInt(150))
	require.NoError(t, err)
	_, err = invoice.AddItem("Chair", 4, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, invoice))

	found, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Oak desk", found.Items[0].Description)
	assert.Equal(t, "Chair", found.Items[1].Description)
	assert.True(t, found.Subtotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, found.CommissionFee.Equal(decimal.NewFromInt(50)))
	assert.True(t, found.Total.Equal(decimal.NewFromInt(550)))

	t.Run("payments persist with the derived status", func(t *testing.T) {
		require.NoError(t, found.TransitionTo(trade.InvoiceStatusSent))
		_, err := found.RecordPayment(decimal.NewFromInt(200), time.Now(), trade.PaymentMethodBankTransfer, "TT-1")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.InvoiceStatusPartiallyPaid, reloaded.Status)
		require.Len(t, reloaded.Payments, 1)
		assert.True(t, reloaded.Outstanding().Equal(decimal.NewFromInt(350)))
	})

	t.Run("order scoped lookups", func(t *testing.T) {
		invoices, err := repo.FindByOrder(ctx, tenantID, orderID)
		require.NoError(t, err)
		assert.Len(t, invoices, 1)

		count, err := repo.CountByOrder(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, count)

		count, err = repo.CountForTenant(ctx, tenantID, shared.Filter{Filters: map[string]interface{}{"status": "partially_paid"}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormSalesInvoiceRepository_StaleSaveKeepsPayments(t *testing.T) {
	repo := NewGormSalesInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	invoice, err := trade.NewSalesInvoice(tenantID, uuid.New(), "INV-2026-00002", decimal.Zero)
	require.NoError(t, err)
	_, err = invoice.AddItem("Oak desk", 2, decimal.NewFromInt(150))
	require.NoError(t, err)
	require.NoError(t, invoice.TransitionTo(trade.InvoiceStatusSent))
	require.NoError(t, repo.Save(ctx, invoice))

	first, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	require.NoError(t, err)

	_, err = first.RecordPayment(decimal.NewFromInt(100), time.Now(), trade.PaymentMethodBankTransfer, "TT-1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	_, err = second.RecordPayment(decimal.NewFromInt(50), time.Now(), trade.PaymentMethodBankTransfer, "TT-2")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, invoice.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Payments, 1)
	assert.Equal(t, "TT-1", reloaded.Payments[0].Reference)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Outstanding().Equal(decimal.NewFromInt(200)))
}

func TestGormShippingInvoiceRepository_CostOverride(t *testing.T) {
	repo := NewGormShippingInvoiceRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, orderID := uuid.New(), uuid.New()

	override := decimal.NewFromInt(900)
	shipment, err := trade.NewShippingInvoice(tenantID, orderID, "SHP-2026-00001", trade.ShippingCosts{
		Freight:   decimal.NewFromInt(500),
		Insurance: decimal.NewFromInt(100),
		Handling:  decimal.NewFromInt(50),
		Override:  &override,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, shipment))

	found, err := repo.FindByIDForTenant(ctx, tenantID, shipment.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Costs.Override)
	assert.True(t, found.Costs.Override.Equal(override))
	assert.True(t, found.TotalShippingCost.Equal(override))
	assert.True(t, found.Costs.Sum().Equal(decimal.NewFromInt(650)))

	shipments, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Filters: map[string]interface{}{"order_id": orderID}})
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
}
