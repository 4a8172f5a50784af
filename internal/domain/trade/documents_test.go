package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder(uuid.New(), uuid.New(), "PO-2026-00001", uuid.New(), "Shenzhen Parts Co")
	require.NoError(t, err)
	return po
}

func TestPurchaseOrder_Items(t *testing.T) {
	po := newTestPurchaseOrder(t)

	item, err := po.AddItem("Valve", 4, dec("25"))
	require.NoError(t, err)
	_, err = po.AddItem("Gasket", 10, dec("1.5"))
	require.NoError(t, err)
	assert.True(t, po.TotalAmount.Equal(dec("115")))
	assert.True(t, po.RemainingAmount.Equal(dec("115")))

	require.NoError(t, po.UpdateItem(item.ID, "Valve DN50", 2, dec("30")))
	assert.True(t, po.TotalAmount.Equal(dec("75")))

	require.NoError(t, po.RemoveItem(item.ID))
	assert.True(t, po.TotalAmount.Equal(dec("15")))
	assert.Error(t, po.RemoveItem(uuid.New()))

	_, err = po.AddItem("Bad", 0, dec("1"))
	assert.Error(t, err)
}

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	po := newTestPurchaseOrder(t)

	assert.Error(t, po.Send(), "cannot send without items")
	_, err := po.AddItem("Valve", 4, dec("25"))
	require.NoError(t, err)

	assert.Error(t, po.Confirm(), "cannot skip sent")
	require.NoError(t, po.Send())
	assert.NotNil(t, po.SentAt)

	_, err = po.AddItem("Late", 1, dec("1"))
	assert.Error(t, err, "items are frozen after draft")

	require.NoError(t, po.Confirm())
	require.NoError(t, po.Receive())
	assert.NotNil(t, po.ReceivedAt)
	assert.Error(t, po.Send())
}

func TestPurchaseOrder_RecordPayment(t *testing.T) {
	po := newTestPurchaseOrder(t)
	_, err := po.AddItem("Valve", 4, dec("25"))
	require.NoError(t, err)

	_, err = po.RecordPayment(dec("10"), time.Now(), PaymentMethodBankTransfer, "")
	assert.Error(t, err, "draft purchase orders cannot be paid")

	require.NoError(t, po.Send())

	_, err = po.RecordPayment(dec("60"), time.Now(), PaymentMethodBankTransfer, "TT-1")
	require.NoError(t, err)
	assert.True(t, po.PaidAmount.Equal(dec("60")))
	assert.True(t, po.RemainingAmount.Equal(dec("40")))

	_, err = po.RecordPayment(dec("40.01"), time.Now(), PaymentMethodBankTransfer, "TT-2")
	assert.Error(t, err, "cannot overpay")

	_, err = po.RecordPayment(dec("0"), time.Now(), PaymentMethodBankTransfer, "")
	assert.Error(t, err)

	_, err = po.RecordPayment(dec("5"), time.Now(), PaymentMethod("barter"), "")
	assert.Error(t, err)

	_, err = po.RecordPayment(dec("40"), time.Time{}, PaymentMethodCheque, "CHQ-9")
	require.NoError(t, err)
	assert.True(t, po.RemainingAmount.IsZero())
	assert.True(t, po.IsFullyPaid())
	assert.Len(t, po.Payments, 2)
	assert.False(t, po.Payments[1].PaidAt.IsZero())
}

func newTestInvoice(t *testing.T, rate string) *SalesInvoice {
	t.Helper()
	inv, err := NewSalesInvoice(uuid.New(), uuid.New(), "INV-2026-00001", dec(rate))
	require.NoError(t, err)
	return inv
}

func TestSalesInvoice_Totals(t *testing.T) {
	inv := newTestInvoice(t, "10")
	assert.True(t, inv.Total.IsZero())

	_, err := inv.AddItem("Crane part", 2, dec("10"))
	require.NoError(t, err)
	_, err = inv.AddItem("Cable", 1, dec("5"))
	require.NoError(t, err)

	assert.True(t, inv.Subtotal.Equal(dec("25")))
	assert.True(t, inv.CommissionFee.Equal(dec("2.5")))
	assert.True(t, inv.Total.Equal(dec("27.5")))

	require.NoError(t, inv.SetCommissionRate(dec("20")))
	assert.True(t, inv.Total.Equal(dec("30")))
	assert.Error(t, inv.SetCommissionRate(dec("120")))
	assert.True(t, inv.CommissionRate.Equal(dec("20")), "rejected rate leaves totals untouched")

	_, err = NewSalesInvoice(uuid.New(), uuid.New(), "INV-X", dec("-5"))
	assert.Error(t, err)
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to InvoiceStatus
		allowed  bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusSent, InvoiceStatusCancelled, true},
		{InvoiceStatusPartiallyPaid, InvoiceStatusOverdue, true},
		{InvoiceStatusPartiallyPaid, InvoiceStatusSent, false},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusCancelled, InvoiceStatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSalesInvoice_Payments(t *testing.T) {
	inv := newTestInvoice(t, "10")
	assert.Error(t, inv.TransitionTo(InvoiceStatusSent), "cannot send without items")

	_, err := inv.AddItem("Crane part", 2, dec("10"))
	require.NoError(t, err)
	_, err = inv.AddItem("Cable", 1, dec("5"))
	require.NoError(t, err)
	require.NoError(t, inv.TransitionTo(InvoiceStatusSent))

	_, err = inv.AddItem("Extra", 1, dec("1"))
	assert.Error(t, err, "items are frozen after draft")

	_, err = inv.RecordPayment(dec("7.5"), time.Now(), PaymentMethodBankTransfer, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.True(t, inv.Outstanding().Equal(dec("20")))

	require.NoError(t, inv.TransitionTo(InvoiceStatusOverdue))

	_, err = inv.RecordPayment(dec("20"), time.Now(), PaymentMethodCard, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.Outstanding().IsZero())

	_, err = inv.RecordPayment(dec("1"), time.Now(), PaymentMethodCard, "")
	assert.Error(t, err)
	assert.Equal(t, "Partially Paid", InvoiceStatusPartiallyPaid.Label())
}

func TestSalesInvoice_SetDates(t *testing.T) {
	inv := newTestInvoice(t, "0")
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)

	require.NoError(t, inv.SetDates(issue, &due))
	early := issue.AddDate(0, 0, -1)
	assert.Error(t, inv.SetDates(issue, &early))
}

func TestShippingInvoice(t *testing.T) {
	inv := newTestInvoice(t, "10")
	_, err := inv.AddItem("Crane part", 2, dec("10"))
	require.NoError(t, err)

	t.Run("total is the sum of components", func(t *testing.T) {
		s, err := NewShippingInvoice(inv.TenantID, inv.OrderID, "SHP-2026-00001", ShippingCosts{
			Freight: dec("120"), Insurance: dec("15.5"), Handling: dec("4.5"),
		})
		require.NoError(t, err)
		assert.True(t, s.TotalShippingCost.Equal(dec("140")))
	})

	t.Run("override replaces the sum", func(t *testing.T) {
		override := dec("99")
		s, err := NewShippingInvoice(inv.TenantID, inv.OrderID, "SHP-2026-00002", ShippingCosts{
			Freight: dec("120"), Override: &override,
		})
		require.NoError(t, err)
		assert.True(t, s.TotalShippingCost.Equal(dec("99")))

		require.NoError(t, s.SetCosts(ShippingCosts{Freight: dec("10")}))
		assert.True(t, s.TotalShippingCost.Equal(dec("10")))
	})

	t.Run("rejects negative components", func(t *testing.T) {
		_, err := NewShippingInvoice(inv.TenantID, inv.OrderID, "SHP-X", ShippingCosts{Freight: dec("-1")})
		assert.Error(t, err)
	})

	t.Run("ships invoiced items", func(t *testing.T) {
		s, err := NewShippingInvoice(inv.TenantID, inv.OrderID, "SHP-2026-00003", ShippingCosts{})
		require.NoError(t, err)

		require.NoError(t, s.ShipFromInvoice(inv, []ShipmentLine{{Description: "Crane part", Quantity: 1}}))
		require.Len(t, s.Items, 1)
		assert.Equal(t, inv.ID, *s.InvoiceID)
		assert.True(t, s.GoodsValue().Equal(dec("10")))

		err = s.ShipFromInvoice(inv, []ShipmentLine{{Description: "Crane part", Quantity: 3}})
		assert.Contains(t, err.Error(), "only 2 invoiced")

		err = s.ShipFromInvoice(inv, []ShipmentLine{{Description: "Unknown", Quantity: 1}})
		assert.Contains(t, err.Error(), "not on invoice")
	})

	t.Run("repeated lines share the invoiced quantity", func(t *testing.T) {
		s, err := NewShippingInvoice(inv.TenantID, inv.OrderID, "SHP-2026-00005", ShippingCosts{})
		require.NoError(t, err)

		err = s.ShipFromInvoice(inv, []ShipmentLine{
			{Description: "Crane part", Quantity: 2},
			{Description: "Crane part", Quantity: 2},
		})
		assert.Contains(t, err.Error(), "Cannot ship 4 of \"Crane part\", only 2 invoiced")
		assert.Empty(t, s.Items)
		assert.Nil(t, s.InvoiceID)

		require.NoError(t, s.ShipFromInvoice(inv, []ShipmentLine{
			{Description: "Crane part", Quantity: 1},
			{Description: "Crane part", Quantity: 1},
		}))
		assert.Len(t, s.Items, 2)
	})

	t.Run("duplicate invoice descriptions are pooled", func(t *testing.T) {
		split := newTestInvoice(t, "10")
		_, err := split.AddItem("Winch", 3, dec("40"))
		require.NoError(t, err)
		_, err = split.AddItem("Winch", 2, dec("45"))
		require.NoError(t, err)
		s, err := NewShippingInvoice(split.TenantID, split.OrderID, "SHP-2026-00006", ShippingCosts{})
		require.NoError(t, err)

		require.NoError(t, s.ShipFromInvoice(split, []ShipmentLine{{Description: "Winch", Quantity: 5}}))
		assert.True(t, s.GoodsValue().Equal(dec("200")))

		err = s.ShipFromInvoice(split, []ShipmentLine{{Description: "Winch", Quantity: 4}, {Description: "Winch", Quantity: 2}})
		assert.Contains(t, err.Error(), "only 5 invoiced")
	})

	t.Run("rejects invoice of another order", func(t *testing.T) {
		s, err := NewShippingInvoice(inv.TenantID, uuid.New(), "SHP-2026-00004", ShippingCosts{})
		require.NoError(t, err)
		assert.Error(t, s.ShipFromInvoice(inv, nil))
	})
}

func TestQuotation(t *testing.T) {
	items := []LineItem{mustItem(t, "Valve", 3, "20")}
	validUntil := time.Now().Add(-time.Hour)

	q, err := NewQuotation(uuid.New(), uuid.New(), "QT-2026-00001", uuid.New(), "Shenzhen Parts Co", items, &validUntil)
	require.NoError(t, err)
	assert.True(t, q.TotalAmount.Equal(dec("60")))
	assert.True(t, q.IsExpired(time.Now()))

	assert.Error(t, q.TransitionTo(QuotationStatusAccepted))
	require.NoError(t, q.TransitionTo(QuotationStatusSent))
	require.NoError(t, q.TransitionTo(QuotationStatusAccepted))
	assert.Error(t, q.TransitionTo(QuotationStatusRejected))
}
