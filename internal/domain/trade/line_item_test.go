package trade

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/domain/shared"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func mustItem(t *testing.T, desc string, qty int, price string) LineItem {
	t.Helper()
	item, err := NewLineItem(desc, qty, dec(price))
	require.NoError(t, err)
	return *item
}

func TestNewLineItem(t *testing.T) {
	t.Run("computes total", func(t *testing.T) {
		item, err := NewLineItem("Steel coil", 3, dec("12.50"))
		require.NoError(t, err)
		assert.True(t, item.Total.Equal(dec("37.5")))
	})

	t.Run("quantity one and zero price yields zero total", func(t *testing.T) {
		item, err := NewLineItem("Sample", 1, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, item.Total.IsZero())
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		_, err := NewLineItem("Sample", 0, dec("10"))

		var lineErr *InvalidLineItemError
		require.True(t, errors.As(err, &lineErr))
		assert.Equal(t, "quantity", lineErr.Field)
		assert.Equal(t, "0", lineErr.Value)
		assert.Equal(t, "1", lineErr.Minimum)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewLineItem("Sample", 2, dec("-0.01"))

		var lineErr *InvalidLineItemError
		require.True(t, errors.As(err, &lineErr))
		assert.Equal(t, "unit_price", lineErr.Field)
	})

	t.Run("unwraps to a domain error", func(t *testing.T) {
		_, err := NewLineItem("Sample", -1, dec("1"))

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_LINE_ITEM", domainErr.Code)
	})
}

func TestClampLineItem(t *testing.T) {
	item := ClampLineItem("Sample", -4, dec("-3"))

	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.UnitPrice.IsZero())
	assert.True(t, item.Total.IsZero())
}

func TestBuildLineItems_ReportsIndex(t *testing.T) {
	_, err := BuildLineItems([]LineItemInput{
		{Description: "A", Quantity: 1, UnitPrice: dec("1")},
		{Description: "B", Quantity: 2, UnitPrice: dec("1")},
		{Description: "C", Quantity: 0, UnitPrice: dec("1")},
	})

	var lineErr *InvalidLineItemError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Index)
	assert.Contains(t, err.Error(), "line item 2")
}

func TestLineItem_Mutations(t *testing.T) {
	item := mustItem(t, "Bolt", 2, "10")

	require.NoError(t, item.SetQuantity(5))
	assert.True(t, item.Total.Equal(dec("50")))

	require.NoError(t, item.SetUnitPrice(dec("2.2")))
	assert.True(t, item.Total.Equal(dec("11")))

	assert.Error(t, item.SetQuantity(0))
	assert.Error(t, item.SetUnitPrice(dec("-1")))
	assert.True(t, item.Total.Equal(dec("11")), "failed edits leave the item unchanged")
}

func TestCalculateDocumentTotals(t *testing.T) {
	t.Run("commissioned invoice", func(t *testing.T) {
		items := []LineItem{mustItem(t, "A", 2, "10"), mustItem(t, "B", 1, "5")}

		totals, err := CalculateDocumentTotals(items, dec("10"))
		require.NoError(t, err)
		assert.True(t, totals.Subtotal.Equal(dec("25")))
		assert.True(t, totals.CommissionFee.Equal(dec("2.5")))
		assert.True(t, totals.Total.Equal(dec("27.5")))
	})

	t.Run("empty list", func(t *testing.T) {
		totals, err := CalculateDocumentTotals(nil, dec("15"))
		require.NoError(t, err)
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.CommissionFee.IsZero())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("fee is kept to the stored scale", func(t *testing.T) {
		items := []LineItem{mustItem(t, "Sample", 1, "33.33")}

		totals, err := CalculateDocumentTotals(items, dec("0.05"))
		require.NoError(t, err)
		assert.Equal(t, "0.0167", totals.CommissionFee.String())
		assert.Equal(t, "33.3467", totals.Total.String())
		assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.CommissionFee)))
	})

	t.Run("rate bounds", func(t *testing.T) {
		items := []LineItem{mustItem(t, "A", 1, "100")}

		totals, err := CalculateDocumentTotals(items, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, totals.Total.Equal(dec("100")))

		totals, err = CalculateDocumentTotals(items, dec("100"))
		require.NoError(t, err)
		assert.True(t, totals.Total.Equal(dec("200")))

		_, err = CalculateDocumentTotals(items, dec("100.5"))
		assert.Error(t, err)
		_, err = CalculateDocumentTotals(items, dec("-1"))
		assert.Error(t, err)
	})
}

func TestCalculateSubtotal_MatchesSumOfProducts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		n := rng.Intn(20)
		items := make([]LineItem, 0, n)
		expected := decimal.Zero
		for i := 0; i < n; i++ {
			qty := rng.Intn(500) + 1
			price := decimal.New(rng.Int63n(1_000_000), -2)
			item, err := NewLineItem("x", qty, price)
			require.NoError(t, err)
			items = append(items, *item)
			expected = expected.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		subtotal := CalculateSubtotal(items)
		assert.True(t, subtotal.Equal(expected))

		rate := decimal.New(rng.Int63n(10001), -2) // 0.00 .. 100.00
		totals, err := CalculateDocumentTotals(items, rate)
		require.NoError(t, err)
		want := subtotal.Add(subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(MoneyScale))
		assert.True(t, totals.Total.Equal(want), "total for rate %s", rate)
	}
}
