package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poaudit/internal/validator/order"
)

func TestLogical_PricePresence_StructuredPrices(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{Prices: order.PriceFields{UnitPrice: "100", Amount: "1000"}},
		},
	}

	results := runValidator(t, "logic.line_item.price_presence", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestLogical_PricePresence_RawTokensOnly(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{RawPriceTokens: "1200 85 1020"},
		},
	}

	results := runValidator(t, "logic.line_item.price_presence", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestLogical_PricePresence_NoPriceData(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{ProductName: "Widget"},
		},
	}

	results := runValidator(t, "logic.line_item.price_presence", po)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "no price columns and no raw price tokens")
}

func TestLogical_NonNegative_AllPositive(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{Quantity: "10", Prices: order.PriceFields{UnitPrice: "100", Amount: "1000"}},
		},
	}

	results := runValidator(t, "logic.line_item.non_negative", po)

	require.Len(t, results, 3) // quantity, unit_price, amount (empty fields skipped)
	for _, r := range results {
		assert.True(t, r.Passed)
	}
}

func TestLogical_NonNegative_NegativeAmount(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{Quantity: "10", Prices: order.PriceFields{Amount: "-500"}},
		},
	}

	results := runValidator(t, "logic.line_item.non_negative", po)

	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)  // quantity
	assert.False(t, results[1].Passed) // amount
	assert.Equal(t, "line_items[0].prices.amount", results[1].FieldPath)
}

func TestLogical_DiscountRange_WithinRange(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{Prices: order.PriceFields{DiscountPercent: "85"}},
		},
	}

	results := runValidator(t, "logic.line_item.discount_range", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestLogical_DiscountRange_Excessive(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{
			{Prices: order.PriceFields{DiscountPercent: "200"}},
		},
	}

	results := runValidator(t, "logic.line_item.discount_range", po)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}

func TestLogical_DiscountRange_EmptySkipped(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{{ProductName: "Widget"}},
	}

	results := runValidator(t, "logic.line_item.discount_range", po)

	assert.Empty(t, results)
}

func TestLogical_AtLeastOneLineItem_Present(t *testing.T) {
	po := &order.PurchaseOrder{
		LineItems: []order.LineItem{{ProductName: "Widget"}},
	}

	results := runValidator(t, "logic.line_items.at_least_one", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestLogical_AtLeastOneLineItem_Empty(t *testing.T) {
	po := &order.PurchaseOrder{}

	results := runValidator(t, "logic.line_items.at_least_one", po)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "line_items", results[0].FieldPath)
	assert.Equal(t, "0", results[0].ActualValue)
}

func TestLogical_DateNotFuture_Past(t *testing.T) {
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{OrderDate: "2020/01/15"},
	}

	results := runValidator(t, "logic.header.date_not_future", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestLogical_DateNotFuture_Future(t *testing.T) {
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{OrderDate: "2099/01/01"},
	}

	results := runValidator(t, "logic.header.date_not_future", po)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}

func TestLogical_DateNotFuture_MissingSkipped(t *testing.T) {
	po := &order.PurchaseOrder{}

	results := runValidator(t, "logic.header.date_not_future", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "skipping")
}

func TestLogical_DateNotFuture_UnparseableSkipped(t *testing.T) {
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{OrderDate: "whenever"},
	}

	results := runValidator(t, "logic.header.date_not_future", po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}
