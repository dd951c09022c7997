package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poaudit/internal/port"
	"poaudit/internal/validator/order"
	"poaudit/mocks"
)

func TestDuplicateOrder_NoDuplicates(t *testing.T) {
	finder := new(mocks.MockDuplicateOrderFinder)
	tenantID := uuid.New()
	orderID := uuid.New()

	finder.On("FindDuplicates", mock.Anything, tenantID, orderID, "Acme Supplies", "PO-001").
		Return([]port.DuplicateOrderMatch{}, nil)

	ctx := order.WithValidationContext(context.Background(), tenantID, orderID)
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "Acme Supplies", PONumber: "PO-001"},
	}

	v := order.DuplicateOrderValidator(finder)
	results := v.Validate(ctx, po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "no duplicate orders found")
	finder.AssertExpectations(t)
}

func TestDuplicateOrder_DuplicateFound(t *testing.T) {
	finder := new(mocks.MockDuplicateOrderFinder)
	tenantID := uuid.New()
	orderID := uuid.New()

	uploaded := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	matches := []port.DuplicateOrderMatch{
		{OrderID: uuid.New(), FileName: "po-aug-01.pdf", CreatedAt: uploaded},
	}
	finder.On("FindDuplicates", mock.Anything, tenantID, orderID, "Acme Supplies", "PO-001").
		Return(matches, nil)

	ctx := order.WithValidationContext(context.Background(), tenantID, orderID)
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "Acme Supplies", PONumber: "PO-001"},
	}

	v := order.DuplicateOrderValidator(finder)
	results := v.Validate(ctx, po)

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "1 duplicate(s) found", results[0].ActualValue)
	assert.Contains(t, results[0].Message, "po-aug-01.pdf")
	assert.Contains(t, results[0].Message, "2026-08-01")
}

func TestDuplicateOrder_MissingSupplier_Skipped(t *testing.T) {
	finder := new(mocks.MockDuplicateOrderFinder)

	ctx := order.WithValidationContext(context.Background(), uuid.New(), uuid.New())
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "", PONumber: "PO-001"},
	}

	v := order.DuplicateOrderValidator(finder)
	results := v.Validate(ctx, po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "skipping duplicate check")
	finder.AssertNotCalled(t, "FindDuplicates", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDuplicateOrder_MissingContext_Skipped(t *testing.T) {
	finder := new(mocks.MockDuplicateOrderFinder)

	po := &order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "Acme Supplies", PONumber: "PO-001"},
	}

	v := order.DuplicateOrderValidator(finder)
	results := v.Validate(context.Background(), po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "validation context missing")
}

func TestDuplicateOrder_FinderError_Skipped(t *testing.T) {
	finder := new(mocks.MockDuplicateOrderFinder)
	tenantID := uuid.New()
	orderID := uuid.New()

	finder.On("FindDuplicates", mock.Anything, tenantID, orderID, "Acme Supplies", "PO-001").
		Return(nil, errors.New("db down"))

	ctx := order.WithValidationContext(context.Background(), tenantID, orderID)
	po := &order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "Acme Supplies", PONumber: "PO-001"},
	}

	v := order.DuplicateOrderValidator(finder)
	results := v.Validate(ctx, po)

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Contains(t, results[0].Message, "unavailable")
}
