package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockOrderSummaryRepo is a mock implementation of port.OrderSummaryRepository.
type MockOrderSummaryRepo struct {
	mock.Mock
}

func (m *MockOrderSummaryRepo) Upsert(ctx context.Context, summary *domain.OrderSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockOrderSummaryRepo) UpdateStatuses(ctx context.Context, orderID uuid.UUID, statuses domain.SummaryStatusUpdate) error {
	args := m.Called(ctx, orderID, statuses)
	return args.Error(0)
}

func (m *MockOrderSummaryRepo) GetByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*domain.OrderSummary, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderSummary), args.Error(1)
}

func (m *MockOrderSummaryRepo) ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.OrderSummary, int, error) {
	args := m.Called(ctx, tenantID, batchID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderSummary), args.Int(1), args.Error(2)
}

func (m *MockOrderSummaryRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderSummary), args.Int(1), args.Error(2)
}
