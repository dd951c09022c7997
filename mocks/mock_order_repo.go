package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockOrderRepo is a mock implementation of port.OrderRepository.
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepo) GetByFileID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepo) ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, batchID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderRepo) ListByUserBatches(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderRepo) ListExtracted(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepo) UpdateExtraction(ctx context.Context, order *domain.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) UpdateAuditStatus(ctx context.Context, order *domain.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) UpdateReviewStatus(ctx context.Context, order *domain.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	args := m.Called(ctx, tenantID, orderID)
	return args.Error(0)
}
