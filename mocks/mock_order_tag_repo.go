package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockOrderTagRepo is a mock implementation of port.OrderTagRepository.
type MockOrderTagRepo struct {
	mock.Mock
}

func (m *MockOrderTagRepo) CreateBatch(ctx context.Context, tags []domain.OrderTag) error {
	args := m.Called(ctx, tags)
	return args.Error(0)
}

func (m *MockOrderTagRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderTag, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderTag), args.Error(1)
}

func (m *MockOrderTagRepo) SearchByTag(ctx context.Context, tenantID uuid.UUID, key, value string, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, key, value, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderTagRepo) DeleteByID(ctx context.Context, orderID, tagID uuid.UUID) error {
	args := m.Called(ctx, orderID, tagID)
	return args.Error(0)
}

func (m *MockOrderTagRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
