package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockBatchRepo is a mock implementation of port.BatchRepository.
type MockBatchRepo struct {
	mock.Mock
}

func (m *MockBatchRepo) Create(ctx context.Context, batch *domain.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepo) GetByID(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.Batch, error) {
	args := m.Called(ctx, tenantID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.Batch, int, error) {
	args := m.Called(ctx, tenantID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Batch), args.Int(1), args.Error(2)
}

func (m *MockBatchRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Batch, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Batch), args.Int(1), args.Error(2)
}

func (m *MockBatchRepo) GetProgress(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.BatchProgress, error) {
	args := m.Called(ctx, tenantID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchProgress), args.Error(1)
}

func (m *MockBatchRepo) Update(ctx context.Context, batch *domain.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepo) Delete(ctx context.Context, tenantID, batchID uuid.UUID) error {
	args := m.Called(ctx, tenantID, batchID)
	return args.Error(0)
}
