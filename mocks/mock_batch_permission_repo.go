package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockBatchPermissionRepo is a mock implementation of port.BatchPermissionRepository.
type MockBatchPermissionRepo struct {
	mock.Mock
}

func (m *MockBatchPermissionRepo) Upsert(ctx context.Context, perm *domain.BatchPermissionEntry) error {
	args := m.Called(ctx, perm)
	return args.Error(0)
}

func (m *MockBatchPermissionRepo) GetByBatchAndUser(ctx context.Context, batchID, userID uuid.UUID) (*domain.BatchPermissionEntry, error) {
	args := m.Called(ctx, batchID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchPermissionEntry), args.Error(1)
}

func (m *MockBatchPermissionRepo) GetByUserForBatches(ctx context.Context, userID uuid.UUID, batchIDs []uuid.UUID) (map[uuid.UUID]domain.BatchPermission, error) {
	args := m.Called(ctx, userID, batchIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.BatchPermission), args.Error(1)
}

func (m *MockBatchPermissionRepo) ListByBatch(ctx context.Context, batchID uuid.UUID, offset, limit int) ([]domain.BatchPermissionEntry, int, error) {
	args := m.Called(ctx, batchID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BatchPermissionEntry), args.Int(1), args.Error(2)
}

func (m *MockBatchPermissionRepo) Delete(ctx context.Context, batchID, userID uuid.UUID) error {
	args := m.Called(ctx, batchID, userID)
	return args.Error(0)
}
