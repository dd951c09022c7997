package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockBatchFileRepo is a mock implementation of port.BatchFileRepository.
type MockBatchFileRepo struct {
	mock.Mock
}

func (m *MockBatchFileRepo) Add(ctx context.Context, bf *domain.BatchFile) error {
	args := m.Called(ctx, bf)
	return args.Error(0)
}

func (m *MockBatchFileRepo) Remove(ctx context.Context, batchID, fileID uuid.UUID) error {
	args := m.Called(ctx, batchID, fileID)
	return args.Error(0)
}

func (m *MockBatchFileRepo) ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	args := m.Called(ctx, tenantID, batchID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FileMeta), args.Int(1), args.Error(2)
}
