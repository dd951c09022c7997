package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/port"
)

// MockDuplicateFileFinder is a mock implementation of port.DuplicateFileFinder.
type MockDuplicateFileFinder struct {
	mock.Mock
}

func (m *MockDuplicateFileFinder) FindExtractedByHash(ctx context.Context, tenantID uuid.UUID, contentHash string, excludeFileID uuid.UUID) (*port.DuplicateFileMatch, error) {
	args := m.Called(ctx, tenantID, contentHash, excludeFileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DuplicateFileMatch), args.Error(1)
}

// MockDuplicateOrderFinder is a mock implementation of port.DuplicateOrderFinder.
type MockDuplicateOrderFinder struct {
	mock.Mock
}

func (m *MockDuplicateOrderFinder) FindDuplicates(ctx context.Context, tenantID, excludeOrderID uuid.UUID, supplier, poNumber string) ([]port.DuplicateOrderMatch, error) {
	args := m.Called(ctx, tenantID, excludeOrderID, supplier, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.DuplicateOrderMatch), args.Error(1)
}
