package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockCatalogRepo is a mock implementation of port.CatalogRepository.
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) UpsertBatch(ctx context.Context, entries []domain.CatalogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockCatalogRepo) LoadAll(ctx context.Context, tenantID uuid.UUID) ([]domain.CatalogEntry, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogEntry), args.Error(1)
}

func (m *MockCatalogRepo) FindBySupplierProduct(ctx context.Context, tenantID uuid.UUID, supplier, productName string) (*domain.CatalogEntry, error) {
	args := m.Called(ctx, tenantID, supplier, productName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogEntry), args.Error(1)
}
