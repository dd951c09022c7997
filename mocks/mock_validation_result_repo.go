package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockValidationResultRepo is a mock implementation of port.ValidationResultRepository.
type MockValidationResultRepo struct {
	mock.Mock
}

func (m *MockValidationResultRepo) ReplaceForOrder(ctx context.Context, orderID uuid.UUID, results []domain.ValidationResult) error {
	args := m.Called(ctx, orderID, results)
	return args.Error(0)
}

func (m *MockValidationResultRepo) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]domain.ValidationResult, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationResult), args.Error(1)
}
