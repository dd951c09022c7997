package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockOrderEventRepo is a mock implementation of port.OrderEventRepository.
type MockOrderEventRepo struct {
	mock.Mock
}

func (m *MockOrderEventRepo) Create(ctx context.Context, event *domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOrderEventRepo) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID, offset, limit int) ([]domain.OrderEvent, int, error) {
	args := m.Called(ctx, tenantID, orderID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderEvent), args.Int(1), args.Error(2)
}
