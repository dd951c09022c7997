package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
	"poaudit/internal/service"
	"poaudit/internal/validator"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateAndExtract(ctx context.Context, input *service.CreateOrderInput) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) GetByFileID(ctx context.Context, tenantID, fileID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, fileID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) ListByBatch(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, batchID, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderService) ListByTenant(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderService) UpdateReview(ctx context.Context, input *service.UpdateReviewInput) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) EditStructuredData(ctx context.Context, input *service.EditStructuredDataInput) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) RetryExtraction(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) ValidateOrder(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, tenantID, orderID, userID, role)
	return args.Error(0)
}

func (m *MockOrderService) GetValidation(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) (*validator.ValidationResponse, error) {
	args := m.Called(ctx, tenantID, orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.ValidationResponse), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, tenantID, orderID, userID, role)
	return args.Error(0)
}

func (m *MockOrderService) ListTags(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole) ([]domain.OrderTag, error) {
	args := m.Called(ctx, tenantID, orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderTag), args.Error(1)
}

func (m *MockOrderService) AddTags(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, tags map[string]string) ([]domain.OrderTag, error) {
	args := m.Called(ctx, tenantID, orderID, userID, role, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderTag), args.Error(1)
}

func (m *MockOrderService) DeleteTag(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, tagID uuid.UUID) error {
	args := m.Called(ctx, tenantID, orderID, userID, role, tagID)
	return args.Error(0)
}

func (m *MockOrderService) SearchByTag(ctx context.Context, tenantID uuid.UUID, key, value string, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, tenantID, key, value, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockOrderService) ListEvents(ctx context.Context, tenantID, orderID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.OrderEvent, int, error) {
	args := m.Called(ctx, tenantID, orderID, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderEvent), args.Int(1), args.Error(2)
}

func (m *MockOrderService) ExtractOrder(ctx context.Context, ord *domain.PurchaseOrder, maxAttempts int) {
	m.Called(ctx, ord, maxAttempts)
}
