package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockValidationRuleRepo is a mock implementation of port.ValidationRuleRepository.
type MockValidationRuleRepo struct {
	mock.Mock
}

func (m *MockValidationRuleRepo) Create(ctx context.Context, rule *domain.ValidationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockValidationRuleRepo) GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*domain.ValidationRule, error) {
	args := m.Called(ctx, tenantID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationRule), args.Error(1)
}

func (m *MockValidationRuleRepo) ListActive(ctx context.Context, tenantID uuid.UUID, batchID *uuid.UUID) ([]domain.ValidationRule, error) {
	args := m.Called(ctx, tenantID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationRule), args.Error(1)
}

func (m *MockValidationRuleRepo) ListBuiltinKeys(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockValidationRuleRepo) Update(ctx context.Context, rule *domain.ValidationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockValidationRuleRepo) Delete(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	args := m.Called(ctx, tenantID, ruleID)
	return args.Error(0)
}
