package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository.
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) SupplierSummary(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.SupplierSummaryRow, int, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SupplierSummaryRow), args.Int(1), args.Error(2)
}

func (m *MockReportRepo) BatchOverview(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.BatchOverviewRow, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchOverviewRow), args.Error(1)
}

func (m *MockReportRepo) DiscrepantOrders(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderSummary), args.Int(1), args.Error(2)
}

func (m *MockReportRepo) MonthlyVolume(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyVolumeRow, error) {
	args := m.Called(ctx, tenantID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyVolumeRow), args.Error(1)
}
