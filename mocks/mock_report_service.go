package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
	"poaudit/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) OrderAuditReport(ctx context.Context, tenantID, orderID uuid.UUID) (*service.OrderAuditReport, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderAuditReport), args.Error(1)
}

func (m *MockReportService) SupplierSummary(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.SupplierSummaryRow, int, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SupplierSummaryRow), args.Int(1), args.Error(2)
}

func (m *MockReportService) BatchOverview(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.BatchOverviewRow, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchOverviewRow), args.Error(1)
}

func (m *MockReportService) DiscrepantOrders(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.OrderSummary), args.Int(1), args.Error(2)
}

func (m *MockReportService) MonthlyVolume(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyVolumeRow, error) {
	args := m.Called(ctx, tenantID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyVolumeRow), args.Error(1)
}
