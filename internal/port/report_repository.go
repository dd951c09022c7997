package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// ReportRepository provides aggregation queries for reports.
type ReportRepository interface {
	SupplierSummary(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.SupplierSummaryRow, int, error)
	BatchOverview(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.BatchOverviewRow, error)
	DiscrepantOrders(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error)
	MonthlyVolume(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyVolumeRow, error)
}
