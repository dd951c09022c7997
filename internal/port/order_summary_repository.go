package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// OrderSummaryRepository manages the denormalized order_summaries table.
type OrderSummaryRepository interface {
	Upsert(ctx context.Context, summary *domain.OrderSummary) error
	UpdateStatuses(ctx context.Context, orderID uuid.UUID, statuses domain.SummaryStatusUpdate) error
	GetByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*domain.OrderSummary, error)
	ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.OrderSummary, int, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error)
}
