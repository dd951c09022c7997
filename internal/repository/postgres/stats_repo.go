package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const tenantOrderStatsQuery = `SELECT
	COUNT(*) AS total_orders,
	COUNT(CASE WHEN extraction_status IN ('pending', 'queued', 'processing') THEN 1 END) AS pending_orders,
	COUNT(CASE WHEN extraction_status = 'completed' THEN 1 END) AS completed_orders,
	COUNT(CASE WHEN extraction_status = 'failed' THEN 1 END) AS failed_orders,
	COUNT(CASE WHEN audit_status = 'passed' THEN 1 END) AS passed_audits,
	COUNT(CASE WHEN audit_status = 'warning' THEN 1 END) AS warning_audits,
	COUNT(CASE WHEN audit_status = 'failed' THEN 1 END) AS failed_audits,
	COALESCE(AVG(confidence) FILTER (WHERE extraction_status = 'completed'), 0) AS avg_confidence
FROM orders WHERE tenant_id = $1`

func (r *statsRepo) GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.TenantStats, error) {
	var stats domain.TenantStats
	if err := r.db.GetContext(ctx, &stats, tenantOrderStatsQuery, tenantID); err != nil {
		return nil, fmt.Errorf("statsRepo.GetTenantStats orders: %w", err)
	}

	// Line item counts and audited amounts live on the summary rows.
	err := r.db.GetContext(ctx, &stats.TotalLineItems,
		"SELECT COALESCE(SUM(line_item_count), 0) FROM order_summaries WHERE tenant_id = $1",
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetTenantStats line items: %w", err)
	}
	err = r.db.GetContext(ctx, &stats.TotalAuditedAmount,
		"SELECT COALESCE(SUM(total_amount), 0) FROM order_summaries WHERE tenant_id = $1",
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetTenantStats amounts: %w", err)
	}

	return &stats, nil
}

const userStatsQuery = `SELECT
	(SELECT COUNT(*) FROM orders WHERE tenant_id = $1 AND created_by = $2) AS orders_created,
	(SELECT COUNT(*) FROM batches WHERE tenant_id = $1 AND created_by = $2) AS batches_created,
	(SELECT COUNT(*) FROM file_metadata WHERE tenant_id = $1 AND uploaded_by = $2 AND status != 'deleted') AS files_uploaded,
	(SELECT COUNT(*) FROM orders WHERE tenant_id = $1 AND reviewed_by = $2) AS orders_reviewed,
	(SELECT COALESCE(AVG(confidence) FILTER (WHERE extraction_status = 'completed'), 0)
	 FROM orders WHERE tenant_id = $1 AND created_by = $2) AS avg_confidence`

func (r *statsRepo) GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.UserStats, error) {
	var stats domain.UserStats
	if err := r.db.GetContext(ctx, &stats, userStatsQuery, tenantID, userID); err != nil {
		return nil, fmt.Errorf("statsRepo.GetUserStats: %w", err)
	}
	return &stats, nil
}
