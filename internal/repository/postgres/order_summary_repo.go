package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type orderSummaryRepo struct {
	db *sqlx.DB
}

// NewOrderSummaryRepo creates a new PostgreSQL-backed OrderSummaryRepository.
func NewOrderSummaryRepo(db *sqlx.DB) port.OrderSummaryRepository {
	return &orderSummaryRepo{db: db}
}

func (r *orderSummaryRepo) Upsert(ctx context.Context, summary *domain.OrderSummary) error {
	query := `
		INSERT INTO order_summaries (
			order_id, tenant_id, batch_id,
			supplier, order_number, order_date,
			line_item_count, pass_count, warning_count, failure_count,
			total_amount, confidence,
			extraction_status, audit_status, review_status,
			updated_at
		) VALUES (
			:order_id, :tenant_id, :batch_id,
			:supplier, :order_number, :order_date,
			:line_item_count, :pass_count, :warning_count, :failure_count,
			:total_amount, :confidence,
			:extraction_status, :audit_status, :review_status,
			NOW()
		)
		ON CONFLICT (order_id) DO UPDATE SET
			supplier = EXCLUDED.supplier,
			order_number = EXCLUDED.order_number,
			order_date = EXCLUDED.order_date,
			line_item_count = EXCLUDED.line_item_count,
			pass_count = EXCLUDED.pass_count,
			warning_count = EXCLUDED.warning_count,
			failure_count = EXCLUDED.failure_count,
			total_amount = EXCLUDED.total_amount,
			confidence = EXCLUDED.confidence,
			extraction_status = EXCLUDED.extraction_status,
			audit_status = EXCLUDED.audit_status,
			review_status = EXCLUDED.review_status,
			updated_at = NOW()`

	_, err := r.db.NamedExecContext(ctx, query, summary)
	if err != nil {
		return fmt.Errorf("upserting order summary: %w", err)
	}
	return nil
}

func (r *orderSummaryRepo) UpdateStatuses(ctx context.Context, orderID uuid.UUID, statuses domain.SummaryStatusUpdate) error {
	query := `
		UPDATE order_summaries SET
			extraction_status = COALESCE($2, extraction_status),
			audit_status = COALESCE($3, audit_status),
			review_status = COALESCE($4, review_status),
			confidence = COALESCE($5, confidence),
			updated_at = NOW()
		WHERE order_id = $1`

	_, err := r.db.ExecContext(ctx, query, orderID,
		statuses.ExtractionStatus, statuses.AuditStatus,
		statuses.ReviewStatus, statuses.Confidence)
	if err != nil {
		return fmt.Errorf("updating order summary statuses: %w", err)
	}
	return nil
}

func (r *orderSummaryRepo) GetByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*domain.OrderSummary, error) {
	var summary domain.OrderSummary
	err := r.db.GetContext(ctx, &summary,
		"SELECT * FROM order_summaries WHERE order_id = $1 AND tenant_id = $2",
		orderID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("orderSummaryRepo.GetByOrder: %w", err)
	}
	return &summary, nil
}

func (r *orderSummaryRepo) ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.OrderSummary, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM order_summaries WHERE tenant_id = $1 AND batch_id = $2",
		tenantID, batchID)
	if err != nil {
		return nil, 0, fmt.Errorf("orderSummaryRepo.ListByBatch count: %w", err)
	}

	var summaries []domain.OrderSummary
	err = r.db.SelectContext(ctx, &summaries,
		`SELECT * FROM order_summaries WHERE tenant_id = $1 AND batch_id = $2
		 ORDER BY updated_at DESC LIMIT $3 OFFSET $4`,
		tenantID, batchID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderSummaryRepo.ListByBatch: %w", err)
	}
	return summaries, total, nil
}

func (r *orderSummaryRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error) {
	where, args := summaryFilterClause(tenantID, filters)

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM order_summaries "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orderSummaryRepo.ListByTenant count: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		"SELECT * FROM order_summaries %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, filters.Offset)

	var summaries []domain.OrderSummary
	err = r.db.SelectContext(ctx, &summaries, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orderSummaryRepo.ListByTenant: %w", err)
	}
	return summaries, total, nil
}

// summaryFilterClause builds the WHERE clause shared by summary and report
// queries. tenant_id always comes first; optional filters append in a fixed
// order so positional arguments stay aligned.
func summaryFilterClause(tenantID uuid.UUID, filters domain.ReportFilters) (string, []interface{}) {
	where := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}

	if filters.BatchID != nil {
		args = append(args, *filters.BatchID)
		where += fmt.Sprintf(" AND batch_id = $%d", len(args))
	}
	if filters.Supplier != "" {
		args = append(args, filters.Supplier)
		where += fmt.Sprintf(" AND supplier = $%d", len(args))
	}
	if filters.AuditStatus != "" {
		args = append(args, filters.AuditStatus)
		where += fmt.Sprintf(" AND audit_status = $%d", len(args))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		where += fmt.Sprintf(" AND order_date >= $%d", len(args))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		where += fmt.Sprintf(" AND order_date <= $%d", len(args))
	}
	return where, args
}
