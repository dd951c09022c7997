package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

// reportWhereClause constructs a dynamic WHERE clause for order_summaries
// report queries. It returns the clause string (starting with "WHERE") and
// the positional arguments.
func reportWhereClause(tenantID uuid.UUID, filters domain.ReportFilters) (clause string, args []interface{}) {
	args = []interface{}{tenantID}
	clause = "WHERE os.tenant_id = $1"

	if filters.BatchID != nil {
		args = append(args, *filters.BatchID)
		clause += fmt.Sprintf(" AND os.batch_id = $%d", len(args))
	}
	if filters.Supplier != "" {
		args = append(args, filters.Supplier)
		clause += fmt.Sprintf(" AND os.supplier = $%d", len(args))
	}
	if filters.AuditStatus != "" {
		args = append(args, filters.AuditStatus)
		clause += fmt.Sprintf(" AND os.audit_status = $%d", len(args))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		clause += fmt.Sprintf(" AND os.order_date >= $%d", len(args))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		clause += fmt.Sprintf(" AND os.order_date <= $%d", len(args))
	}
	return clause, args
}

func reportLimit(filters domain.ReportFilters) int {
	if filters.Limit <= 0 {
		return 50
	}
	return filters.Limit
}

func (r *reportRepo) SupplierSummary(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.SupplierSummaryRow, int, error) {
	whereClause, args := reportWhereClause(tenantID, filters)

	dataQuery := fmt.Sprintf(`SELECT
		supplier,
		COUNT(*) AS order_count,
		COALESCE(SUM(line_item_count), 0) AS line_item_count,
		COALESCE(SUM(total_amount), 0) AS total_amount,
		COALESCE(SUM(pass_count), 0) AS pass_count,
		COALESCE(SUM(warning_count), 0) AS warning_count,
		COALESCE(SUM(failure_count), 0) AS failure_count,
		COALESCE(AVG(confidence), 0) AS avg_confidence
	FROM order_summaries os
	%s
	AND supplier != ''
	GROUP BY supplier
	ORDER BY total_amount DESC
	OFFSET %d LIMIT %d`, whereClause, filters.Offset, reportLimit(filters))

	var rows []domain.SupplierSummaryRow
	if err := r.db.SelectContext(ctx, &rows, dataQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.SupplierSummary: %w", err)
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(DISTINCT supplier) FROM order_summaries os %s AND supplier != ''`,
		whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.SupplierSummary count: %w", err)
	}

	return rows, total, nil
}

func (r *reportRepo) BatchOverview(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.BatchOverviewRow, error) {
	whereClause, args := reportWhereClause(tenantID, filters)

	query := fmt.Sprintf(`SELECT
		os.batch_id,
		MAX(b.name) AS batch_name,
		COUNT(*) AS order_count,
		COUNT(CASE WHEN os.extraction_status = 'completed' THEN 1 END) AS completed,
		COUNT(CASE WHEN os.extraction_status = 'failed' THEN 1 END) AS failed,
		COALESCE(SUM(os.warning_count), 0) AS warning_count,
		COALESCE(SUM(os.failure_count), 0) AS failure_count,
		COALESCE(SUM(os.total_amount), 0) AS total_amount,
		COALESCE(AVG(os.confidence), 0) AS avg_confidence
	FROM order_summaries os
	INNER JOIN batches b ON b.id = os.batch_id
	%s
	GROUP BY os.batch_id
	ORDER BY MAX(os.updated_at) DESC
	OFFSET %d LIMIT %d`, whereClause, filters.Offset, reportLimit(filters))

	var rows []domain.BatchOverviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("reportRepo.BatchOverview: %w", err)
	}
	return rows, nil
}

// DiscrepantOrders lists summaries whose audit found at least one warning or
// failure, worst first, for the reviewer triage queue.
func (r *reportRepo) DiscrepantOrders(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error) {
	whereClause, args := reportWhereClause(tenantID, filters)
	whereClause += " AND (os.failure_count > 0 OR os.warning_count > 0)"

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM order_summaries os %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.DiscrepantOrders count: %w", err)
	}

	dataQuery := fmt.Sprintf(`SELECT os.* FROM order_summaries os
	%s
	ORDER BY os.failure_count DESC, os.warning_count DESC, os.updated_at DESC
	OFFSET %d LIMIT %d`, whereClause, filters.Offset, reportLimit(filters))

	var rows []domain.OrderSummary
	if err := r.db.SelectContext(ctx, &rows, dataQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.DiscrepantOrders: %w", err)
	}
	return rows, total, nil
}

func (r *reportRepo) MonthlyVolume(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyVolumeRow, error) {
	if months <= 0 {
		months = 12
	}
	var rows []domain.MonthlyVolumeRow
	err := r.db.SelectContext(ctx, &rows, `SELECT
		to_char(date_trunc('month', order_date), 'YYYY-MM') AS month,
		COUNT(*) AS order_count,
		COALESCE(SUM(total_amount), 0) AS total_amount,
		COALESCE(SUM(failure_count), 0) AS failure_count
	FROM order_summaries
	WHERE tenant_id = $1
	  AND order_date IS NOT NULL
	  AND order_date >= date_trunc('month', NOW()) - ($2 || ' months')::interval
	GROUP BY date_trunc('month', order_date)
	ORDER BY date_trunc('month', order_date) DESC`,
		tenantID, months)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.MonthlyVolume: %w", err)
	}
	return rows, nil
}
