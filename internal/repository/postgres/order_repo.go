package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, ord *domain.PurchaseOrder) error {
	now := time.Now().UTC()
	ord.CreatedAt = now
	ord.UpdatedAt = now

	query := `INSERT INTO orders (
		id, tenant_id, batch_id, file_id,
		extractor_model, extractor_prompt, structured_data, confidence_scores, field_provenance,
		confidence, fallback_used,
		extraction_status, extraction_error, extract_attempts, retry_after, extracted_at,
		audit_status, review_status, reviewed_by, reviewed_at, reviewer_notes,
		created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9,
		$10, $11,
		$12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21,
		$22, $23, $24
	)`

	_, err := r.db.ExecContext(ctx, query,
		ord.ID, ord.TenantID, ord.BatchID, ord.FileID,
		ord.ExtractorModel, ord.ExtractorPrompt, ord.StructuredData, ord.ConfidenceScores, ord.FieldProvenance,
		ord.Confidence, ord.FallbackUsed,
		ord.ExtractionStatus, ord.ExtractionError, ord.ExtractAttempts, ord.RetryAfter, ord.ExtractedAt,
		ord.AuditStatus, ord.ReviewStatus, ord.ReviewedBy, ord.ReviewedAt, ord.ReviewerNotes,
		ord.CreatedBy, ord.CreatedAt, ord.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "file_id") {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("orderRepo.Create: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*domain.PurchaseOrder, error) {
	var ord domain.PurchaseOrder
	err := r.db.GetContext(ctx, &ord,
		"SELECT * FROM orders WHERE id = $1 AND tenant_id = $2", orderID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetByID: %w", err)
	}
	return &ord, nil
}

func (r *orderRepo) GetByFileID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.PurchaseOrder, error) {
	var ord domain.PurchaseOrder
	err := r.db.GetContext(ctx, &ord,
		"SELECT * FROM orders WHERE file_id = $1 AND tenant_id = $2", fileID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetByFileID: %w", err)
	}
	return &ord, nil
}

func (r *orderRepo) ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM orders WHERE tenant_id = $1 AND batch_id = $2",
		tenantID, batchID)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByBatch count: %w", err)
	}

	var orders []domain.PurchaseOrder
	err = r.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE tenant_id = $1 AND batch_id = $2
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		tenantID, batchID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByBatch: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM orders WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByTenant count: %w", err)
	}

	var orders []domain.PurchaseOrder
	err = r.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByTenant: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListByUserBatches(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM orders o
		 INNER JOIN batch_permissions bp ON bp.batch_id = o.batch_id
		 WHERE o.tenant_id = $1 AND bp.user_id = $2`,
		tenantID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByUserBatches count: %w", err)
	}

	var orders []domain.PurchaseOrder
	err = r.db.SelectContext(ctx, &orders,
		`SELECT o.* FROM orders o
		 INNER JOIN batch_permissions bp ON bp.batch_id = o.batch_id
		 WHERE o.tenant_id = $1 AND bp.user_id = $2
		 ORDER BY o.created_at DESC LIMIT $3 OFFSET $4`,
		tenantID, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.ListByUserBatches: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListExtracted(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	err := r.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE extraction_status = $1
		 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		domain.ExtractionStatusCompleted, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListExtracted: %w", err)
	}
	return orders, nil
}

// ClaimQueued atomically flips up to limit queued orders to processing and
// returns them, so concurrent workers never pick up the same order twice.
func (r *orderRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	err := r.db.SelectContext(ctx, &orders,
		`UPDATE orders SET extraction_status = $1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM orders
			WHERE extraction_status = $2 AND (retry_after IS NULL OR retry_after <= NOW())
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.ExtractionStatusProcessing, domain.ExtractionStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ClaimQueued: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) UpdateExtraction(ctx context.Context, ord *domain.PurchaseOrder) error {
	ord.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET
			structured_data = $1, confidence_scores = $2, field_provenance = $3,
			confidence = $4, fallback_used = $5,
			extraction_status = $6, extraction_error = $7, extract_attempts = $8,
			retry_after = $9, extracted_at = $10,
			extractor_model = $11, extractor_prompt = $12, updated_at = $13
		 WHERE id = $14 AND tenant_id = $15`,
		ord.StructuredData, ord.ConfidenceScores, ord.FieldProvenance,
		ord.Confidence, ord.FallbackUsed,
		ord.ExtractionStatus, ord.ExtractionError, ord.ExtractAttempts,
		ord.RetryAfter, ord.ExtractedAt,
		ord.ExtractorModel, ord.ExtractorPrompt, ord.UpdatedAt,
		ord.ID, ord.TenantID)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdateExtraction: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) UpdateAuditStatus(ctx context.Context, ord *domain.PurchaseOrder) error {
	ord.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET audit_status = $1, confidence = $2, updated_at = $3
		 WHERE id = $4 AND tenant_id = $5`,
		ord.AuditStatus, ord.Confidence, ord.UpdatedAt, ord.ID, ord.TenantID)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdateAuditStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) UpdateReviewStatus(ctx context.Context, ord *domain.PurchaseOrder) error {
	ord.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET
			review_status = $1, reviewed_by = $2, reviewed_at = $3,
			reviewer_notes = $4, updated_at = $5
		 WHERE id = $6 AND tenant_id = $7`,
		ord.ReviewStatus, ord.ReviewedBy, ord.ReviewedAt,
		ord.ReviewerNotes, ord.UpdatedAt,
		ord.ID, ord.TenantID)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdateReviewStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM orders WHERE id = $1 AND tenant_id = $2",
		orderID, tenantID)
	if err != nil {
		return fmt.Errorf("orderRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
