package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Create(ctx context.Context, b *domain.Batch) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `INSERT INTO batches (id, tenant_id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.TenantID, b.Name, b.Description, b.CreatedBy, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.Create: %w", err)
	}
	return nil
}

func (r *batchRepo) GetByID(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.Batch, error) {
	var b domain.Batch
	err := r.db.GetContext(ctx, &b,
		"SELECT * FROM batches WHERE id = $1 AND tenant_id = $2", batchID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetByID: %w", err)
	}
	return &b, nil
}

func (r *batchRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.Batch, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM batches b
		 INNER JOIN batch_permissions bp ON bp.batch_id = b.id
		 WHERE b.tenant_id = $1 AND bp.user_id = $2`,
		tenantID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.ListByUser count: %w", err)
	}

	var batches []domain.Batch
	err = r.db.SelectContext(ctx, &batches,
		`SELECT b.* FROM batches b
		 INNER JOIN batch_permissions bp ON bp.batch_id = b.id
		 WHERE b.tenant_id = $1 AND bp.user_id = $2
		 ORDER BY b.created_at DESC LIMIT $3 OFFSET $4`,
		tenantID, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.ListByUser: %w", err)
	}
	return batches, total, nil
}

func (r *batchRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Batch, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM batches WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.ListByTenant count: %w", err)
	}

	var batches []domain.Batch
	err = r.db.SelectContext(ctx, &batches,
		`SELECT * FROM batches WHERE tenant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.ListByTenant: %w", err)
	}
	return batches, total, nil
}

func (r *batchRepo) GetProgress(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.BatchProgress, error) {
	progress := domain.BatchProgress{BatchID: batchID}
	err := r.db.GetContext(ctx, &progress,
		`SELECT
			$2::uuid AS batch_id,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE extraction_status IN ('pending', 'queued')) AS pending,
			COUNT(*) FILTER (WHERE extraction_status = 'processing') AS processing,
			COUNT(*) FILTER (WHERE extraction_status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE extraction_status = 'failed') AS failed
		 FROM orders WHERE tenant_id = $1 AND batch_id = $2`,
		tenantID, batchID)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.GetProgress: %w", err)
	}
	return &progress, nil
}

func (r *batchRepo) Update(ctx context.Context, b *domain.Batch) error {
	b.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE batches SET name = $1, description = $2, updated_at = $3
		 WHERE id = $4 AND tenant_id = $5`,
		b.Name, b.Description, b.UpdatedAt, b.ID, b.TenantID)
	if err != nil {
		return fmt.Errorf("batchRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *batchRepo) Delete(ctx context.Context, tenantID, batchID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM batches WHERE id = $1 AND tenant_id = $2",
		batchID, tenantID)
	if err != nil {
		return fmt.Errorf("batchRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}
