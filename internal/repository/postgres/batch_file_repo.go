package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type batchFileRepo struct {
	db *sqlx.DB
}

// NewBatchFileRepo creates a new PostgreSQL-backed BatchFileRepository.
func NewBatchFileRepo(db *sqlx.DB) port.BatchFileRepository {
	return &batchFileRepo{db: db}
}

func (r *batchFileRepo) Add(ctx context.Context, bf *domain.BatchFile) error {
	bf.AddedAt = time.Now().UTC()

	query := `INSERT INTO batch_files (batch_id, file_id, tenant_id, added_by, added_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		bf.BatchID, bf.FileID, bf.TenantID, bf.AddedBy, bf.AddedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateBatchFile
		}
		return fmt.Errorf("batchFileRepo.Add: %w", err)
	}
	return nil
}

func (r *batchFileRepo) Remove(ctx context.Context, batchID, fileID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM batch_files WHERE batch_id = $1 AND file_id = $2",
		batchID, fileID)
	if err != nil {
		return fmt.Errorf("batchFileRepo.Remove: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *batchFileRepo) ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM batch_files bf
		 INNER JOIN file_metadata fm ON fm.id = bf.file_id
		 WHERE bf.batch_id = $1 AND bf.tenant_id = $2 AND fm.status != $3`,
		batchID, tenantID, domain.FileStatusDeleted)
	if err != nil {
		return nil, 0, fmt.Errorf("batchFileRepo.ListByBatch count: %w", err)
	}

	var files []domain.FileMeta
	err = r.db.SelectContext(ctx, &files,
		`SELECT fm.* FROM file_metadata fm
		 INNER JOIN batch_files bf ON bf.file_id = fm.id
		 WHERE bf.batch_id = $1 AND bf.tenant_id = $2 AND fm.status != $3
		 ORDER BY bf.added_at DESC LIMIT $4 OFFSET $5`,
		batchID, tenantID, domain.FileStatusDeleted, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchFileRepo.ListByBatch: %w", err)
	}
	return files, total, nil
}
