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

type batchPermissionRepo struct {
	db *sqlx.DB
}

// NewBatchPermissionRepo creates a new PostgreSQL-backed BatchPermissionRepository.
func NewBatchPermissionRepo(db *sqlx.DB) port.BatchPermissionRepository {
	return &batchPermissionRepo{db: db}
}

func (r *batchPermissionRepo) Upsert(ctx context.Context, perm *domain.BatchPermissionEntry) error {
	if perm.ID == uuid.Nil {
		perm.ID = uuid.New()
	}
	perm.CreatedAt = time.Now().UTC()

	query := `INSERT INTO batch_permissions (id, batch_id, tenant_id, user_id, permission, granted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (batch_id, user_id)
		DO UPDATE SET permission = EXCLUDED.permission, granted_by = EXCLUDED.granted_by`

	_, err := r.db.ExecContext(ctx, query,
		perm.ID, perm.BatchID, perm.TenantID, perm.UserID,
		perm.Permission, perm.GrantedBy, perm.CreatedAt)
	if err != nil {
		return fmt.Errorf("batchPermissionRepo.Upsert: %w", err)
	}
	return nil
}

func (r *batchPermissionRepo) GetByBatchAndUser(ctx context.Context, batchID, userID uuid.UUID) (*domain.BatchPermissionEntry, error) {
	var perm domain.BatchPermissionEntry
	err := r.db.GetContext(ctx, &perm,
		"SELECT * FROM batch_permissions WHERE batch_id = $1 AND user_id = $2",
		batchID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchPermDenied
		}
		return nil, fmt.Errorf("batchPermissionRepo.GetByBatchAndUser: %w", err)
	}
	return &perm, nil
}

func (r *batchPermissionRepo) GetByUserForBatches(ctx context.Context, userID uuid.UUID, batchIDs []uuid.UUID) (map[uuid.UUID]domain.BatchPermission, error) {
	result := make(map[uuid.UUID]domain.BatchPermission, len(batchIDs))
	if len(batchIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		"SELECT batch_id, permission FROM batch_permissions WHERE user_id = ? AND batch_id IN (?)",
		userID, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("batchPermissionRepo.GetByUserForBatches: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []struct {
		BatchID    uuid.UUID              `db:"batch_id"`
		Permission domain.BatchPermission `db:"permission"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("batchPermissionRepo.GetByUserForBatches: %w", err)
	}

	for _, row := range rows {
		result[row.BatchID] = row.Permission
	}
	return result, nil
}

func (r *batchPermissionRepo) ListByBatch(ctx context.Context, batchID uuid.UUID, offset, limit int) ([]domain.BatchPermissionEntry, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM batch_permissions WHERE batch_id = $1", batchID)
	if err != nil {
		return nil, 0, fmt.Errorf("batchPermissionRepo.ListByBatch count: %w", err)
	}

	var perms []domain.BatchPermissionEntry
	err = r.db.SelectContext(ctx, &perms,
		`SELECT * FROM batch_permissions
		 WHERE batch_id = $1
		 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		batchID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchPermissionRepo.ListByBatch: %w", err)
	}
	return perms, total, nil
}

func (r *batchPermissionRepo) Delete(ctx context.Context, batchID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM batch_permissions WHERE batch_id = $1 AND user_id = $2",
		batchID, userID)
	if err != nil {
		return fmt.Errorf("batchPermissionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
