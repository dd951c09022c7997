package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// BatchRepository defines the contract for batch persistence.
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.Batch) error
	GetByID(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.Batch, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.Batch, int, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Batch, int, error)
	GetProgress(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.BatchProgress, error)
	Update(ctx context.Context, batch *domain.Batch) error
	Delete(ctx context.Context, tenantID, batchID uuid.UUID) error
}

// BatchPermissionRepository defines the contract for batch permission persistence.
type BatchPermissionRepository interface {
	Upsert(ctx context.Context, perm *domain.BatchPermissionEntry) error
	GetByBatchAndUser(ctx context.Context, batchID, userID uuid.UUID) (*domain.BatchPermissionEntry, error)
	GetByUserForBatches(ctx context.Context, userID uuid.UUID, batchIDs []uuid.UUID) (map[uuid.UUID]domain.BatchPermission, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID, offset, limit int) ([]domain.BatchPermissionEntry, int, error)
	Delete(ctx context.Context, batchID, userID uuid.UUID) error
}

// BatchFileRepository defines the contract for batch-file association persistence.
type BatchFileRepository interface {
	Add(ctx context.Context, bf *domain.BatchFile) error
	Remove(ctx context.Context, batchID, fileID uuid.UUID) error
	ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
}
