package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// OrderRepository defines the contract for purchase order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.PurchaseOrder) error
	GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*domain.PurchaseOrder, error)
	GetByFileID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.PurchaseOrder, error)
	ListByBatch(ctx context.Context, tenantID, batchID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListByUserBatches(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListExtracted(ctx context.Context, offset, limit int) ([]domain.PurchaseOrder, error)
	ClaimQueued(ctx context.Context, limit int) ([]domain.PurchaseOrder, error)
	UpdateExtraction(ctx context.Context, order *domain.PurchaseOrder) error
	UpdateAuditStatus(ctx context.Context, order *domain.PurchaseOrder) error
	UpdateReviewStatus(ctx context.Context, order *domain.PurchaseOrder) error
	Delete(ctx context.Context, tenantID, orderID uuid.UUID) error
}

// OrderTagRepository defines the contract for order tag persistence.
type OrderTagRepository interface {
	CreateBatch(ctx context.Context, tags []domain.OrderTag) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderTag, error)
	SearchByTag(ctx context.Context, tenantID uuid.UUID, key, value string, offset, limit int) ([]domain.PurchaseOrder, int, error)
	DeleteByID(ctx context.Context, orderID, tagID uuid.UUID) error
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
}

// ValidationRuleRepository defines the contract for validation rule persistence.
type ValidationRuleRepository interface {
	Create(ctx context.Context, rule *domain.ValidationRule) error
	GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*domain.ValidationRule, error)
	ListActive(ctx context.Context, tenantID uuid.UUID, batchID *uuid.UUID) ([]domain.ValidationRule, error)
	ListBuiltinKeys(ctx context.Context, tenantID uuid.UUID) ([]string, error)
	Update(ctx context.Context, rule *domain.ValidationRule) error
	Delete(ctx context.Context, tenantID, ruleID uuid.UUID) error
}

// ValidationResultRepository defines the contract for per-order validation result persistence.
type ValidationResultRepository interface {
	ReplaceForOrder(ctx context.Context, orderID uuid.UUID, results []domain.ValidationResult) error
	ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]domain.ValidationResult, error)
}
