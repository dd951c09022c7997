package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// CatalogRepository defines the contract for supplier price catalog data access.
type CatalogRepository interface {
	UpsertBatch(ctx context.Context, entries []domain.CatalogEntry) error
	LoadAll(ctx context.Context, tenantID uuid.UUID) ([]domain.CatalogEntry, error)
	FindBySupplierProduct(ctx context.Context, tenantID uuid.UUID, supplier, productName string) (*domain.CatalogEntry, error)
}
