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

type catalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a new PostgreSQL-backed CatalogRepository.
func NewCatalogRepo(db *sqlx.DB) port.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) UpsertBatch(ctx context.Context, entries []domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(entries))
	valueArgs := make([]interface{}, 0, len(entries)*8)

	for i, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		base := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			e.ID, e.TenantID, e.Supplier, e.ProductName, e.ListPrice, e.Currency, now, now)
	}

	query := fmt.Sprintf(
		`INSERT INTO catalog_entries
			(id, tenant_id, supplier, product_name, list_price, currency, created_at, updated_at)
		 VALUES %s
		 ON CONFLICT (tenant_id, supplier, product_name) DO UPDATE SET
			list_price = EXCLUDED.list_price,
			currency = EXCLUDED.currency,
			updated_at = EXCLUDED.updated_at`,
		strings.Join(valueStrings, ", "))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("catalogRepo.UpsertBatch: %w", err)
	}
	return nil
}

func (r *catalogRepo) LoadAll(ctx context.Context, tenantID uuid.UUID) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM catalog_entries
		 WHERE tenant_id = $1
		 ORDER BY supplier, product_name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.LoadAll: %w", err)
	}
	return entries, nil
}

func (r *catalogRepo) FindBySupplierProduct(ctx context.Context, tenantID uuid.UUID, supplier, productName string) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := r.db.GetContext(ctx, &entry,
		`SELECT * FROM catalog_entries
		 WHERE tenant_id = $1 AND supplier = $2 AND product_name = $3`,
		tenantID, supplier, productName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCatalogEntryNotFound
		}
		return nil, fmt.Errorf("catalogRepo.FindBySupplierProduct: %w", err)
	}
	return &entry, nil
}
