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

type orderTagRepo struct {
	db *sqlx.DB
}

// NewOrderTagRepo creates a new PostgreSQL-backed OrderTagRepository.
func NewOrderTagRepo(db *sqlx.DB) port.OrderTagRepository {
	return &orderTagRepo{db: db}
}

func (r *orderTagRepo) CreateBatch(ctx context.Context, tags []domain.OrderTag) error {
	if len(tags) == 0 {
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(tags))
	valueArgs := make([]interface{}, 0, len(tags)*6)

	for i, tag := range tags {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs, tag.ID, tag.OrderID, tag.TenantID, tag.Key, tag.Value, now)
	}

	query := fmt.Sprintf(
		`INSERT INTO order_tags (id, order_id, tenant_id, key, value, created_at) VALUES %s`,
		strings.Join(valueStrings, ", "))

	_, err := r.db.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return fmt.Errorf("orderTagRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *orderTagRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderTag, error) {
	var tags []domain.OrderTag
	err := r.db.SelectContext(ctx, &tags,
		"SELECT * FROM order_tags WHERE order_id = $1 ORDER BY key, value",
		orderID)
	if err != nil {
		return nil, fmt.Errorf("orderTagRepo.ListByOrder: %w", err)
	}
	return tags, nil
}

func (r *orderTagRepo) SearchByTag(ctx context.Context, tenantID uuid.UUID, key, value string, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(DISTINCT o.id) FROM orders o
		 INNER JOIN order_tags ot ON ot.order_id = o.id
		 WHERE ot.tenant_id = $1 AND ot.key = $2 AND ot.value = $3`,
		tenantID, key, value)
	if err != nil {
		return nil, 0, fmt.Errorf("orderTagRepo.SearchByTag count: %w", err)
	}

	var orders []domain.PurchaseOrder
	err = r.db.SelectContext(ctx, &orders,
		`SELECT DISTINCT o.* FROM orders o
		 INNER JOIN order_tags ot ON ot.order_id = o.id
		 WHERE ot.tenant_id = $1 AND ot.key = $2 AND ot.value = $3
		 ORDER BY o.created_at DESC LIMIT $4 OFFSET $5`,
		tenantID, key, value, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderTagRepo.SearchByTag: %w", err)
	}
	return orders, total, nil
}

func (r *orderTagRepo) DeleteByID(ctx context.Context, orderID, tagID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM order_tags WHERE id = $1 AND order_id = $2", tagID, orderID)
	if err != nil {
		return fmt.Errorf("orderTagRepo.DeleteByID: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderTagRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM order_tags WHERE order_id = $1", orderID)
	if err != nil {
		return fmt.Errorf("orderTagRepo.DeleteByOrder: %w", err)
	}
	return nil
}
