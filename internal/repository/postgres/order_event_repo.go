package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type orderEventRepo struct {
	db *sqlx.DB
}

// NewOrderEventRepo creates a new PostgreSQL-backed OrderEventRepository.
func NewOrderEventRepo(db *sqlx.DB) port.OrderEventRepository {
	return &orderEventRepo{db: db}
}

func (r *orderEventRepo) Create(ctx context.Context, event *domain.OrderEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_events (id, order_id, tenant_id, action, changes, actor_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.OrderID, event.TenantID, event.Action, event.Changes, event.ActorID)
	if err != nil {
		return fmt.Errorf("orderEventRepo.Create: %w", err)
	}
	return nil
}

func (r *orderEventRepo) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID, offset, limit int) ([]domain.OrderEvent, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM order_events WHERE tenant_id = $1 AND order_id = $2`,
		tenantID, orderID)
	if err != nil {
		return nil, 0, fmt.Errorf("orderEventRepo.ListByOrder count: %w", err)
	}

	var events []domain.OrderEvent
	err = r.db.SelectContext(ctx, &events,
		`SELECT * FROM order_events
		 WHERE tenant_id = $1 AND order_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		tenantID, orderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderEventRepo.ListByOrder: %w", err)
	}
	return events, total, nil
}
