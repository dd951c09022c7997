package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// OrderEventRepository defines the contract for the order audit trail.
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID, offset, limit int) ([]domain.OrderEvent, int, error)
}
