package port

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// StatsRepository provides aggregate statistics queries.
type StatsRepository interface {
	GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.TenantStats, error)
	GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.UserStats, error)
}
