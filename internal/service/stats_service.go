package service

import (
	"context"

	"github.com/google/uuid"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// StatsService provides aggregate processing statistics.
type StatsService interface {
	GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.TenantStats, error)
	GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.UserStats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetTenantStats(ctx context.Context, tenantID uuid.UUID) (*domain.TenantStats, error) {
	return s.statsRepo.GetTenantStats(ctx, tenantID)
}

func (s *statsService) GetUserStats(ctx context.Context, tenantID, userID uuid.UUID) (*domain.UserStats, error) {
	return s.statsRepo.GetUserStats(ctx, tenantID, userID)
}
