package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"poaudit/internal/config"
	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
	// MonthlyOrderLimit overrides the role's default extraction quota.
	// 0 means unlimited.
	MonthlyOrderLimit *int `json:"monthly_order_limit"`
}

// UpdateUserInput is the DTO for updating a user.
type UpdateUserInput struct {
	Email             *string          `json:"email"`
	FullName          *string          `json:"full_name"`
	Role              *domain.UserRole `json:"role"`
	IsActive          *bool            `json:"is_active"`
	MonthlyOrderLimit *int             `json:"monthly_order_limit"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, tenantID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
}

type userService struct {
	repo        port.UserRepository
	freeTierCfg config.FreeTierConfig
}

// NewUserService creates a new UserService implementation. The free tier
// config supplies the default monthly extraction quota for free-role users.
func NewUserService(repo port.UserRepository, freeTierCfg config.FreeTierConfig) UserService {
	return &userService{repo: repo, freeTierCfg: freeTierCfg}
}

// defaultQuota returns the monthly extraction quota a role gets when no
// explicit limit is supplied. Paid roles are unlimited (0).
func (s *userService) defaultQuota(role domain.UserRole) int {
	if role == domain.RoleFree {
		return s.freeTierCfg.MonthlyLimit
	}
	return 0
}

func (s *userService) Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidUserRoles[input.Role] {
		return nil, domain.ErrInsufficientRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	limit := s.defaultQuota(input.Role)
	if input.MonthlyOrderLimit != nil {
		limit = *input.MonthlyOrderLimit
	}

	user := &domain.User{
		TenantID:          tenantID,
		Email:             input.Email,
		PasswordHash:      string(hash),
		FullName:          input.FullName,
		Role:              input.Role,
		IsActive:          true,
		MonthlyOrderLimit: limit,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, tenantID, userID)
}

func (s *userService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.repo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *userService) Update(ctx context.Context, tenantID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		if !domain.ValidUserRoles[*input.Role] {
			return nil, domain.ErrInsufficientRole
		}
		// A role change resets the quota to the new role's default unless the
		// request sets one explicitly. Moving someone to the free tier without
		// this would leave them with an unlimited quota.
		if *input.Role != user.Role && input.MonthlyOrderLimit == nil {
			user.MonthlyOrderLimit = s.defaultQuota(*input.Role)
		}
		user.Role = *input.Role
	}
	if input.MonthlyOrderLimit != nil {
		user.MonthlyOrderLimit = *input.MonthlyOrderLimit
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, userID)
}
