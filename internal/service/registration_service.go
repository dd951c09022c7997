package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"poaudit/internal/config"
	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// RegisterInput is the DTO for free-tier self-registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// RegisterOutput contains the results of a successful registration.
type RegisterOutput struct {
	User   *domain.User  `json:"user"`
	Batch  *domain.Batch `json:"batch"`
	Tokens *TokenPair    `json:"tokens"`
}

// RegistrationService defines the self-registration contract for free-tier users.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, tenantID, userID uuid.UUID) error
}

type registrationService struct {
	tenantRepo  port.TenantRepository
	userRepo    port.UserRepository
	batchRepo   port.BatchRepository
	permRepo    port.BatchPermissionRepository
	authSvc     AuthService
	emailSender port.EmailSender
	jwtCfg      config.JWTConfig
	freeTierCfg config.FreeTierConfig
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	tenantRepo port.TenantRepository,
	userRepo port.UserRepository,
	batchRepo port.BatchRepository,
	permRepo port.BatchPermissionRepository,
	authSvc AuthService,
	emailSender port.EmailSender,
	jwtCfg config.JWTConfig,
	freeTierCfg config.FreeTierConfig,
) RegistrationService {
	return &registrationService{
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		batchRepo:   batchRepo,
		permRepo:    permRepo,
		authSvc:     authSvc,
		emailSender: emailSender,
		jwtCfg:      jwtCfg,
		freeTierCfg: freeTierCfg,
	}
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	// Look up the shared free-tier tenant
	tenant, err := s.tenantRepo.GetBySlug(ctx, s.freeTierCfg.TenantSlug)
	if err != nil {
		return nil, fmt.Errorf("looking up free tier tenant: %w", err)
	}
	if !tenant.IsActive {
		return nil, domain.ErrTenantInactive
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// Create user with free role and quota
	user := &domain.User{
		TenantID:          tenant.ID,
		Email:             input.Email,
		PasswordHash:      string(hash),
		FullName:          input.FullName,
		Role:              domain.RoleFree,
		IsActive:          true,
		MonthlyOrderLimit: s.freeTierCfg.MonthlyLimit,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrDuplicateEmail propagates naturally
	}

	// Create personal batch
	batch := &domain.Batch{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		Name:        input.FullName + "'s Orders",
		Description: "Personal purchase order batch",
		CreatedBy:   user.ID,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("creating personal batch: %w", err)
	}

	// Assign owner permission on the batch
	ownerPerm := &domain.BatchPermissionEntry{
		BatchID:    batch.ID,
		TenantID:   tenant.ID,
		UserID:     user.ID,
		Permission: domain.BatchPermissionOwner,
		GrantedBy:  user.ID,
	}
	if err := s.permRepo.Upsert(ctx, ownerPerm); err != nil {
		return nil, fmt.Errorf("assigning batch permission: %w", err)
	}

	// Generate tokens by logging in
	tokens, err := s.authSvc.Login(ctx, LoginInput{
		TenantSlug: s.freeTierCfg.TenantSlug,
		Email:      input.Email,
		Password:   input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.sendVerificationEmail(ctx, user)

	return &RegisterOutput{
		User:   user,
		Batch:  batch,
		Tokens: tokens,
	}, nil
}

// VerifyEmail consumes an email verification token and marks the user verified.
func (s *registrationService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.parseVerificationToken(token)
	if err != nil {
		return domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.userRepo.SetEmailVerified(ctx, claims.TenantID, claims.UserID)
}

// ResendVerification issues a fresh verification email for an unverified user.
func (s *registrationService) ResendVerification(ctx context.Context, tenantID, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	s.sendVerificationEmail(ctx, user)
	return nil
}

// sendVerificationEmail is best-effort: registration never fails because the
// verification email could not be sent.
func (s *registrationService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.generateVerificationToken(user)
	if err != nil {
		log.Printf("WARNING: failed to generate verification token for %s: %v", user.Email, err)
		return
	}
	if err := s.emailSender.SendVerificationEmail(ctx, user.Email, user.FullName, token); err != nil {
		log.Printf("WARNING: failed to send verification email to %s: %v", user.Email, err)
	}
}

func (s *registrationService) generateVerificationToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			Audience:  jwt.ClaimStrings{"email-verification"},
		},
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func (s *registrationService) parseVerificationToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing verification token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	for _, a := range aud {
		if a == "email-verification" {
			return claims, nil
		}
	}
	return nil, domain.ErrUnauthorized
}
