package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/google/uuid"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// CreateBatchInput is the DTO for creating a batch.
type CreateBatchInput struct {
	TenantID    uuid.UUID
	CreatedBy   uuid.UUID
	Role        domain.UserRole
	Name        string
	Description string
}

// UpdateBatchInput is the DTO for updating a batch.
type UpdateBatchInput struct {
	TenantID    uuid.UUID
	BatchID     uuid.UUID
	UserID      uuid.UUID
	Role        domain.UserRole
	Name        string
	Description string
}

// SetPermissionInput is the DTO for setting a batch permission.
type SetPermissionInput struct {
	TenantID   uuid.UUID
	BatchID    uuid.UUID
	GrantedBy  uuid.UUID
	CallerRole domain.UserRole
	UserID     uuid.UUID
	Permission domain.BatchPermission
}

// BatchUploadFileInput represents a single file in a batch upload.
type BatchUploadFileInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// BatchUploadResult contains per-file results from a batch upload.
type BatchUploadResult struct {
	FileName string           `json:"file_name"`
	Success  bool             `json:"success"`
	File     *domain.FileMeta `json:"file,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// BatchService defines the batch management contract.
type BatchService interface {
	Create(ctx context.Context, input *CreateBatchInput) (*domain.Batch, error)
	GetByID(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) (*domain.Batch, error)
	List(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Batch, int, error)
	Update(ctx context.Context, input *UpdateBatchInput) (*domain.Batch, error)
	Delete(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) error
	GetProgress(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) (*domain.BatchProgress, error)
	ListFiles(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.FileMeta, int, error)
	BatchUploadFiles(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, files []BatchUploadFileInput) ([]BatchUploadResult, error)
	RemoveFile(ctx context.Context, tenantID, batchID, fileID, userID uuid.UUID, role domain.UserRole) error
	AddFileToBatch(ctx context.Context, tenantID, batchID, fileID, userID uuid.UUID, role domain.UserRole) error
	SetPermission(ctx context.Context, input *SetPermissionInput) error
	ListPermissions(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.BatchPermissionEntry, int, error)
	RemovePermission(ctx context.Context, tenantID, batchID, targetUserID, userID uuid.UUID, role domain.UserRole) error
	EffectivePermission(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole) domain.BatchPermission
	EffectivePermissions(ctx context.Context, batchIDs []uuid.UUID, userID uuid.UUID, role domain.UserRole) (map[uuid.UUID]domain.BatchPermission, error)
}

type batchService struct {
	batchRepo port.BatchRepository
	permRepo  port.BatchPermissionRepository
	fileRepo  port.BatchFileRepository
	fileSvc   FileService
	userRepo  port.UserRepository
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	batchRepo port.BatchRepository,
	permRepo port.BatchPermissionRepository,
	fileRepo port.BatchFileRepository,
	fileSvc FileService,
	userRepo port.UserRepository,
) BatchService {
	return &batchService{
		batchRepo: batchRepo,
		permRepo:  permRepo,
		fileRepo:  fileRepo,
		fileSvc:   fileSvc,
		userRepo:  userRepo,
	}
}

// effectivePermission computes the effective batch permission for a user
// based on their tenant role and explicit batch permission.
// effective = max(implicit_from_role, explicit_batch_perm)
func (s *batchService) effectivePermission(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole) domain.BatchPermission {
	implicit := domain.ImplicitBatchPerm(role)

	explicit := domain.BatchPermission("")
	perm, err := s.permRepo.GetByBatchAndUser(ctx, batchID, userID)
	if err == nil {
		explicit = perm.Permission
	}

	if domain.BatchPermLevel(implicit) >= domain.BatchPermLevel(explicit) {
		return implicit
	}
	return explicit
}

// requirePermission checks that the user's effective permission meets the minimum level.
func (s *batchService) requirePermission(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole, minLevel domain.BatchPermission) error {
	eff := s.effectivePermission(ctx, batchID, userID, role)
	if domain.BatchPermLevel(eff) < domain.BatchPermLevel(minLevel) {
		return domain.ErrBatchPermDenied
	}
	return nil
}

func (s *batchService) Create(ctx context.Context, input *CreateBatchInput) (*domain.Batch, error) {
	batch := &domain.Batch{
		ID:          uuid.New(),
		TenantID:    input.TenantID,
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
	}

	log.Printf("batchService.Create: creating batch %s for tenant %s by user %s",
		batch.ID, input.TenantID, input.CreatedBy)

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		log.Printf("batchService.Create: failed to create batch: %v", err)
		return nil, fmt.Errorf("creating batch: %w", err)
	}

	// Auto-assign owner permission to creator
	ownerPerm := &domain.BatchPermissionEntry{
		BatchID:    batch.ID,
		TenantID:   input.TenantID,
		UserID:     input.CreatedBy,
		Permission: domain.BatchPermissionOwner,
		GrantedBy:  input.CreatedBy,
	}
	if err := s.permRepo.Upsert(ctx, ownerPerm); err != nil {
		log.Printf("batchService.Create: failed to assign owner permission for batch %s: %v",
			batch.ID, err)
		return nil, fmt.Errorf("assigning owner permission: %w", err)
	}

	log.Printf("batchService.Create: batch %s created successfully", batch.ID)
	return batch, nil
}

func (s *batchService) GetByID(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) (*domain.Batch, error) {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, err
	}
	return s.batchRepo.GetByID(ctx, tenantID, batchID)
}

func (s *batchService) List(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Batch, int, error) {
	// Admin and member see all batches in the tenant
	if role == domain.RoleAdmin || role == domain.RoleMember {
		return s.batchRepo.ListByTenant(ctx, tenantID, offset, limit)
	}
	// Free-tier users only see batches they have explicit permission for
	return s.batchRepo.ListByUser(ctx, tenantID, userID, offset, limit)
}

func (s *batchService) Update(ctx context.Context, input *UpdateBatchInput) (*domain.Batch, error) {
	if err := s.requirePermission(ctx, input.BatchID, input.UserID, input.Role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.GetByID(ctx, input.TenantID, input.BatchID)
	if err != nil {
		return nil, err
	}

	batch.Name = input.Name
	batch.Description = input.Description

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}

	return batch, nil
}

func (s *batchService) Delete(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) error {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionOwner); err != nil {
		return err
	}
	log.Printf("batchService.Delete: deleting batch %s by user %s", batchID, userID)
	return s.batchRepo.Delete(ctx, tenantID, batchID)
}

func (s *batchService) GetProgress(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) (*domain.BatchProgress, error) {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, err
	}
	return s.batchRepo.GetProgress(ctx, tenantID, batchID)
}

func (s *batchService) ListFiles(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.FileMeta, int, error) {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionViewer); err != nil {
		return nil, 0, err
	}
	return s.fileRepo.ListByBatch(ctx, tenantID, batchID, offset, limit)
}

func (s *batchService) BatchUploadFiles(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, files []BatchUploadFileInput) ([]BatchUploadResult, error) {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return nil, err
	}

	log.Printf("batchService.BatchUploadFiles: uploading %d files to batch %s by user %s",
		len(files), batchID, userID)

	results := make([]BatchUploadResult, 0, len(files))
	for _, f := range files {
		result := BatchUploadResult{FileName: f.Header.Filename}

		meta, err := s.fileSvc.Upload(ctx, FileUploadInput{
			TenantID:   tenantID,
			UploadedBy: userID,
			File:       f.File,
			Header:     f.Header,
		})
		if err != nil {
			log.Printf("batchService.BatchUploadFiles: failed to upload file %s: %v",
				f.Header.Filename, err)
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		// Associate file with batch
		bf := &domain.BatchFile{
			BatchID:  batchID,
			FileID:   meta.ID,
			TenantID: tenantID,
			AddedBy:  userID,
		}
		if err := s.fileRepo.Add(ctx, bf); err != nil {
			result.Error = fmt.Sprintf("uploaded but failed to add to batch: %s", err.Error())
			result.File = meta
			results = append(results, result)
			continue
		}

		result.Success = true
		result.File = meta
		results = append(results, result)
	}

	return results, nil
}

func (s *batchService) RemoveFile(ctx context.Context, tenantID, batchID, fileID, userID uuid.UUID, role domain.UserRole) error {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return err
	}
	return s.fileRepo.Remove(ctx, batchID, fileID)
}

func (s *batchService) AddFileToBatch(ctx context.Context, tenantID, batchID, fileID, userID uuid.UUID, role domain.UserRole) error {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionEditor); err != nil {
		return err
	}
	bf := &domain.BatchFile{
		BatchID:  batchID,
		FileID:   fileID,
		TenantID: tenantID,
		AddedBy:  userID,
	}
	return s.fileRepo.Add(ctx, bf)
}

func (s *batchService) SetPermission(ctx context.Context, input *SetPermissionInput) error {
	if !domain.ValidBatchPermissions[input.Permission] {
		return domain.ErrInvalidPermission
	}
	if err := s.requirePermission(ctx, input.BatchID, input.GrantedBy, input.CallerRole, domain.BatchPermissionOwner); err != nil {
		return err
	}

	// Verify the target user exists in this tenant
	if _, err := s.userRepo.GetByID(ctx, input.TenantID, input.UserID); err != nil {
		return fmt.Errorf("target user not found in tenant: %w", domain.ErrNotFound)
	}

	log.Printf("batchService.SetPermission: setting %s permission for user %s on batch %s by user %s",
		input.Permission, input.UserID, input.BatchID, input.GrantedBy)

	perm := &domain.BatchPermissionEntry{
		BatchID:    input.BatchID,
		TenantID:   input.TenantID,
		UserID:     input.UserID,
		Permission: input.Permission,
		GrantedBy:  input.GrantedBy,
	}
	return s.permRepo.Upsert(ctx, perm)
}

func (s *batchService) ListPermissions(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.BatchPermissionEntry, int, error) {
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionOwner); err != nil {
		return nil, 0, err
	}
	return s.permRepo.ListByBatch(ctx, batchID, offset, limit)
}

func (s *batchService) RemovePermission(ctx context.Context, tenantID, batchID, targetUserID, userID uuid.UUID, role domain.UserRole) error {
	if targetUserID == userID {
		return domain.ErrSelfPermissionRemoval
	}
	if err := s.requirePermission(ctx, batchID, userID, role, domain.BatchPermissionOwner); err != nil {
		return err
	}
	log.Printf("batchService.RemovePermission: removing permission for user %s on batch %s by user %s",
		targetUserID, batchID, userID)
	return s.permRepo.Delete(ctx, batchID, targetUserID)
}

// EffectivePermission returns the effective batch permission for a user,
// combining their tenant role's implicit permission with any explicit grant.
func (s *batchService) EffectivePermission(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole) domain.BatchPermission {
	return s.effectivePermission(ctx, batchID, userID, role)
}

// EffectivePermissions returns the effective permission for a user across multiple batches.
// Optimized: admin always gets owner, everyone else does a single batch query.
func (s *batchService) EffectivePermissions(ctx context.Context, batchIDs []uuid.UUID, userID uuid.UUID, role domain.UserRole) (map[uuid.UUID]domain.BatchPermission, error) {
	result := make(map[uuid.UUID]domain.BatchPermission, len(batchIDs))

	// Admin always has owner-level access
	if role == domain.RoleAdmin {
		for _, id := range batchIDs {
			result[id] = domain.BatchPermissionOwner
		}
		return result, nil
	}

	// Member/free: batch-query explicit permissions
	implicit := domain.ImplicitBatchPerm(role)
	explicitPerms, err := s.permRepo.GetByUserForBatches(ctx, userID, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("computing effective permissions: %w", err)
	}

	for _, id := range batchIDs {
		explicit, ok := explicitPerms[id]
		if ok && domain.BatchPermLevel(explicit) > domain.BatchPermLevel(implicit) {
			result[id] = explicit
		} else {
			result[id] = implicit
		}
	}
	return result, nil
}
