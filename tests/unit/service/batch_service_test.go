package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poaudit/internal/domain"
	"poaudit/internal/service"
	"poaudit/mocks"
)

func setupBatchService() (
	service.BatchService,
	*mocks.MockBatchRepo,
	*mocks.MockBatchPermissionRepo,
	*mocks.MockBatchFileRepo,
	*mocks.MockFileService,
) {
	batchRepo := new(mocks.MockBatchRepo)
	permRepo := new(mocks.MockBatchPermissionRepo)
	fileRepo := new(mocks.MockBatchFileRepo)
	fileSvc := new(mocks.MockFileService)
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByID", mock.Anything, mock.Anything, mock.Anything).Return(&domain.User{}, nil).Maybe()
	svc := service.NewBatchService(batchRepo, permRepo, fileRepo, fileSvc, userRepo)
	return svc, batchRepo, permRepo, fileRepo, fileSvc
}

func batchPerm(batchID, userID uuid.UUID, p domain.BatchPermission) *domain.BatchPermissionEntry {
	return &domain.BatchPermissionEntry{
		ID:         uuid.New(),
		BatchID:    batchID,
		UserID:     userID,
		Permission: p,
	}
}

// --- Create ---

func TestBatchService_Create_Success(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()

	batchRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Batch")).Return(nil)
	permRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.BatchPermissionEntry) bool {
		return p.UserID == userID && p.Permission == domain.BatchPermissionOwner
	})).Return(nil)

	result, err := svc.Create(context.Background(), &service.CreateBatchInput{
		TenantID:    tenantID,
		CreatedBy:   userID,
		Role:        domain.RoleMember,
		Name:        "August POs",
		Description: "Purchase orders received in August",
	})

	assert.NoError(t, err)
	assert.Equal(t, "August POs", result.Name)
	assert.Equal(t, "Purchase orders received in August", result.Description)
	assert.Equal(t, tenantID, result.TenantID)
	assert.Equal(t, userID, result.CreatedBy)

	batchRepo.AssertExpectations(t)
	permRepo.AssertExpectations(t)
}

func TestBatchService_Create_RepoError(t *testing.T) {
	svc, batchRepo, _, _, _ := setupBatchService()

	batchRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Batch")).
		Return(errors.New("db error"))

	result, err := svc.Create(context.Background(), &service.CreateBatchInput{
		TenantID:  uuid.New(),
		CreatedBy: uuid.New(),
		Role:      domain.RoleMember,
		Name:      "Test",
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating batch")
}

func TestBatchService_Create_PermissionUpsertError(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	batchRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Batch")).Return(nil)
	permRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.BatchPermissionEntry")).
		Return(errors.New("db error"))

	result, err := svc.Create(context.Background(), &service.CreateBatchInput{
		TenantID:  uuid.New(),
		CreatedBy: uuid.New(),
		Role:      domain.RoleMember,
		Name:      "Test",
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assigning owner permission")
}

// --- GetByID ---

func TestBatchService_GetByID_Success(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	expected := &domain.Batch{ID: batchID, TenantID: tenantID, Name: "Test"}

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionViewer), nil)
	batchRepo.On("GetByID", mock.Anything, tenantID, batchID).Return(expected, nil)

	result, err := svc.GetByID(context.Background(), tenantID, batchID, userID, domain.RoleMember)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestBatchService_GetByID_NoPermission(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	// Member has no implicit batch permission; without an explicit grant
	// the effective permission is empty and access is denied.
	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	result, err := svc.GetByID(context.Background(), uuid.New(), batchID, userID, domain.RoleMember)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

func TestBatchService_GetByID_AdminBypassesPermission(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	expected := &domain.Batch{ID: batchID, TenantID: tenantID, Name: "Admin Access"}

	// Admin has no explicit permission, but GetByBatchAndUser is still called
	// internally by effectivePermission; it returns an error (no explicit perm).
	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)
	batchRepo.On("GetByID", mock.Anything, tenantID, batchID).Return(expected, nil)

	result, err := svc.GetByID(context.Background(), tenantID, batchID, userID, domain.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestBatchService_GetByID_FreeNeedsExplicitPerm(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	result, err := svc.GetByID(context.Background(), uuid.New(), batchID, userID, domain.RoleFree)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- List ---

func TestBatchService_List_MemberSeesTenant(t *testing.T) {
	svc, batchRepo, _, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()

	expected := []domain.Batch{
		{ID: uuid.New(), TenantID: tenantID, Name: "Batch 1"},
		{ID: uuid.New(), TenantID: tenantID, Name: "Batch 2"},
	}

	batchRepo.On("ListByTenant", mock.Anything, tenantID, 0, 20).Return(expected, 2, nil)

	batches, total, err := svc.List(context.Background(), tenantID, userID, domain.RoleMember, 0, 20)

	assert.NoError(t, err)
	assert.Len(t, batches, 2)
	assert.Equal(t, 2, total)
	batchRepo.AssertExpectations(t)
}

func TestBatchService_List_AdminSeesTenant(t *testing.T) {
	svc, batchRepo, _, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()

	expected := []domain.Batch{
		{ID: uuid.New(), TenantID: tenantID, Name: "Batch 1"},
		{ID: uuid.New(), TenantID: tenantID, Name: "Batch 2"},
		{ID: uuid.New(), TenantID: tenantID, Name: "Batch 3"},
	}

	batchRepo.On("ListByTenant", mock.Anything, tenantID, 0, 20).Return(expected, 3, nil)

	batches, total, err := svc.List(context.Background(), tenantID, userID, domain.RoleAdmin, 0, 20)

	assert.NoError(t, err)
	assert.Len(t, batches, 3)
	assert.Equal(t, 3, total)
	batchRepo.AssertExpectations(t)
}

func TestBatchService_List_FreeSeesOnlyPermitted(t *testing.T) {
	svc, batchRepo, _, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()

	expected := []domain.Batch{
		{ID: uuid.New(), TenantID: tenantID, Name: "Permitted Batch"},
	}

	batchRepo.On("ListByUser", mock.Anything, tenantID, userID, 0, 20).Return(expected, 1, nil)

	batches, total, err := svc.List(context.Background(), tenantID, userID, domain.RoleFree, 0, 20)

	assert.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Equal(t, 1, total)
	batchRepo.AssertExpectations(t)
}

// --- Update ---

func TestBatchService_Update_Success(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	existing := &domain.Batch{ID: batchID, TenantID: tenantID, Name: "Old Name"}

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	batchRepo.On("GetByID", mock.Anything, tenantID, batchID).Return(existing, nil)
	batchRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Batch")).Return(nil)

	result, err := svc.Update(context.Background(), &service.UpdateBatchInput{
		TenantID:    tenantID,
		BatchID:     batchID,
		UserID:      userID,
		Role:        domain.RoleMember,
		Name:        "New Name",
		Description: "New Desc",
	})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", result.Name)
	assert.Equal(t, "New Desc", result.Description)
}

func TestBatchService_Update_ViewerPermDenied(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	// Explicit viewer < editor required
	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionViewer), nil)

	result, err := svc.Update(context.Background(), &service.UpdateBatchInput{
		TenantID: uuid.New(),
		BatchID:  batchID,
		UserID:   userID,
		Role:     domain.RoleMember,
		Name:     "Should Fail",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

func TestBatchService_Update_AdminCanEdit(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	existing := &domain.Batch{ID: batchID, TenantID: tenantID, Name: "Old Name"}

	// Admin has no explicit perm, but implicit owner >= editor required
	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)
	batchRepo.On("GetByID", mock.Anything, tenantID, batchID).Return(existing, nil)
	batchRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Batch")).Return(nil)

	result, err := svc.Update(context.Background(), &service.UpdateBatchInput{
		TenantID:    tenantID,
		BatchID:     batchID,
		UserID:      userID,
		Role:        domain.RoleAdmin,
		Name:        "Admin Updated",
		Description: "Updated by admin",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Admin Updated", result.Name)
	assert.Equal(t, "Updated by admin", result.Description)
}

func TestBatchService_Update_MemberWithoutPermDenied(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	result, err := svc.Update(context.Background(), &service.UpdateBatchInput{
		TenantID: uuid.New(),
		BatchID:  batchID,
		UserID:   userID,
		Role:     domain.RoleMember,
		Name:     "Should Fail",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- Delete ---

func TestBatchService_Delete_Success(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionOwner), nil)
	batchRepo.On("Delete", mock.Anything, tenantID, batchID).Return(nil)

	err := svc.Delete(context.Background(), tenantID, batchID, userID, domain.RoleMember)

	assert.NoError(t, err)
	batchRepo.AssertExpectations(t)
}

func TestBatchService_Delete_EditorDenied(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)

	err := svc.Delete(context.Background(), uuid.New(), batchID, userID, domain.RoleMember)

	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

func TestBatchService_Delete_AdminCanDeleteAny(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)
	batchRepo.On("Delete", mock.Anything, tenantID, batchID).Return(nil)

	err := svc.Delete(context.Background(), tenantID, batchID, userID, domain.RoleAdmin)

	assert.NoError(t, err)
	batchRepo.AssertExpectations(t)
}

// --- GetProgress ---

func TestBatchService_GetProgress_Success(t *testing.T) {
	svc, batchRepo, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	expected := &domain.BatchProgress{Total: 10, Pending: 2, Processing: 1, Completed: 6, Failed: 1}

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionViewer), nil)
	batchRepo.On("GetProgress", mock.Anything, tenantID, batchID).Return(expected, nil)

	progress, err := svc.GetProgress(context.Background(), tenantID, batchID, userID, domain.RoleMember)

	assert.NoError(t, err)
	assert.Equal(t, 10, progress.Total)
	assert.Equal(t, 6, progress.Completed)
	assert.Equal(t, 1, progress.Failed)
}

func TestBatchService_GetProgress_NoPermission(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	progress, err := svc.GetProgress(context.Background(), uuid.New(), batchID, userID, domain.RoleFree)

	assert.Nil(t, progress)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- ListFiles ---

func TestBatchService_ListFiles_Success(t *testing.T) {
	svc, _, permRepo, fileRepo, _ := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	expected := []domain.FileMeta{
		{ID: uuid.New(), TenantID: tenantID, Status: domain.FileStatusUploaded},
	}

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionViewer), nil)
	fileRepo.On("ListByBatch", mock.Anything, tenantID, batchID, 0, 20).
		Return(expected, 1, nil)

	files, total, err := svc.ListFiles(context.Background(), tenantID, batchID, userID, domain.RoleMember, 0, 20)

	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, 1, total)
}

func TestBatchService_ListFiles_NoPermission(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	files, total, err := svc.ListFiles(context.Background(), uuid.New(), batchID, userID, domain.RoleFree, 0, 20)

	assert.Nil(t, files)
	assert.Equal(t, 0, total)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- BatchUploadFiles ---

func uploadInput(name string) service.BatchUploadFileInput {
	return service.BatchUploadFileInput{
		Header: &multipart.FileHeader{Filename: name},
	}
}

func TestBatchService_BatchUploadFiles_AllSucceed(t *testing.T) {
	svc, _, permRepo, fileRepo, fileSvc := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	fileSvc.On("Upload", mock.Anything, mock.AnythingOfType("service.FileUploadInput")).
		Return(&domain.FileMeta{ID: uuid.New(), TenantID: tenantID}, nil)
	fileRepo.On("Add", mock.Anything, mock.AnythingOfType("*domain.BatchFile")).Return(nil)

	results, err := svc.BatchUploadFiles(context.Background(), tenantID, batchID, userID, domain.RoleMember,
		[]service.BatchUploadFileInput{uploadInput("po-001.pdf"), uploadInput("po-002.pdf")})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.Equal(t, "po-001.pdf", results[0].FileName)
	assert.Equal(t, "po-002.pdf", results[1].FileName)
	assert.NotNil(t, results[0].File)
	fileSvc.AssertNumberOfCalls(t, "Upload", 2)
}

func TestBatchService_BatchUploadFiles_PartialFailure(t *testing.T) {
	svc, _, permRepo, fileRepo, fileSvc := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	fileSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.FileUploadInput) bool {
		return in.Header.Filename == "bad.exe"
	})).Return(nil, errors.New("file type not allowed"))
	fileSvc.On("Upload", mock.Anything, mock.AnythingOfType("service.FileUploadInput")).
		Return(&domain.FileMeta{ID: uuid.New(), TenantID: tenantID}, nil)
	fileRepo.On("Add", mock.Anything, mock.AnythingOfType("*domain.BatchFile")).Return(nil)

	results, err := svc.BatchUploadFiles(context.Background(), tenantID, batchID, userID, domain.RoleMember,
		[]service.BatchUploadFileInput{uploadInput("bad.exe"), uploadInput("po-001.pdf")})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "file type not allowed")
	assert.True(t, results[1].Success)
}

func TestBatchService_BatchUploadFiles_AddToBatchFails(t *testing.T) {
	svc, _, permRepo, fileRepo, fileSvc := setupBatchService()

	tenantID := uuid.New()
	userID := uuid.New()
	batchID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	fileSvc.On("Upload", mock.Anything, mock.AnythingOfType("service.FileUploadInput")).
		Return(&domain.FileMeta{ID: uuid.New(), TenantID: tenantID}, nil)
	fileRepo.On("Add", mock.Anything, mock.AnythingOfType("*domain.BatchFile")).
		Return(errors.New("db error"))

	results, err := svc.BatchUploadFiles(context.Background(), tenantID, batchID, userID, domain.RoleMember,
		[]service.BatchUploadFileInput{uploadInput("po-001.pdf")})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "uploaded but failed to add to batch")
	// The uploaded file is still reported so the caller can recover it.
	assert.NotNil(t, results[0].File)
}

func TestBatchService_BatchUploadFiles_ViewerDenied(t *testing.T) {
	svc, _, permRepo, _, fileSvc := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionViewer), nil)

	results, err := svc.BatchUploadFiles(context.Background(), uuid.New(), batchID, userID, domain.RoleMember,
		[]service.BatchUploadFileInput{uploadInput("po-001.pdf")})

	assert.Nil(t, results)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
	fileSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

// --- RemoveFile ---

func TestBatchService_RemoveFile_Success(t *testing.T) {
	svc, _, permRepo, fileRepo, _ := setupBatchService()

	batchID := uuid.New()
	fileID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	fileRepo.On("Remove", mock.Anything, batchID, fileID).Return(nil)

	err := svc.RemoveFile(context.Background(), uuid.New(), batchID, fileID, userID, domain.RoleMember)

	assert.NoError(t, err)
}

func TestBatchService_RemoveFile_ViewerDenied(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionViewer), nil)

	err := svc.RemoveFile(context.Background(), uuid.New(), batchID, uuid.New(), userID, domain.RoleMember)

	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- AddFileToBatch ---

func TestBatchService_AddFileToBatch_Success(t *testing.T) {
	svc, _, permRepo, fileRepo, _ := setupBatchService()

	tenantID := uuid.New()
	batchID := uuid.New()
	fileID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	fileRepo.On("Add", mock.Anything, mock.MatchedBy(func(bf *domain.BatchFile) bool {
		return bf.BatchID == batchID && bf.FileID == fileID && bf.AddedBy == userID
	})).Return(nil)

	err := svc.AddFileToBatch(context.Background(), tenantID, batchID, fileID, userID, domain.RoleMember)

	assert.NoError(t, err)
	fileRepo.AssertExpectations(t)
}

func TestBatchService_AddFileToBatch_Duplicate(t *testing.T) {
	svc, _, permRepo, fileRepo, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)
	fileRepo.On("Add", mock.Anything, mock.AnythingOfType("*domain.BatchFile")).
		Return(domain.ErrDuplicateBatchFile)

	err := svc.AddFileToBatch(context.Background(), uuid.New(), batchID, uuid.New(), userID, domain.RoleMember)

	assert.ErrorIs(t, err, domain.ErrDuplicateBatchFile)
}

// --- SetPermission ---

func TestBatchService_SetPermission_Success(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	tenantID := uuid.New()
	batchID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, ownerID).
		Return(batchPerm(batchID, ownerID, domain.BatchPermissionOwner), nil)
	permRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.BatchPermissionEntry) bool {
		return p.UserID == targetID && p.Permission == domain.BatchPermissionEditor && p.GrantedBy == ownerID
	})).Return(nil)

	err := svc.SetPermission(context.Background(), &service.SetPermissionInput{
		TenantID:   tenantID,
		BatchID:    batchID,
		GrantedBy:  ownerID,
		CallerRole: domain.RoleMember,
		UserID:     targetID,
		Permission: domain.BatchPermissionEditor,
	})

	assert.NoError(t, err)
	permRepo.AssertExpectations(t)
}

func TestBatchService_SetPermission_InvalidPermission(t *testing.T) {
	svc, _, _, _, _ := setupBatchService()

	err := svc.SetPermission(context.Background(), &service.SetPermissionInput{
		TenantID:   uuid.New(),
		BatchID:    uuid.New(),
		GrantedBy:  uuid.New(),
		CallerRole: domain.RoleAdmin,
		UserID:     uuid.New(),
		Permission: "superadmin",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
}

func TestBatchService_SetPermission_NotOwner(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	editorID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, editorID).
		Return(batchPerm(batchID, editorID, domain.BatchPermissionEditor), nil)

	err := svc.SetPermission(context.Background(), &service.SetPermissionInput{
		TenantID:   uuid.New(),
		BatchID:    batchID,
		GrantedBy:  editorID,
		CallerRole: domain.RoleMember,
		UserID:     uuid.New(),
		Permission: domain.BatchPermissionViewer,
	})

	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

func TestBatchService_SetPermission_TargetUserNotFound(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	permRepo := new(mocks.MockBatchPermissionRepo)
	fileRepo := new(mocks.MockBatchFileRepo)
	fileSvc := new(mocks.MockFileService)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewBatchService(batchRepo, permRepo, fileRepo, fileSvc, userRepo)

	tenantID := uuid.New()
	batchID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, ownerID).
		Return(batchPerm(batchID, ownerID, domain.BatchPermissionOwner), nil)
	userRepo.On("GetByID", mock.Anything, tenantID, targetID).
		Return(nil, errors.New("no rows"))

	err := svc.SetPermission(context.Background(), &service.SetPermissionInput{
		TenantID:   tenantID,
		BatchID:    batchID,
		GrantedBy:  ownerID,
		CallerRole: domain.RoleMember,
		UserID:     targetID,
		Permission: domain.BatchPermissionViewer,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	permRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// --- ListPermissions ---

func TestBatchService_ListPermissions_Success(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	ownerID := uuid.New()

	expected := []domain.BatchPermissionEntry{
		{ID: uuid.New(), BatchID: batchID, UserID: ownerID, Permission: domain.BatchPermissionOwner},
	}

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, ownerID).
		Return(batchPerm(batchID, ownerID, domain.BatchPermissionOwner), nil)
	permRepo.On("ListByBatch", mock.Anything, batchID, 0, 20).
		Return(expected, 1, nil)

	perms, total, err := svc.ListPermissions(context.Background(), uuid.New(), batchID, ownerID, domain.RoleMember, 0, 20)

	assert.NoError(t, err)
	assert.Len(t, perms, 1)
	assert.Equal(t, 1, total)
}

func TestBatchService_ListPermissions_NotOwner(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	viewerID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, viewerID).
		Return(batchPerm(batchID, viewerID, domain.BatchPermissionViewer), nil)

	perms, total, err := svc.ListPermissions(context.Background(), uuid.New(), batchID, viewerID, domain.RoleFree, 0, 20)

	assert.Nil(t, perms)
	assert.Equal(t, 0, total)
	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- RemovePermission ---

func TestBatchService_RemovePermission_Success(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, ownerID).
		Return(batchPerm(batchID, ownerID, domain.BatchPermissionOwner), nil)
	permRepo.On("Delete", mock.Anything, batchID, targetID).Return(nil)

	err := svc.RemovePermission(context.Background(), uuid.New(), batchID, targetID, ownerID, domain.RoleMember)

	assert.NoError(t, err)
	permRepo.AssertExpectations(t)
}

func TestBatchService_RemovePermission_SelfRemoval(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	userID := uuid.New()

	err := svc.RemovePermission(context.Background(), uuid.New(), uuid.New(), userID, userID, domain.RoleAdmin)

	assert.ErrorIs(t, err, domain.ErrSelfPermissionRemoval)
	// Self-removal is rejected before any permission lookup.
	permRepo.AssertNotCalled(t, "GetByBatchAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_RemovePermission_NotOwner(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	editorID := uuid.New()
	targetID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, editorID).
		Return(batchPerm(batchID, editorID, domain.BatchPermissionEditor), nil)

	err := svc.RemovePermission(context.Background(), uuid.New(), batchID, targetID, editorID, domain.RoleMember)

	assert.ErrorIs(t, err, domain.ErrBatchPermDenied)
}

// --- EffectivePermission ---

func TestBatchService_EffectivePermission_AdminReturnsOwner(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	perm := svc.EffectivePermission(context.Background(), batchID, userID, domain.RoleAdmin)

	assert.Equal(t, domain.BatchPermissionOwner, perm)
}

func TestBatchService_EffectivePermission_MemberWithExplicitOwner(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionOwner), nil)

	perm := svc.EffectivePermission(context.Background(), batchID, userID, domain.RoleMember)

	assert.Equal(t, domain.BatchPermissionOwner, perm)
}

func TestBatchService_EffectivePermission_FreeWithExplicitEditor(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(batchPerm(batchID, userID, domain.BatchPermissionEditor), nil)

	perm := svc.EffectivePermission(context.Background(), batchID, userID, domain.RoleFree)

	assert.Equal(t, domain.BatchPermissionEditor, perm)
}

func TestBatchService_EffectivePermission_MemberNoExplicit(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	batchID := uuid.New()
	userID := uuid.New()

	permRepo.On("GetByBatchAndUser", mock.Anything, batchID, userID).
		Return(nil, domain.ErrBatchPermDenied)

	perm := svc.EffectivePermission(context.Background(), batchID, userID, domain.RoleMember)

	assert.Equal(t, domain.BatchPermission(""), perm)
}

// --- EffectivePermissions (batch) ---

func TestBatchService_EffectivePermissions_AdminShortCircuits(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	id1 := uuid.New()
	id2 := uuid.New()
	userID := uuid.New()

	// Admin should not make any DB calls
	result, err := svc.EffectivePermissions(context.Background(), []uuid.UUID{id1, id2}, userID, domain.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, domain.BatchPermissionOwner, result[id1])
	assert.Equal(t, domain.BatchPermissionOwner, result[id2])
	permRepo.AssertNotCalled(t, "GetByUserForBatches", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchService_EffectivePermissions_MemberBatchQuery(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	id1 := uuid.New()
	id2 := uuid.New()
	id3 := uuid.New()
	userID := uuid.New()
	batchIDs := []uuid.UUID{id1, id2, id3}

	// id1 has explicit editor, id2 has explicit owner, id3 has no explicit perm
	explicitPerms := map[uuid.UUID]domain.BatchPermission{
		id1: domain.BatchPermissionEditor,
		id2: domain.BatchPermissionOwner,
	}
	permRepo.On("GetByUserForBatches", mock.Anything, userID, batchIDs).
		Return(explicitPerms, nil)

	result, err := svc.EffectivePermissions(context.Background(), batchIDs, userID, domain.RoleMember)

	assert.NoError(t, err)
	assert.Equal(t, domain.BatchPermissionEditor, result[id1])
	assert.Equal(t, domain.BatchPermissionOwner, result[id2])
	// Member carries no implicit batch permission
	assert.Equal(t, domain.BatchPermission(""), result[id3])
	permRepo.AssertExpectations(t)
}

func TestBatchService_EffectivePermissions_RepoError(t *testing.T) {
	svc, _, permRepo, _, _ := setupBatchService()

	userID := uuid.New()
	batchIDs := []uuid.UUID{uuid.New()}

	permRepo.On("GetByUserForBatches", mock.Anything, userID, batchIDs).
		Return(nil, errors.New("db down"))

	result, err := svc.EffectivePermissions(context.Background(), batchIDs, userID, domain.RoleFree)

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "computing effective permissions")
}
