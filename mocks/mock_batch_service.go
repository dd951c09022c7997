package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
	"poaudit/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Create(ctx context.Context, input *service.CreateBatchInput) (*domain.Batch, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchService) GetByID(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) (*domain.Batch, error) {
	args := m.Called(ctx, tenantID, batchID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchService) List(ctx context.Context, tenantID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Batch, int, error) {
	args := m.Called(ctx, tenantID, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Batch), args.Int(1), args.Error(2)
}

func (m *MockBatchService) Update(ctx context.Context, input *service.UpdateBatchInput) (*domain.Batch, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Batch), args.Error(1)
}

func (m *MockBatchService) Delete(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, tenantID, batchID, userID, role)
	return args.Error(0)
}

func (m *MockBatchService) GetProgress(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) (*domain.BatchProgress, error) {
	args := m.Called(ctx, tenantID, batchID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchProgress), args.Error(1)
}

func (m *MockBatchService) ListFiles(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.FileMeta, int, error) {
	args := m.Called(ctx, tenantID, batchID, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FileMeta), args.Int(1), args.Error(2)
}

func (m *MockBatchService) BatchUploadFiles(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, files []service.BatchUploadFileInput) ([]service.BatchUploadResult, error) {
	args := m.Called(ctx, tenantID, batchID, userID, role, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchUploadResult), args.Error(1)
}

func (m *MockBatchService) RemoveFile(ctx context.Context, tenantID, batchID, fileID, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, tenantID, batchID, fileID, userID, role)
	return args.Error(0)
}

func (m *MockBatchService) AddFileToBatch(ctx context.Context, tenantID, batchID, fileID, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, tenantID, batchID, fileID, userID, role)
	return args.Error(0)
}

func (m *MockBatchService) SetPermission(ctx context.Context, input *service.SetPermissionInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockBatchService) ListPermissions(ctx context.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.BatchPermissionEntry, int, error) {
	args := m.Called(ctx, tenantID, batchID, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BatchPermissionEntry), args.Int(1), args.Error(2)
}

func (m *MockBatchService) RemovePermission(ctx context.Context, tenantID, batchID, targetUserID, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, tenantID, batchID, targetUserID, userID, role)
	return args.Error(0)
}

func (m *MockBatchService) EffectivePermission(ctx context.Context, batchID, userID uuid.UUID, role domain.UserRole) domain.BatchPermission {
	args := m.Called(ctx, batchID, userID, role)
	return args.Get(0).(domain.BatchPermission)
}

func (m *MockBatchService) EffectivePermissions(ctx context.Context, batchIDs []uuid.UUID, userID uuid.UUID, role domain.UserRole) (map[uuid.UUID]domain.BatchPermission, error) {
	args := m.Called(ctx, batchIDs, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.BatchPermission), args.Error(1)
}
