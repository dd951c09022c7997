package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/domain"
	"poaudit/internal/handler"
	"poaudit/mocks"
)

func newStatsHandler() (*handler.StatsHandler, *mocks.MockStatsService) {
	mockSvc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(mockSvc)
	return h, mockSvc
}

func TestStatsHandler_GetTenantStats_Success(t *testing.T) {
	h, mockSvc := newStatsHandler()

	tenantID := uuid.New()
	userID := uuid.New()

	expected := &domain.TenantStats{
		TotalOrders:        156,
		PendingOrders:      3,
		CompletedOrders:    140,
		FailedOrders:       6,
		PassedAudits:       98,
		WarningAudits:      30,
		FailedAudits:       12,
		TotalLineItems:     1480,
		AvgConfidence:      0.91,
		TotalAuditedAmount: 532000.50,
	}

	mockSvc.On("GetTenantStats", mock.Anything, tenantID).Return(expected, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)
	setAuthContext(c, tenantID, userID, "admin")

	h.GetTenantStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(156), data["total_orders"])
	assert.Equal(t, float64(12), data["failed_audits"])
	assert.InDelta(t, 0.91, data["avg_confidence"], 0.001)

	mockSvc.AssertExpectations(t)
}

func TestStatsHandler_GetTenantStats_ServiceError(t *testing.T) {
	h, mockSvc := newStatsHandler()

	tenantID := uuid.New()
	userID := uuid.New()

	mockSvc.On("GetTenantStats", mock.Anything, tenantID).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)
	setAuthContext(c, tenantID, userID, "member")

	h.GetTenantStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStatsHandler_GetTenantStats_MissingAuthContext(t *testing.T) {
	h, _ := newStatsHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)

	h.GetTenantStats(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatsHandler_GetUserStats_Success(t *testing.T) {
	h, mockSvc := newStatsHandler()

	tenantID := uuid.New()
	userID := uuid.New()

	expected := &domain.UserStats{
		OrdersCreated:  42,
		BatchesCreated: 4,
		FilesUploaded:  50,
		OrdersReviewed: 12,
		AvgConfidence:  0.88,
	}

	mockSvc.On("GetUserStats", mock.Anything, tenantID, userID).Return(expected, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats/me", http.NoBody)
	setAuthContext(c, tenantID, userID, "free")

	h.GetUserStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["orders_created"])
	assert.Equal(t, float64(12), data["orders_reviewed"])

	mockSvc.AssertExpectations(t)
}

func TestStatsHandler_GetUserStats_ServiceError(t *testing.T) {
	h, mockSvc := newStatsHandler()

	tenantID := uuid.New()
	userID := uuid.New()

	mockSvc.On("GetUserStats", mock.Anything, tenantID, userID).Return(nil, errors.New("query failed"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats/me", http.NoBody)
	setAuthContext(c, tenantID, userID, "member")

	h.GetUserStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
