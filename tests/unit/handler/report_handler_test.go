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
	"poaudit/internal/service"
	"poaudit/mocks"
)

func newReportHandler() (*handler.ReportHandler, *mocks.MockReportService) {
	mockSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(mockSvc)
	return h, mockSvc
}

func TestReportHandler_OrderAudit_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()
	userID := uuid.New()
	orderID := uuid.New()

	report := &service.OrderAuditReport{
		OrderID:      orderID,
		Supplier:     "Acme Supplies",
		PassCount:    2,
		WarningCount: 1,
	}
	mockSvc.On("OrderAuditReport", mock.Anything, tenantID, orderID).Return(report, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/orders/"+orderID.String()+"/audit", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
	setAuthContext(c, tenantID, userID, "member")

	h.OrderAudit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_OrderAudit_InvalidID(t *testing.T) {
	h, _ := newReportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/orders/nope/audit", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.OrderAudit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_Suppliers_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()
	userID := uuid.New()

	rows := []domain.SupplierSummaryRow{
		{Supplier: "Acme Supplies", OrderCount: 10, TotalAmount: 42000, PassCount: 8, FailureCount: 2},
		{Supplier: "Globex", OrderCount: 4, TotalAmount: 9000, PassCount: 4},
	}
	mockSvc.On("SupplierSummary", mock.Anything, tenantID, mock.AnythingOfType("domain.ReportFilters")).
		Return(rows, 2, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/suppliers", http.NoBody)
	setAuthContext(c, tenantID, userID, "member")

	h.Suppliers(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)

	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Suppliers_InvalidDateFilter(t *testing.T) {
	h, _ := newReportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/suppliers?from=31-08-2026", http.NoBody)
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Suppliers(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_Suppliers_InvalidAuditStatus(t *testing.T) {
	h, _ := newReportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/suppliers?audit_status=bogus", http.NoBody)
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Suppliers(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_Suppliers_ServiceError(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()
	mockSvc.On("SupplierSummary", mock.Anything, tenantID, mock.AnythingOfType("domain.ReportFilters")).
		Return(nil, 0, errors.New("db error"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/suppliers", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Suppliers(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReportHandler_BatchesOverview_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()
	batchID := uuid.New()

	rows := []domain.BatchOverviewRow{
		{BatchID: batchID, BatchName: "August POs", OrderCount: 25, Completed: 20, Failed: 1, TotalAmount: 88000},
	}
	mockSvc.On("BatchOverview", mock.Anything, tenantID, mock.AnythingOfType("domain.ReportFilters")).
		Return(rows, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/batches-overview", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.BatchesOverview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_BatchesOverview_BatchFilter(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()
	batchID := uuid.New()

	mockSvc.On("BatchOverview", mock.Anything, tenantID, mock.MatchedBy(func(f domain.ReportFilters) bool {
		return f.BatchID != nil && *f.BatchID == batchID
	})).Return([]domain.BatchOverviewRow{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/batches-overview?batch_id="+batchID.String(), http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.BatchesOverview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Discrepancies_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()
	orderID := uuid.New()

	rows := []domain.OrderSummary{
		{OrderID: orderID, Supplier: "Acme Supplies", FailureCount: 2, AuditStatus: domain.AuditStatusFailed},
	}
	mockSvc.On("DiscrepantOrders", mock.Anything, tenantID, mock.AnythingOfType("domain.ReportFilters")).
		Return(rows, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/discrepancies", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Discrepancies(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Meta.Total)

	mockSvc.AssertExpectations(t)
}

func TestReportHandler_MonthlyVolume_Success(t *testing.T) {
	h, mockSvc := newReportHandler()

	tenantID := uuid.New()

	rows := []domain.MonthlyVolumeRow{
		{Month: "2026-07", OrderCount: 40, TotalAmount: 120000, FailureCount: 3},
		{Month: "2026-08", OrderCount: 52, TotalAmount: 150000, FailureCount: 1},
	}
	mockSvc.On("MonthlyVolume", mock.Anything, tenantID, 6).Return(rows, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/monthly-volume?months=6", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.MonthlyVolume(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_MonthlyVolume_InvalidMonths(t *testing.T) {
	h, _ := newReportHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/monthly-volume?months=0", http.NoBody)
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.MonthlyVolume(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
