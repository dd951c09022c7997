package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poaudit/internal/domain"
	"poaudit/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// validAuditStatuses defines the audit_status filter values accepted on reports.
var validAuditStatuses = map[domain.AuditStatus]bool{
	domain.AuditStatusPending: true,
	domain.AuditStatusPassed:  true,
	domain.AuditStatusWarning: true,
	domain.AuditStatusFailed:  true,
}

// parseReportFilters extracts common report filter parameters from query params.
func parseReportFilters(c *gin.Context) (domain.ReportFilters, error) {
	filters := domain.ReportFilters{
		Offset: 0,
		Limit:  20,
	}

	// Parse date filters.
	if fromStr := c.Query("from"); fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return filters, fmt.Errorf("invalid 'from' date: must be YYYY-MM-DD")
		}
		filters.DateFrom = &t
	}
	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return filters, fmt.Errorf("invalid 'to' date: must be YYYY-MM-DD")
		}
		filters.DateTo = &t
	}

	// Parse batch_id filter.
	if bidStr := c.Query("batch_id"); bidStr != "" {
		bid, err := uuid.Parse(bidStr)
		if err != nil {
			return filters, fmt.Errorf("invalid 'batch_id': must be a valid UUID")
		}
		filters.BatchID = &bid
	}

	// Parse supplier filter.
	filters.Supplier = c.Query("supplier")

	// Parse audit_status filter.
	if statusStr := c.Query("audit_status"); statusStr != "" {
		status := domain.AuditStatus(statusStr)
		if !validAuditStatuses[status] {
			return filters, fmt.Errorf("invalid 'audit_status': must be one of pending, passed, warning, failed")
		}
		filters.AuditStatus = status
	}

	// Parse pagination.
	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return filters, fmt.Errorf("invalid 'offset': must be an integer")
		}
		filters.Offset = offset
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return filters, fmt.Errorf("invalid 'limit': must be an integer")
		}
		filters.Limit = limit
	}

	return filters, nil
}

// OrderAudit handles GET /api/v1/reports/orders/:id/audit
// @Summary      Order audit report
// @Description  Per-line-item arithmetic reconciliation for one order, with verdicts and totals
// @Tags         reports
// @Produce      json
// @Param        id path string true "Order ID (UUID)"
// @Success      200 {object} APIResponse{data=service.OrderAuditReport}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/orders/{id}/audit [get]
func (h *ReportHandler) OrderAudit(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	report, err := h.reportService.OrderAuditReport(c.Request.Context(), tenantID, orderID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Suppliers handles GET /api/v1/reports/suppliers
// @Summary      Supplier summary report
// @Description  Lists unique suppliers with order counts, total amounts, and audit breakdown
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        batch_id query string false "Batch UUID"
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} APIResponse{data=[]domain.SupplierSummaryRow,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/suppliers [get]
func (h *ReportHandler) Suppliers(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows, total, err := h.reportService.SupplierSummary(c.Request.Context(), tenantID, filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, rows, PagMeta{Total: total, Offset: filters.Offset, Limit: filters.Limit})
}

// BatchesOverview handles GET /api/v1/reports/batches-overview
// @Summary      Batches overview report
// @Description  Per-batch summary with order counts, extraction progress, and audit percentages
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        batch_id query string false "Batch UUID"
// @Success      200 {object} APIResponse{data=[]domain.BatchOverviewRow}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/batches-overview [get]
func (h *ReportHandler) BatchesOverview(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows, err := h.reportService.BatchOverview(c.Request.Context(), tenantID, filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}

// Discrepancies handles GET /api/v1/reports/discrepancies
// @Summary      Discrepant orders report
// @Description  Lists orders whose arithmetic audit produced warnings or failures
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        batch_id query string false "Batch UUID"
// @Param        supplier query string false "Filter by supplier name"
// @Param        audit_status query string false "Filter by audit status" Enums(warning, failed)
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} APIResponse{data=[]domain.OrderSummary,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/discrepancies [get]
func (h *ReportHandler) Discrepancies(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filters, err := parseReportFilters(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rows, total, err := h.reportService.DiscrepantOrders(c.Request.Context(), tenantID, filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, rows, PagMeta{Total: total, Offset: filters.Offset, Limit: filters.Limit})
}

// MonthlyVolume handles GET /api/v1/reports/monthly-volume
// @Summary      Monthly volume report
// @Description  Order volume and total amounts per calendar month
// @Tags         reports
// @Produce      json
// @Param        months query int false "Number of trailing months" default(12)
// @Success      200 {object} APIResponse{data=[]domain.MonthlyVolumeRow}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/monthly-volume [get]
func (h *ReportHandler) MonthlyVolume(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	months := 12
	if monthsStr := c.Query("months"); monthsStr != "" {
		parsed, err := strconv.Atoi(monthsStr)
		if err != nil || parsed <= 0 || parsed > 60 {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'months': must be 1-60")
			return
		}
		months = parsed
	}

	rows, err := h.reportService.MonthlyVolume(c.Request.Context(), tenantID, months)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}
