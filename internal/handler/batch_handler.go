package handler

import (
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poaudit/internal/audit"
	"poaudit/internal/csvexport"
	"poaudit/internal/domain"
	"poaudit/internal/service"
	"poaudit/internal/xlsxexport"
)

// exportPageSize is the page size used when draining a batch for export.
const exportPageSize = 500

// BatchHandler handles batch management endpoints.
type BatchHandler struct {
	batchService service.BatchService
	orderService service.OrderService
	auditCfg     audit.Config
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService, orderService service.OrderService, auditCfg audit.Config) *BatchHandler {
	return &BatchHandler{batchService: batchService, orderService: orderService, auditCfg: auditCfg}
}

// Create handles POST /api/v1/batches
func (h *BatchHandler) Create(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), &service.CreateBatchInput{
		TenantID:    tenantID,
		CreatedBy:   userID,
		Role:        role,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, batch)
}

// List handles GET /api/v1/batches
func (h *BatchHandler) List(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)

	batches, total, err := h.batchService.List(c.Request.Context(), tenantID, userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, batches, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/batches/:id
func (h *BatchHandler) GetByID(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), tenantID, batchID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Also fetch files for the batch (first page)
	offset, limit := parsePagination(c)
	files, totalFiles, err := h.batchService.ListFiles(c.Request.Context(), tenantID, batchID, userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"batch":      batch,
		"files":      files,
		"files_meta": PagMeta{Total: totalFiles, Offset: offset, Limit: limit},
	})
}

// GetProgress handles GET /api/v1/batches/:id/progress
func (h *BatchHandler) GetProgress(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	progress, err := h.batchService.GetProgress(c.Request.Context(), tenantID, batchID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, progress)
}

// Update handles PUT /api/v1/batches/:id
func (h *BatchHandler) Update(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	batch, err := h.batchService.Update(c.Request.Context(), &service.UpdateBatchInput{
		TenantID:    tenantID,
		BatchID:     batchID,
		UserID:      userID,
		Role:        role,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, batch)
}

// Delete handles DELETE /api/v1/batches/:id
func (h *BatchHandler) Delete(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), tenantID, batchID, userID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "batch deleted"})
}

// BatchUploadFiles handles POST /api/v1/batches/:id/files
func (h *BatchHandler) BatchUploadFiles(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "at least one file is required in 'files' field")
		return
	}

	inputs := make([]service.BatchUploadFileInput, 0, len(fileHeaders))
	openFiles := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "FILE_READ_ERROR", "failed to read uploaded file")
			return
		}
		openFiles = append(openFiles, f)
		inputs = append(inputs, service.BatchUploadFileInput{
			File:   f,
			Header: fh,
		})
	}

	results, err := h.batchService.BatchUploadFiles(c.Request.Context(), tenantID, batchID, userID, role, inputs)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Check if all succeeded or some failed
	allSuccess := true
	for _, r := range results {
		if !r.Success {
			allSuccess = false
			break
		}
	}

	if allSuccess {
		RespondCreated(c, results)
	} else {
		// 207 Multi-Status for partial success
		c.JSON(http.StatusMultiStatus, APIResponse{Success: true, Data: results})
	}
}

// RemoveFile handles DELETE /api/v1/batches/:id/files/:fileId
func (h *BatchHandler) RemoveFile(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file ID")
		return
	}

	if err := h.batchService.RemoveFile(c.Request.Context(), tenantID, batchID, fileID, userID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "file removed from batch"})
}

// SetPermission handles POST /api/v1/batches/:id/permissions
func (h *BatchHandler) SetPermission(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	var req struct {
		UserID     uuid.UUID              `json:"user_id" binding:"required"`
		Permission domain.BatchPermission `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "user_id and permission are required")
		return
	}

	if err := h.batchService.SetPermission(c.Request.Context(), &service.SetPermissionInput{
		TenantID:   tenantID,
		BatchID:    batchID,
		GrantedBy:  userID,
		CallerRole: role,
		UserID:     req.UserID,
		Permission: req.Permission,
	}); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "permission set"})
}

// ListPermissions handles GET /api/v1/batches/:id/permissions
func (h *BatchHandler) ListPermissions(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	offset, limit := parsePagination(c)

	perms, total, err := h.batchService.ListPermissions(c.Request.Context(), tenantID, batchID, userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, perms, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// RemovePermission handles DELETE /api/v1/batches/:id/permissions/:userId
func (h *BatchHandler) RemovePermission(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	targetUserID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid user ID")
		return
	}

	if err := h.batchService.RemovePermission(c.Request.Context(), tenantID, batchID, targetUserID, userID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "permission removed"})
}

// ExportCSV handles GET /api/v1/batches/:id/export/csv
func (h *BatchHandler) ExportCSV(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), tenantID, batchID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	orders, err := h.collectOrders(c, tenantID, batchID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(batch.Name)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Writer.Write(csvexport.BOM)

	w := csvexport.NewWriter(c.Writer, h.auditCfg)
	if err := w.WriteHeader(); err != nil {
		log.Printf("csv export: write header: %v", err)
		return
	}
	if err := w.WriteOrders(orders); err != nil {
		log.Printf("csv export: write orders: %v", err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("csv export: flush: %v", err)
	}
}

// ExportXLSX handles GET /api/v1/batches/:id/export/xlsx
func (h *BatchHandler) ExportXLSX(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch ID")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), tenantID, batchID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	orders, err := h.collectOrders(c, tenantID, batchID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	w, err := xlsxexport.NewWriter(h.auditCfg)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer w.Close()

	if err := w.AddOrders(orders); err != nil {
		HandleError(c, err)
		return
	}

	filename := xlsxexport.BuildFilename(batch.Name)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := w.WriteTo(c.Writer); err != nil {
		log.Printf("xlsx export: write workbook: %v", err)
	}
}

// collectOrders drains every order page of a batch for export.
func (h *BatchHandler) collectOrders(c *gin.Context, tenantID, batchID, userID uuid.UUID, role domain.UserRole) ([]domain.PurchaseOrder, error) {
	var all []domain.PurchaseOrder
	offset := 0
	for {
		page, total, err := h.orderService.ListByBatch(c.Request.Context(), tenantID, batchID, userID, role, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			return all, nil
		}
	}
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
