package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poaudit/internal/domain"
	"poaudit/internal/middleware"
	"poaudit/internal/service"
)

// OrderHandler handles purchase order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /api/v1/orders
// @Summary Create an order
// @Description Create a purchase order from an uploaded file and trigger AI extraction
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order creation details"
// @Success 201 {object} Response{data=domain.PurchaseOrder} "Order created, extraction started"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "File or batch not found"
// @Failure 409 {object} ErrorResponseBody "Order already exists for this file"
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req struct {
		FileID  uuid.UUID         `json:"file_id" binding:"required"`
		BatchID uuid.UUID         `json:"batch_id" binding:"required"`
		Tags    map[string]string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_id and batch_id are required")
		return
	}

	ord, err := h.orderService.CreateAndExtract(c.Request.Context(), &service.CreateOrderInput{
		TenantID:  tenantID,
		BatchID:   req.BatchID,
		FileID:    req.FileID,
		Tags:      req.Tags,
		CreatedBy: userID,
		Role:      role,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, ord)
}

// GetByID handles GET /api/v1/orders/:id
// @Summary Get order by ID
// @Description Get order details including extracted data, audit status, and review status
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=domain.PurchaseOrder} "Order details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	ord, err := h.orderService.GetByID(c.Request.Context(), tenantID, orderID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ord)
}

// List handles GET /api/v1/orders
// @Summary List orders
// @Description List orders with optional batch and file filters
// @Tags orders
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Param batch_id query string false "Filter by batch ID"
// @Param file_id query string false "Look up the order of a specific file"
// @Success 200 {object} Response{data=[]domain.PurchaseOrder,meta=PagMeta} "List of orders"
// @Failure 400 {object} ErrorResponseBody "Invalid batch_id or file_id"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if fileIDStr := c.Query("file_id"); fileIDStr != "" {
		fileID, err := uuid.Parse(fileIDStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file_id")
			return
		}
		ord, err := h.orderService.GetByFileID(c.Request.Context(), tenantID, fileID, userID, role)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, ord)
		return
	}

	offset, limit := parsePagination(c)

	if batchIDStr := c.Query("batch_id"); batchIDStr != "" {
		batchID, err := uuid.Parse(batchIDStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch_id")
			return
		}
		orders, total, err := h.orderService.ListByBatch(c.Request.Context(), tenantID, batchID, userID, role, offset, limit)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	orders, total, err := h.orderService.ListByTenant(c.Request.Context(), tenantID, userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Retry handles POST /api/v1/orders/:id/retry
// @Summary Retry order extraction
// @Description Re-trigger AI extraction for a failed or completed order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=domain.PurchaseOrder} "Extraction re-triggered"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Failure 409 {object} ErrorResponseBody "Extraction already in progress"
// @Security BearerAuth
// @Router /orders/{id}/retry [post]
func (h *OrderHandler) Retry(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	ord, err := h.orderService.RetryExtraction(c.Request.Context(), tenantID, orderID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ord)
}

// UpdateReview handles PUT /api/v1/orders/:id/review
// @Summary Review an order
// @Description Move an order through the review workflow (in_review, approved, rejected, or back to unreviewed)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Param request body ReviewOrderRequest true "Review decision"
// @Success 200 {object} Response{data=domain.PurchaseOrder} "Order review updated"
// @Failure 400 {object} ErrorResponseBody "Invalid request or order not extracted"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Failure 409 {object} ErrorResponseBody "Invalid review state transition"
// @Security BearerAuth
// @Router /orders/{id}/review [put]
func (h *OrderHandler) UpdateReview(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	var req struct {
		Status domain.ReviewStatus `json:"status" binding:"required"`
		Notes  string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	switch req.Status {
	case domain.ReviewStatusUnreviewed, domain.ReviewStatusInReview,
		domain.ReviewStatusApproved, domain.ReviewStatusRejected:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status must be one of unreviewed, in_review, approved, rejected")
		return
	}

	ord, err := h.orderService.UpdateReview(c.Request.Context(), &service.UpdateReviewInput{
		TenantID:   tenantID,
		OrderID:    orderID,
		ReviewerID: userID,
		Role:       role,
		Status:     req.Status,
		Notes:      req.Notes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ord)
}

// EditStructuredData handles PUT /api/v1/orders/:id and PUT /api/v1/orders/:id/structured-data
// @Summary Edit structured data
// @Description Manually edit the extracted purchase order data; re-runs the arithmetic audit and validation
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Param request body EditStructuredDataRequest true "Structured data (purchase order)"
// @Success 200 {object} Response{data=domain.PurchaseOrder} "Order updated with new structured data"
// @Failure 400 {object} ErrorResponseBody "Invalid request, order not extracted, or invalid structured data"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id} [put]
// @Router /orders/{id}/structured-data [put]
func (h *OrderHandler) EditStructuredData(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	var req struct {
		StructuredData json.RawMessage `json:"structured_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "structured_data is required")
		return
	}

	ord, err := h.orderService.EditStructuredData(c.Request.Context(), &service.EditStructuredDataInput{
		TenantID:       tenantID,
		OrderID:        orderID,
		UserID:         userID,
		Role:           role,
		StructuredData: req.StructuredData,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ord)
}

// Validate handles POST /api/v1/orders/:id/validate
// @Summary Re-run validation
// @Description Re-run the validation engine on an extracted order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Validation completed"
// @Failure 400 {object} ErrorResponseBody "Invalid ID or order not extracted"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id}/validate [post]
func (h *OrderHandler) Validate(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	if err := h.orderService.ValidateOrder(c.Request.Context(), tenantID, orderID, userID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "validation completed"})
}

// GetValidation handles GET /api/v1/orders/:id/validation
// @Summary Get validation results
// @Description Get detailed validation results including per-rule and per-field status
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=validator.ValidationResponse} "Validation results"
// @Failure 400 {object} ErrorResponseBody "Invalid ID or order not extracted"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id}/validation [get]
func (h *OrderHandler) GetValidation(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	result, err := h.orderService.GetValidation(c.Request.Context(), tenantID, orderID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ListTags handles GET /api/v1/orders/:id/tags
// @Summary List order tags
// @Description List all tags for an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=[]domain.OrderTag} "List of tags"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id}/tags [get]
func (h *OrderHandler) ListTags(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	tags, err := h.orderService.ListTags(c.Request.Context(), tenantID, orderID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tags)
}

// AddTags handles POST /api/v1/orders/:id/tags
// @Summary Add tags to an order
// @Description Add user tags to an order (requires editor+ permission)
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Param request body AddTagsRequest true "Tags to add"
// @Success 201 {object} Response{data=[]domain.OrderTag} "Tags added"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id}/tags [post]
func (h *OrderHandler) AddTags(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	var req struct {
		Tags map[string]string `json:"tags" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "tags map is required")
		return
	}

	tags, err := h.orderService.AddTags(c.Request.Context(), tenantID, orderID, userID, role, req.Tags)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, tags)
}

// DeleteTag handles DELETE /api/v1/orders/:id/tags/:tagId
// @Summary Delete a tag
// @Description Delete a user tag from an order (requires editor+ permission)
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Param tagId path string true "Tag ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Tag deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order or tag not found"
// @Security BearerAuth
// @Router /orders/{id}/tags/{tagId} [delete]
func (h *OrderHandler) DeleteTag(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid tag ID")
		return
	}

	if err := h.orderService.DeleteTag(c.Request.Context(), tenantID, orderID, userID, role, tagID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "tag deleted"})
}

// SearchByTag handles GET /api/v1/orders/search/tags
// @Summary Search orders by tag
// @Description Search for orders with a specific tag key-value pair
// @Tags orders
// @Produce json
// @Param key query string true "Tag key"
// @Param value query string true "Tag value"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.PurchaseOrder,meta=PagMeta} "Matching orders"
// @Failure 400 {object} ErrorResponseBody "Missing key or value"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /orders/search/tags [get]
func (h *OrderHandler) SearchByTag(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return
	}

	key := c.Query("key")
	value := c.Query("value")
	if key == "" || value == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "key and value query parameters are required")
		return
	}

	offset, limit := parsePagination(c)

	orders, total, err := h.orderService.SearchByTag(c.Request.Context(), tenantID, key, value, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/orders/:id
// @Summary Delete an order
// @Description Delete an order and its summary, tags, and events
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Order deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Insufficient permission"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), tenantID, orderID, userID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "order deleted"})
}

// ListEvents handles GET /api/v1/orders/:id/events
func (h *OrderHandler) ListEvents(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	offset, limit := parsePagination(c)

	events, total, err := h.orderService.ListEvents(c.Request.Context(), tenantID, orderID, userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, events, PagMeta{Total: total, Offset: offset, Limit: limit})
}
