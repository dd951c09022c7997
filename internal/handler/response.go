package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poaudit/internal/domain"
	"poaudit/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrTenantInactive):
		return http.StatusForbidden, "TENANT_INACTIVE", "tenant is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists for this tenant"
	case errors.Is(err, domain.ErrDuplicateTenantSlug):
		return http.StatusConflict, "DUPLICATE_SLUG", "tenant slug already exists"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrBatchNotFound):
		return http.StatusNotFound, "BATCH_NOT_FOUND", "batch not found"
	case errors.Is(err, domain.ErrBatchPermDenied):
		return http.StatusForbidden, "BATCH_PERMISSION_DENIED", "insufficient batch permission"
	case errors.Is(err, domain.ErrDuplicateBatchFile):
		return http.StatusConflict, "DUPLICATE_BATCH_FILE", "file already added to this batch"
	case errors.Is(err, domain.ErrSelfPermissionRemoval):
		return http.StatusBadRequest, "SELF_PERMISSION_REMOVAL", "cannot remove your own permission"
	case errors.Is(err, domain.ErrInvalidPermission):
		return http.StatusBadRequest, "INVALID_PERMISSION", "invalid batch permission; allowed: owner, editor, viewer"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "ORDER_NOT_FOUND", "order not found"
	case errors.Is(err, domain.ErrOrderAlreadyExists):
		return http.StatusConflict, "ORDER_ALREADY_EXISTS", "an order already exists for this file"
	case errors.Is(err, domain.ErrExtractionPending):
		return http.StatusBadRequest, "EXTRACTION_PENDING", "order extraction has not completed yet"
	case errors.Is(err, domain.ErrExtractionRunning):
		return http.StatusConflict, "EXTRACTION_RUNNING", "order extraction is already in progress"
	case errors.Is(err, domain.ErrNoStructuredData):
		return http.StatusBadRequest, "NO_STRUCTURED_DATA", "order has no structured data"
	case errors.Is(err, domain.ErrInvalidReviewState):
		return http.StatusConflict, "INVALID_REVIEW_STATE", "invalid review state transition"
	case errors.Is(err, domain.ErrBatchNotEmpty):
		return http.StatusConflict, "BATCH_NOT_EMPTY", "batch still contains orders"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", "insufficient role for this action"
	case errors.Is(err, domain.ErrInvalidStructuredData):
		return http.StatusBadRequest, "INVALID_STRUCTURED_DATA", "structured data does not match the purchase order schema"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "QUOTA_EXCEEDED", "monthly order quota exceeded; upgrade for more"
	case errors.Is(err, domain.ErrEmailNotVerified):
		return http.StatusForbidden, "EMAIL_NOT_VERIFIED", "please verify your email before performing this action"
	case errors.Is(err, domain.ErrPasswordResetTokenInvalid):
		return http.StatusUnauthorized, "INVALID_RESET_TOKEN", "password reset token is invalid or has already been used"
	case errors.Is(err, domain.ErrSocialAuthTokenInvalid):
		return http.StatusUnauthorized, "INVALID_SOCIAL_TOKEN", "social authentication token is invalid or expired"
	case errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound, "FILE_NOT_FOUND", "file not found"
	case errors.Is(err, domain.ErrValidationRuleNotFound):
		return http.StatusNotFound, "VALIDATION_RULE_NOT_FOUND", "validation rule not found"
	case errors.Is(err, domain.ErrCatalogEntryNotFound):
		return http.StatusNotFound, "CATALOG_ENTRY_NOT_FOUND", "catalog entry not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts tenant ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return tenantID, userID, role, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
