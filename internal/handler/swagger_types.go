package handler

import (
	"time"

	"github.com/google/uuid"

	"poaudit/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required" example:"acme"`
	Email      string `json:"email" binding:"required" example:"admin@acme.com"`
	Password   string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateBatchRequest represents the create batch request body.
type CreateBatchRequest struct {
	Name        string `json:"name" binding:"required" example:"January 2025 Orders"`
	Description string `json:"description" example:"Purchase orders scanned in January"`
}

// UpdateBatchRequest represents the update batch request body.
type UpdateBatchRequest struct {
	Name        string `json:"name" binding:"required" example:"January 2025 Orders - Final"`
	Description string `json:"description" example:"Updated description"`
}

// SetPermissionRequest represents the set permission request body.
type SetPermissionRequest struct {
	UserID     uuid.UUID              `json:"user_id" binding:"required" example:"987fcdeb-51a2-3bc4-d567-890123456789"`
	Permission domain.BatchPermission `json:"permission" binding:"required" example:"editor"`
}

// CreateOrderRequest represents the create order request body.
type CreateOrderRequest struct {
	FileID  uuid.UUID         `json:"file_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	BatchID uuid.UUID         `json:"batch_id" binding:"required" example:"660e8400-e29b-41d4-a716-446655440001"`
	Tags    map[string]string `json:"tags" example:"supplier:Acme Corp,priority:urgent"`
}

// ReviewOrderRequest represents the review order request body.
type ReviewOrderRequest struct {
	Status string `json:"status" binding:"required" example:"approved"`
	Notes  string `json:"notes" example:"Verified against the scanned document. Totals match."`
}

// EditStructuredDataRequest represents the edit structured data request body.
type EditStructuredDataRequest struct {
	StructuredData PurchaseOrderDoc `json:"structured_data" binding:"required"`
}

// AddTagsRequest represents the add tags request body.
type AddTagsRequest struct {
	Tags map[string]string `json:"tags" binding:"required" example:"department:Procurement,cost_center:CC-1234"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"jane.doe@acme.com"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" example:"Jane Doe"`
	Role     domain.UserRole `json:"role" binding:"required" example:"member"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email" example:"jane.smith@acme.com"`
	FullName *string          `json:"full_name" example:"Jane Smith"`
	Role     *domain.UserRole `json:"role" example:"member"`
	IsActive *bool            `json:"is_active" example:"true"`
}

// CreateTenantRequest represents the create tenant request body.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required" example:"Acme Corporation"`
	Slug string `json:"slug" binding:"required" example:"acme"`
}

// UpdateTenantRequest represents the update tenant request body.
type UpdateTenantRequest struct {
	Name     *string `json:"name" example:"Acme Industries"`
	Slug     *string `json:"slug" example:"acme-ind"`
	IsActive *bool   `json:"is_active" example:"false"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2025-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// FileWithDownloadURL represents a file with its download URL.
type FileWithDownloadURL struct {
	File        domain.FileMeta `json:"file"`
	DownloadURL string          `json:"download_url" example:"https://s3.amazonaws.com/poaudit-uploads/...?X-Amz-Signature=..."`
}

// FileUploadWithWarning represents a file upload response with optional warning.
type FileUploadWithWarning struct {
	File    domain.FileMeta `json:"file"`
	Warning string          `json:"warning,omitempty" example:"file uploaded but could not be added to batch"`
}

// BatchWithFiles represents a batch with its files.
type BatchWithFiles struct {
	Batch     domain.Batch      `json:"batch"`
	Files     []domain.FileMeta `json:"files"`
	FilesMeta PagMeta           `json:"files_meta"`
}

// BatchUploadResultDoc represents the result of a single file in batch upload.
type BatchUploadResultDoc struct {
	File    *domain.FileMeta `json:"file"`
	Success bool             `json:"success" example:"true"`
	Error   *string          `json:"error" example:"unsupported file type"`
}

// ValidationSummaryDoc represents validation summary statistics.
type ValidationSummaryDoc struct {
	Total    int `json:"total" example:"12"`
	Passed   int `json:"passed" example:"10"`
	Errors   int `json:"errors" example:"0"`
	Warnings int `json:"warnings" example:"2"`
}

// ValidationResultEntry represents a single validation rule result.
type ValidationResultEntry struct {
	RuleName      string `json:"rule_name" example:"Required: Supplier"`
	RuleType      string `json:"rule_type" example:"required"`
	Severity      string `json:"severity" example:"error"`
	Passed        bool   `json:"passed" example:"true"`
	FieldPath     string `json:"field_path" example:"header.supplier"`
	ExpectedValue string `json:"expected_value" example:"non-empty value"`
	ActualValue   string `json:"actual_value" example:"Acme Industrial"`
	Message       string `json:"message" example:"Required: Supplier: header.supplier is present"`
}

// FieldStatusDoc represents the validation status of a single field.
type FieldStatusDoc struct {
	Status   string   `json:"status" example:"valid"`
	Messages []string `json:"messages"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// --- Extracted Purchase Order Schema (for documentation) ---

// PurchaseOrderDoc represents the full extracted purchase order structure.
type PurchaseOrderDoc struct {
	Header    OrderHeaderDoc `json:"header"`
	LineItems []LineItemDoc  `json:"line_items"`
	Notes     string         `json:"notes" example:"Deliver to loading dock B"`
}

// OrderHeaderDoc represents purchase order header fields.
type OrderHeaderDoc struct {
	Supplier      string `json:"supplier" example:"Acme Industrial Co."`
	Purchaser     string `json:"purchaser" example:"Widget Works Ltd."`
	VendorOrderNo string `json:"vendor_order_no" example:"V-2025-889"`
	PONumber      string `json:"po_number" example:"PO-2025-001234"`
	OrderDate     string `json:"order_date" example:"2025/01/15"`
	Address       string `json:"address" example:"88 Harbor Road, Kaohsiung"`
	TotalAmount   string `json:"total_amount" example:"35000"`
}

// LineItemDoc represents a single line item on the purchase order.
type LineItemDoc struct {
	Index          string         `json:"index" example:"1"`
	ItemDate       string         `json:"item_date" example:"2025/01/15"`
	ItemOrderNo    string         `json:"item_order_no" example:"A-102"`
	Brand          string         `json:"brand" example:"Bosch"`
	ProductName    string         `json:"product_name" example:"Hex bolt M8x40"`
	Spec           string         `json:"spec" example:"M8x40 zinc plated"`
	Quantity       string         `json:"quantity" example:"100"`
	Unit           string         `json:"unit" example:"pcs"`
	Prices         PriceFieldsDoc `json:"prices"`
	RawPriceTokens string         `json:"raw_price_tokens" example:"120 85 10200"`
	Weight         string         `json:"weight" example:"12.5"`
	Remarks        string         `json:"remarks" example:"urgent"`
}

// PriceFieldsDoc represents the four price columns of a line item.
type PriceFieldsDoc struct {
	ListPrice       string `json:"list_price" example:"120"`
	DiscountPercent string `json:"discount_percent" example:"85"`
	UnitPrice       string `json:"unit_price" example:"102"`
	Amount          string `json:"amount" example:"10200"`
}
