package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Tenant represents an isolated organizational tenant.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a tenant.
type User struct {
	ID                   uuid.UUID    `db:"id" json:"id"`
	TenantID             uuid.UUID    `db:"tenant_id" json:"tenant_id"`
	Email                string       `db:"email" json:"email"`
	PasswordHash         string       `db:"password_hash" json:"-"`
	FullName             string       `db:"full_name" json:"full_name"`
	Role                 UserRole     `db:"role" json:"role"`
	IsActive             bool         `db:"is_active" json:"is_active"`
	AuthProvider         AuthProvider `db:"auth_provider" json:"auth_provider"`
	ProviderUserID       *string      `db:"provider_user_id" json:"-"`
	MonthlyOrderLimit    int          `db:"monthly_order_limit" json:"monthly_order_limit"`
	OrdersUsedThisPeriod int          `db:"orders_used_this_period" json:"orders_used_this_period"`
	CurrentPeriodStart   time.Time    `db:"current_period_start" json:"current_period_start"`
	EmailVerified        bool         `db:"email_verified" json:"email_verified"`
	EmailVerifiedAt      *time.Time   `db:"email_verified_at" json:"email_verified_at"`
	PasswordResetTokenID *string      `db:"password_reset_token_id" json:"-"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at" json:"updated_at"`
}

// Batch groups the purchase orders of one upload round within a tenant.
type Batch struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// BatchPermissionEntry represents a user's permission on a batch.
type BatchPermissionEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	BatchID    uuid.UUID       `db:"batch_id" json:"batch_id"`
	TenantID   uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	UserID     uuid.UUID       `db:"user_id" json:"user_id"`
	Permission BatchPermission `db:"permission" json:"permission"`
	GrantedBy  uuid.UUID       `db:"granted_by" json:"granted_by"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// BatchFile represents the association between a batch and an uploaded file.
type BatchFile struct {
	BatchID  uuid.UUID `db:"batch_id" json:"batch_id"`
	FileID   uuid.UUID `db:"file_id" json:"file_id"`
	TenantID uuid.UUID `db:"tenant_id" json:"tenant_id"`
	AddedBy  uuid.UUID `db:"added_by" json:"added_by"`
	AddedAt  time.Time `db:"added_at" json:"added_at"`
}

// BatchProgress reports per-status order counts for a batch.
type BatchProgress struct {
	BatchID    uuid.UUID `db:"batch_id" json:"batch_id"`
	Total      int       `db:"total" json:"total"`
	Pending    int       `db:"pending" json:"pending"`
	Processing int       `db:"processing" json:"processing"`
	Completed  int       `db:"completed" json:"completed"`
	Failed     int       `db:"failed" json:"failed"`
}

// PurchaseOrder represents one extracted purchase-order document linked to an uploaded file.
type PurchaseOrder struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	TenantID         uuid.UUID        `db:"tenant_id" json:"tenant_id"`
	BatchID          uuid.UUID        `db:"batch_id" json:"batch_id"`
	FileID           uuid.UUID        `db:"file_id" json:"file_id"`
	ExtractorModel   string           `db:"extractor_model" json:"extractor_model"`
	ExtractorPrompt  string           `db:"extractor_prompt" json:"-"`
	StructuredData   json.RawMessage  `db:"structured_data" json:"structured_data"`
	ConfidenceScores json.RawMessage  `db:"confidence_scores" json:"confidence_scores"`
	FieldProvenance  json.RawMessage  `db:"field_provenance" json:"field_provenance"`
	Confidence       float64          `db:"confidence" json:"confidence"`
	FallbackUsed     bool             `db:"fallback_used" json:"fallback_used"`
	ExtractionStatus ExtractionStatus `db:"extraction_status" json:"extraction_status"`
	ExtractionError  string           `db:"extraction_error" json:"extraction_error"`
	ExtractAttempts  int              `db:"extract_attempts" json:"extract_attempts"`
	RetryAfter       *time.Time       `db:"retry_after" json:"retry_after"`
	ExtractedAt      *time.Time       `db:"extracted_at" json:"extracted_at"`
	AuditStatus      AuditStatus      `db:"audit_status" json:"audit_status"`
	ReviewStatus     ReviewStatus     `db:"review_status" json:"review_status"`
	ReviewedBy       *uuid.UUID       `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt       *time.Time       `db:"reviewed_at" json:"reviewed_at"`
	ReviewerNotes    string           `db:"reviewer_notes" json:"reviewer_notes"`
	CreatedBy        uuid.UUID        `db:"created_by" json:"created_by"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// OrderSummary is a denormalized row per order backing list views and reports.
type OrderSummary struct {
	OrderID          uuid.UUID        `db:"order_id" json:"order_id"`
	TenantID         uuid.UUID        `db:"tenant_id" json:"tenant_id"`
	BatchID          uuid.UUID        `db:"batch_id" json:"batch_id"`
	Supplier         string           `db:"supplier" json:"supplier"`
	OrderNumber      string           `db:"order_number" json:"order_number"`
	OrderDate        *time.Time       `db:"order_date" json:"order_date"`
	LineItemCount    int              `db:"line_item_count" json:"line_item_count"`
	PassCount        int              `db:"pass_count" json:"pass_count"`
	WarningCount     int              `db:"warning_count" json:"warning_count"`
	FailureCount     int              `db:"failure_count" json:"failure_count"`
	TotalAmount      float64          `db:"total_amount" json:"total_amount"`
	Confidence       float64          `db:"confidence" json:"confidence"`
	ExtractionStatus ExtractionStatus `db:"extraction_status" json:"extraction_status"`
	AuditStatus      AuditStatus      `db:"audit_status" json:"audit_status"`
	ReviewStatus     ReviewStatus     `db:"review_status" json:"review_status"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// OrderTag represents a searchable tag on a purchase order.
type OrderTag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ValidationRule represents a configurable validation rule for orders.
type ValidationRule struct {
	ID                     uuid.UUID          `db:"id" json:"id"`
	TenantID               uuid.UUID          `db:"tenant_id" json:"tenant_id"`
	BatchID                *uuid.UUID         `db:"batch_id" json:"batch_id"`
	RuleKey                string             `db:"rule_key" json:"rule_key"`
	RuleName               string             `db:"rule_name" json:"rule_name"`
	RuleType               ValidationRuleType `db:"rule_type" json:"rule_type"`
	RuleConfig             json.RawMessage    `db:"rule_config" json:"rule_config"`
	Severity               ValidationSeverity `db:"severity" json:"severity"`
	IsActive               bool               `db:"is_active" json:"is_active"`
	IsBuiltin              bool               `db:"is_builtin" json:"is_builtin"`
	ReconciliationCritical bool               `db:"reconciliation_critical" json:"reconciliation_critical"`
	CreatedBy              uuid.UUID          `db:"created_by" json:"created_by"`
	CreatedAt              time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time          `db:"updated_at" json:"updated_at"`
}

// ValidationResult stores the result of running a validation rule against an order.
type ValidationResult struct {
	ID                     uuid.UUID          `db:"id" json:"id"`
	OrderID                uuid.UUID          `db:"order_id" json:"order_id"`
	TenantID               uuid.UUID          `db:"tenant_id" json:"tenant_id"`
	RuleKey                string             `db:"rule_key" json:"rule_key"`
	RuleName               string             `db:"rule_name" json:"rule_name"`
	Severity               ValidationSeverity `db:"severity" json:"severity"`
	Passed                 bool               `db:"passed" json:"passed"`
	FieldPath              string             `db:"field_path" json:"field_path"`
	ExpectedValue          string             `db:"expected_value" json:"expected_value"`
	ActualValue            string             `db:"actual_value" json:"actual_value"`
	Message                string             `db:"message" json:"message"`
	ReconciliationCritical bool               `db:"reconciliation_critical" json:"reconciliation_critical"`
	ValidatedAt            time.Time          `db:"validated_at" json:"validated_at"`
}

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	ContentHash  string     `db:"content_hash" json:"content_hash"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// CatalogEntry is one supplier list-price reference row.
type CatalogEntry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Supplier    string    `db:"supplier" json:"supplier"`
	ProductName string    `db:"product_name" json:"product_name"`
	ListPrice   float64   `db:"list_price" json:"list_price"`
	Currency    string    `db:"currency" json:"currency"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OrderEvent is one entry in the order audit trail.
type OrderEvent struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	OrderID   uuid.UUID        `db:"order_id" json:"order_id"`
	TenantID  uuid.UUID        `db:"tenant_id" json:"tenant_id"`
	Action    OrderEventAction `db:"action" json:"action"`
	Changes   json.RawMessage  `db:"changes" json:"changes"`
	ActorID   *uuid.UUID       `db:"actor_id" json:"actor_id"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// TenantStats aggregates processing metrics for a tenant.
type TenantStats struct {
	TotalOrders        int     `db:"total_orders" json:"total_orders"`
	PendingOrders      int     `db:"pending_orders" json:"pending_orders"`
	CompletedOrders    int     `db:"completed_orders" json:"completed_orders"`
	FailedOrders       int     `db:"failed_orders" json:"failed_orders"`
	PassedAudits       int     `db:"passed_audits" json:"passed_audits"`
	WarningAudits      int     `db:"warning_audits" json:"warning_audits"`
	FailedAudits       int     `db:"failed_audits" json:"failed_audits"`
	TotalLineItems     int     `db:"total_line_items" json:"total_line_items"`
	AvgConfidence      float64 `db:"avg_confidence" json:"avg_confidence"`
	TotalAuditedAmount float64 `db:"total_audited_amount" json:"total_audited_amount"`
}

// UserStats aggregates processing metrics for a single user.
type UserStats struct {
	OrdersCreated  int     `db:"orders_created" json:"orders_created"`
	BatchesCreated int     `db:"batches_created" json:"batches_created"`
	FilesUploaded  int     `db:"files_uploaded" json:"files_uploaded"`
	OrdersReviewed int     `db:"orders_reviewed" json:"orders_reviewed"`
	AvgConfidence  float64 `db:"avg_confidence" json:"avg_confidence"`
}
