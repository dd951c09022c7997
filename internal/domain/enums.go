package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleFree   UserRole = "free"
)

// ValidUserRoles enumerates the roles accepted on user create/update.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:  true,
	RoleMember: true,
	RoleFree:   true,
}

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// ExtractionStatus represents the lifecycle of an order's AI extraction.
type ExtractionStatus string

const (
	ExtractionStatusPending    ExtractionStatus = "pending"
	ExtractionStatusProcessing ExtractionStatus = "processing"
	ExtractionStatusQueued     ExtractionStatus = "queued"
	ExtractionStatusCompleted  ExtractionStatus = "completed"
	ExtractionStatusFailed     ExtractionStatus = "failed"
)

// ReviewStatus represents the human review lifecycle of an order.
type ReviewStatus string

const (
	ReviewStatusUnreviewed ReviewStatus = "unreviewed"
	ReviewStatusInReview   ReviewStatus = "in_review"
	ReviewStatusApproved   ReviewStatus = "approved"
	ReviewStatusRejected   ReviewStatus = "rejected"
)

// AuditStatus is the order-level rollup of the arithmetic audit.
type AuditStatus string

const (
	AuditStatusPending AuditStatus = "pending"
	AuditStatusPassed  AuditStatus = "passed"
	AuditStatusWarning AuditStatus = "warning"
	AuditStatusFailed  AuditStatus = "failed"
)

// BatchPermission defines access levels on a batch.
type BatchPermission string

const (
	BatchPermissionOwner  BatchPermission = "owner"
	BatchPermissionEditor BatchPermission = "editor"
	BatchPermissionViewer BatchPermission = "viewer"
)

// ValidBatchPermissions enumerates the permissions accepted on grant.
var ValidBatchPermissions = map[BatchPermission]bool{
	BatchPermissionOwner:  true,
	BatchPermissionEditor: true,
	BatchPermissionViewer: true,
}

// CanEdit reports whether the permission allows modifying the batch.
func (p BatchPermission) CanEdit() bool {
	return p == BatchPermissionOwner || p == BatchPermissionEditor
}

// BatchPermLevel maps a permission to a comparable level. Zero means no access.
func BatchPermLevel(p BatchPermission) int {
	switch p {
	case BatchPermissionOwner:
		return 3
	case BatchPermissionEditor:
		return 2
	case BatchPermissionViewer:
		return 1
	default:
		return 0
	}
}

// ImplicitBatchPerm returns the batch permission a role carries without an
// explicit grant. Admins own every batch in their tenant.
func ImplicitBatchPerm(role UserRole) BatchPermission {
	if role == RoleAdmin {
		return BatchPermissionOwner
	}
	return ""
}

// ValidationRuleType categorizes validation rules.
type ValidationRuleType string

const (
	RuleTypeRequired ValidationRuleType = "required"
	RuleTypeFormat   ValidationRuleType = "format"
	RuleTypeLogical  ValidationRuleType = "logical"
	RuleTypeMath     ValidationRuleType = "math"
	RuleTypeCatalog  ValidationRuleType = "catalog"
)

// ValidationSeverity indicates how a failed rule affects the order status.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
	SeverityInfo    ValidationSeverity = "info"
)

// FieldValidationStatus is the reviewer-facing state of one extracted field.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
	FieldStatusInvalid FieldValidationStatus = "invalid"
)

// OrderEventAction identifies an entry in the order audit trail.
type OrderEventAction string

const (
	EventOrderCreated        OrderEventAction = "order_created"
	EventExtractionStarted   OrderEventAction = "extraction_started"
	EventExtractionCompleted OrderEventAction = "extraction_completed"
	EventExtractionQueued    OrderEventAction = "extraction_queued"
	EventExtractionFailed    OrderEventAction = "extraction_failed"
	EventExtractionRetried   OrderEventAction = "extraction_retried"
	EventExtractionReused    OrderEventAction = "extraction_reused"
	EventAuditCompleted      OrderEventAction = "audit_completed"
	EventDataEdited          OrderEventAction = "data_edited"
	EventReviewChanged       OrderEventAction = "review_changed"
	EventReaudited           OrderEventAction = "reaudited"
)
