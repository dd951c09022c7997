package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTenantInactive      = errors.New("tenant is inactive")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists for this tenant")
	ErrDuplicateTenantSlug = errors.New("tenant slug already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrExtractionPending   = errors.New("order extraction has not completed")
	ErrExtractionRunning   = errors.New("order extraction is already in progress")
	ErrNoStructuredData    = errors.New("order has no structured data")
	ErrInvalidReviewState  = errors.New("invalid review state transition")
	ErrBatchNotEmpty       = errors.New("batch still contains orders")

	ErrInvalidPermission     = errors.New("invalid batch permission")
	ErrSelfPermissionRemoval = errors.New("cannot remove your own batch permission")
	ErrInvalidStructuredData = errors.New("structured data does not match the purchase order schema")

	ErrOrderNotFound             = errors.New("order not found")
	ErrOrderAlreadyExists        = errors.New("an order already exists for this file")
	ErrBatchNotFound             = errors.New("batch not found")
	ErrBatchPermDenied           = errors.New("no permission on this batch")
	ErrDuplicateBatchFile        = errors.New("file already added to this batch")
	ErrFileNotFound              = errors.New("file not found")
	ErrValidationRuleNotFound    = errors.New("validation rule not found")
	ErrCatalogEntryNotFound      = errors.New("catalog entry not found")
	ErrQuotaExceeded             = errors.New("monthly order quota exceeded")
	ErrPasswordResetTokenInvalid = errors.New("password reset token is invalid or expired")
	ErrSocialAuthTokenInvalid    = errors.New("social auth token is invalid")
	ErrInsufficientRole          = errors.New("invalid or insufficient role")
	ErrEmailNotVerified          = errors.New("email address not verified")
)
