package validator

import (
	"context"

	"poaudit/internal/domain"
	"poaudit/internal/validator/order"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, data *order.PurchaseOrder) []order.ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
	ReconciliationCritical() bool
}
