package order_test

import (
	"context"
	"testing"

	"poaudit/internal/audit"
	"poaudit/internal/validator/order"
)

// findValidator locates a built-in validator by rule key.
func findValidator(t *testing.T, key string) *order.BuiltinValidator {
	t.Helper()
	for _, v := range order.AllBuiltinValidators(audit.DefaultConfig()) {
		if v.RuleKey() == key {
			return v
		}
	}
	t.Fatalf("no builtin validator registered for key %q", key)
	return nil
}

// runValidator runs a validator against an order with a background context.
func runValidator(t *testing.T, key string, po *order.PurchaseOrder) []order.ValidationResult {
	t.Helper()
	return findValidator(t, key).Validate(context.Background(), po)
}
