package order

import (
	"context"
	"fmt"

	"poaudit/internal/domain"
)

// requiredFieldValidator checks that a required field is not empty.
type requiredFieldValidator struct {
	ruleKey       string
	ruleName      string
	fieldPath     string
	severity      domain.ValidationSeverity
	reconCritical bool
	extract       func(*PurchaseOrder) string
	perItem       bool // true for line-item level checks
	extractItem   func(*LineItem) string
}

func (v *requiredFieldValidator) RuleKey() string  { return v.ruleKey }
func (v *requiredFieldValidator) RuleName() string { return v.ruleName }
func (v *requiredFieldValidator) RuleType() domain.ValidationRuleType {
	return domain.RuleTypeRequired
}
func (v *requiredFieldValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *requiredFieldValidator) ReconciliationCritical() bool        { return v.reconCritical }

// ValidationResult is a local alias to avoid import cycles.
type ValidationResult struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

func (v *requiredFieldValidator) Validate(_ context.Context, data *PurchaseOrder) []ValidationResult {
	if v.perItem {
		var results []ValidationResult
		for i := range data.LineItems {
			item := &data.LineItems[i]
			val := v.extractItem(item)
			fieldPath := fmt.Sprintf("line_items[%d].%s", i, stripPrefix(v.fieldPath))
			results = append(results, ValidationResult{
				Passed:        val != "",
				FieldPath:     fieldPath,
				ExpectedValue: "non-empty value",
				ActualValue:   val,
				Message:       fieldMessage(val != "", v.ruleName, fieldPath),
			})
		}
		return results
	}

	val := v.extract(data)
	return []ValidationResult{{
		Passed:        val != "",
		FieldPath:     v.fieldPath,
		ExpectedValue: "non-empty value",
		ActualValue:   val,
		Message:       fieldMessage(val != "", v.ruleName, v.fieldPath),
	}}
}

func fieldMessage(passed bool, ruleName, fieldPath string) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", ruleName, fieldPath)
	}
	return fmt.Sprintf("%s: %s is missing or empty", ruleName, fieldPath)
}

func stripPrefix(fieldPath string) string {
	// "line_items[i].quantity" → "quantity"
	for i := len(fieldPath) - 1; i >= 0; i-- {
		if fieldPath[i] == '.' {
			return fieldPath[i+1:]
		}
	}
	return fieldPath
}

// RequiredFieldValidators returns all required field validators.
func RequiredFieldValidators() []*requiredFieldValidator {
	return []*requiredFieldValidator{
		{
			ruleKey: "req.header.supplier", ruleName: "Required: Supplier",
			fieldPath: "header.supplier", severity: domain.SeverityError,
			extract: func(d *PurchaseOrder) string { return d.Header.Supplier.String() },
		},
		{
			ruleKey: "req.header.po_number", ruleName: "Required: PO Number",
			fieldPath: "header.po_number", severity: domain.SeverityWarning,
			extract: func(d *PurchaseOrder) string { return d.Header.PONumber.String() },
		},
		{
			ruleKey: "req.header.order_date", ruleName: "Required: Order Date",
			fieldPath: "header.order_date", severity: domain.SeverityWarning,
			extract: func(d *PurchaseOrder) string { return d.Header.OrderDate.String() },
		},
		{
			ruleKey: "req.header.purchaser", ruleName: "Required: Purchaser",
			fieldPath: "header.purchaser", severity: domain.SeverityWarning,
			extract: func(d *PurchaseOrder) string { return d.Header.Purchaser.String() },
		},
		{
			ruleKey: "req.line_item.product_name", ruleName: "Required: Product Name",
			fieldPath: "line_items[i].product_name", severity: domain.SeverityError,
			perItem: true, extractItem: func(li *LineItem) string { return li.ProductName.String() },
		},
		{
			ruleKey: "req.line_item.quantity", ruleName: "Required: Quantity",
			fieldPath: "line_items[i].quantity", severity: domain.SeverityWarning, reconCritical: true,
			perItem: true, extractItem: func(li *LineItem) string { return li.Quantity.String() },
		},
	}
}
