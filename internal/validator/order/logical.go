package order

import (
	"context"
	"fmt"
	"time"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
)

// logicalValidator checks logical constraints on the order data.
type logicalValidator struct {
	ruleKey       string
	ruleName      string
	severity      domain.ValidationSeverity
	reconCritical bool
	validate      func(*PurchaseOrder) []ValidationResult
}

func (v *logicalValidator) RuleKey() string                     { return v.ruleKey }
func (v *logicalValidator) RuleName() string                    { return v.ruleName }
func (v *logicalValidator) RuleType() domain.ValidationRuleType { return domain.RuleTypeLogical }
func (v *logicalValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *logicalValidator) ReconciliationCritical() bool        { return v.reconCritical }

func (v *logicalValidator) Validate(_ context.Context, data *PurchaseOrder) []ValidationResult {
	return v.validate(data)
}

// LogicalValidators returns all logical validators.
func LogicalValidators(cfg audit.Config) []*logicalValidator {
	return []*logicalValidator{
		{
			ruleKey: "logic.line_item.price_presence", ruleName: "Logical: Price Data Present",
			severity: domain.SeverityError, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					item := &d.LineItems[i]
					fp := fmt.Sprintf("line_items[%d].prices", i)
					passed := item.HasStructuredPrices() || item.RawPriceTokens != ""
					msg := fmt.Sprintf("Logical: Price Data Present: %s has price columns or raw tokens", fp)
					if !passed {
						msg = fmt.Sprintf("Logical: Price Data Present: %s has no price columns and no raw price tokens", fp)
					}
					results = append(results, ValidationResult{
						Passed: passed, FieldPath: fp,
						ExpectedValue: "price columns or raw_price_tokens",
						ActualValue:   "none",
						Message:       msg,
					})
				}
				return results
			},
		},
		{
			ruleKey: "logic.line_item.non_negative", ruleName: "Logical: Non-Negative Values",
			severity: domain.SeverityError, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				var results []ValidationResult
				for i := range d.LineItems {
					item := &d.LineItems[i]
					fields := []struct {
						name  string
						value string
					}{
						{"quantity", item.Quantity.String()},
						{"prices.list_price", item.Prices.ListPrice.String()},
						{"prices.discount_percent", item.Prices.DiscountPercent.String()},
						{"prices.unit_price", item.Prices.UnitPrice.String()},
						{"prices.amount", item.Prices.Amount.String()},
					}
					for _, f := range fields {
						if f.value == "" {
							continue
						}
						fp := fmt.Sprintf("line_items[%d].%s", i, f.name)
						val := audit.CleanNumber(f.value)
						passed := val >= 0
						msg := fmt.Sprintf("Logical: Non-Negative Values: %s is non-negative", fp)
						if !passed {
							msg = fmt.Sprintf("Logical: Non-Negative Values: %s is negative (%.2f)", fp, val)
						}
						results = append(results, ValidationResult{
							Passed: passed, FieldPath: fp,
							ExpectedValue: ">= 0", ActualValue: f.value, Message: msg,
						})
					}
				}
				return results
			},
		},
		{
			ruleKey: "logic.line_item.discount_range", ruleName: "Logical: Discount in Range",
			severity: domain.SeverityWarning,
			validate: func(d *PurchaseOrder) []ValidationResult {
				var results []ValidationResult
				for i := range d.LineItems {
					raw := d.LineItems[i].Prices.DiscountPercent.String()
					if raw == "" {
						continue
					}
					fp := fmt.Sprintf("line_items[%d].prices.discount_percent", i)
					val := audit.CleanNumber(raw)
					passed := val <= cfg.DiscountMax
					msg := fmt.Sprintf("Logical: Discount in Range: %s is within range", fp)
					if !passed {
						msg = fmt.Sprintf("Logical: Discount in Range: %s (%.2f) exceeds %.0f", fp, val, cfg.DiscountMax)
					}
					results = append(results, ValidationResult{
						Passed: passed, FieldPath: fp,
						ExpectedValue: fmt.Sprintf("<= %.0f", cfg.DiscountMax),
						ActualValue:   raw, Message: msg,
					})
				}
				return results
			},
		},
		{
			ruleKey: "logic.line_items.at_least_one", ruleName: "Logical: At Least One Line Item",
			severity: domain.SeverityError,
			validate: func(d *PurchaseOrder) []ValidationResult {
				passed := len(d.LineItems) >= 1
				msg := "Logical: At Least One Line Item: order has line items"
				if !passed {
					msg = "Logical: At Least One Line Item: order has no line items"
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "line_items",
					ExpectedValue: ">= 1 line item",
					ActualValue:   fmt.Sprintf("%d", len(d.LineItems)),
					Message:       msg,
				}}
			},
		},
		{
			ruleKey: "logic.header.date_not_future", ruleName: "Logical: Order Date Not in Future",
			severity: domain.SeverityWarning,
			validate: func(d *PurchaseOrder) []ValidationResult {
				raw := d.Header.OrderDate.String()
				if raw == "" {
					return []ValidationResult{{
						Passed: true, FieldPath: "header.order_date",
						Message: "Logical: Order Date Not in Future: date missing, skipping",
					}}
				}
				orderDate, err := parseDate(raw)
				if err != nil {
					return []ValidationResult{{
						Passed: true, FieldPath: "header.order_date",
						Message: "Logical: Order Date Not in Future: date not parseable, skipping",
					}}
				}
				today := time.Now().Truncate(24 * time.Hour)
				passed := !orderDate.After(today)
				msg := "Logical: Order Date Not in Future: order date is not in the future"
				if !passed {
					msg = "Logical: Order Date Not in Future: order date is in the future"
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "header.order_date",
					ExpectedValue: fmt.Sprintf("<= %s", today.Format("2006-01-02")),
					ActualValue:   raw, Message: msg,
				}}
			},
		},
	}
}
