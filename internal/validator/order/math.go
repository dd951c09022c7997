package order

import (
	"context"
	"fmt"
	"math"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
)

// mathValidator checks arithmetic relationships between fields.
type mathValidator struct {
	ruleKey       string
	ruleName      string
	severity      domain.ValidationSeverity
	reconCritical bool
	validate      func(*PurchaseOrder) []ValidationResult
}

func (v *mathValidator) RuleKey() string                     { return v.ruleKey }
func (v *mathValidator) RuleName() string                    { return v.ruleName }
func (v *mathValidator) RuleType() domain.ValidationRuleType { return domain.RuleTypeMath }
func (v *mathValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *mathValidator) ReconciliationCritical() bool        { return v.reconCritical }

func (v *mathValidator) Validate(_ context.Context, data *PurchaseOrder) []ValidationResult {
	return v.validate(data)
}

func mathResult(passed bool, fieldPath, expected, actual, ruleName string) ValidationResult {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)", ruleName, fieldPath, expected, actual)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: actual, Message: msg,
	}
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// MathValidators returns all mathematical validators. The extended amount
// reconciliation is split across two rules so an outright mismatch fails the
// order while a small drift only marks it for review.
func MathValidators(cfg audit.Config) []*mathValidator {
	return []*mathValidator{
		{
			ruleKey: "math.line_item.amount", ruleName: "Math: Extended Amount",
			severity: domain.SeverityError, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					item := &d.LineItems[i]
					fp := fmt.Sprintf("line_items[%d].prices.amount", i)
					norm, res := audit.CheckItem(audit.CheckInput{
						Quantity:  item.Quantity.String(),
						UnitPrice: item.Prices.UnitPrice.String(),
						Amount:    item.Prices.Amount.String(),
					}, cfg)
					passed := res.Verdict != audit.VerdictFailure
					msg := fmt.Sprintf("Math: Extended Amount: %s %s", fp, res.Message)
					results = append(results, ValidationResult{
						Passed: passed, FieldPath: fp,
						ExpectedValue: fmtf(res.Expected),
						ActualValue:   fmtf(norm.Amount),
						Message:       msg,
					})
				}
				return results
			},
		},
		{
			ruleKey: "math.line_item.amount_drift", ruleName: "Math: Extended Amount Drift",
			severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					item := &d.LineItems[i]
					fp := fmt.Sprintf("line_items[%d].prices.amount", i)
					norm, res := audit.CheckItem(audit.CheckInput{
						Quantity:  item.Quantity.String(),
						UnitPrice: item.Prices.UnitPrice.String(),
						Amount:    item.Prices.Amount.String(),
					}, cfg)
					passed := res.Verdict != audit.VerdictWarning
					msg := fmt.Sprintf("Math: Extended Amount Drift: %s has no drift", fp)
					if !passed {
						msg = fmt.Sprintf("Math: Extended Amount Drift: %s %s", fp, res.Message)
					}
					results = append(results, ValidationResult{
						Passed: passed, FieldPath: fp,
						ExpectedValue: fmtf(res.Expected),
						ActualValue:   fmtf(norm.Amount),
						Message:       msg,
					})
				}
				return results
			},
		},
		{
			ruleKey: "math.line_item.unit_price", ruleName: "Math: Unit Price",
			severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					prices := &d.LineItems[i].Prices
					fp := fmt.Sprintf("line_items[%d].prices.unit_price", i)
					list := audit.CleanNumber(prices.ListPrice.String())
					disc := audit.CleanNumber(prices.DiscountPercent.String())
					unit := audit.CleanNumber(prices.UnitPrice.String())
					if list <= 0 || disc <= 0 || unit <= 0 {
						results = append(results, ValidationResult{
							Passed: true, FieldPath: fp,
							Message: "Math: Unit Price: price columns incomplete, skipping",
						})
						continue
					}
					factor := disc
					if factor > 1 {
						factor /= 100
					}
					expected := list * factor
					relErr := math.Abs(unit-expected) / expected
					passed := relErr <= cfg.PriceErrorTolerance
					results = append(results, mathResult(passed, fp, fmtf(expected), fmtf(unit), "Math: Unit Price"))
				}
				return results
			},
		},
		{
			ruleKey: "math.order.total", ruleName: "Math: Order Total",
			severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				raw := d.Header.TotalAmount.String()
				declared := audit.CleanNumber(raw)
				if raw == "" || declared == 0 {
					return []ValidationResult{{
						Passed: true, FieldPath: "header.total_amount",
						Message: "Math: Order Total: order total missing, skipping",
					}}
				}
				var sum float64
				for i := range d.LineItems {
					sum += audit.CleanNumber(d.LineItems[i].Prices.Amount.String())
				}
				passed := math.Abs(declared-sum) <= cfg.DisplayTolerance
				return []ValidationResult{mathResult(passed, "header.total_amount", fmtf(sum), fmtf(declared), "Math: Order Total")}
			},
		},
	}
}
