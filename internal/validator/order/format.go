package order

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"poaudit/internal/domain"
)

// Raw price tokens may carry OCR-confused digits (O, L, I) alongside real
// ones; anything else means the model dumped prose into the price area.
var tokensPattern = regexp.MustCompile(`^[0-9OLIoli.,$ \t]+$`)

// formatValidator checks a field against a regex or format rule.
type formatValidator struct {
	ruleKey       string
	ruleName      string
	fieldPath     string
	severity      domain.ValidationSeverity
	reconCritical bool
	validate      func(*PurchaseOrder) []ValidationResult
}

func (v *formatValidator) RuleKey() string                     { return v.ruleKey }
func (v *formatValidator) RuleName() string                    { return v.ruleName }
func (v *formatValidator) RuleType() domain.ValidationRuleType { return domain.RuleTypeFormat }
func (v *formatValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *formatValidator) ReconciliationCritical() bool        { return v.reconCritical }

func (v *formatValidator) Validate(_ context.Context, data *PurchaseOrder) []ValidationResult {
	return v.validate(data)
}

func regexCheck(fieldPath, value, pattern, ruleName string, re *regexp.Regexp) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: pattern, ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping format check", ruleName),
		}
	}
	passed := re.MatchString(value)
	msg := fmt.Sprintf("%s: %s matches expected format", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s does not match expected format", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: pattern, ActualValue: value, Message: msg,
	}
}

func dateCheck(fieldPath, value, ruleName string) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: "parseable date", ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping date check", ruleName),
		}
	}
	_, err := parseDate(value)
	passed := err == nil
	msg := fmt.Sprintf("%s: %s is a valid date", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is not a parseable date", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: "parseable date", ActualValue: value, Message: msg,
	}
}

func numericCheck(fieldPath, value, ruleName string) ValidationResult {
	if value == "" {
		return ValidationResult{
			Passed: true, FieldPath: fieldPath,
			ExpectedValue: "numeric value", ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping numeric check", ruleName),
		}
	}
	s := strings.TrimSpace(value)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	_, err := strconv.ParseFloat(s, 64)
	passed := err == nil
	msg := fmt.Sprintf("%s: %s is numeric", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s is not a parseable number", ruleName, fieldPath)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: "numeric value", ActualValue: value, Message: msg,
	}
}

// parseDate tries common order date formats. Extraction normalizes ROC era
// dates to yyyy/mm/dd before validation, so that layout comes first.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006/01/02",
		"2006/1/2",
		"2006-01-02",
		"2006-1-2",
		"2006.01.02",
		"02-01-2006",
		"02/01/2006",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", s)
}

// FormatValidators returns all format validators.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "fmt.header.order_date", ruleName: "Format: Order Date",
			fieldPath: "header.order_date", severity: domain.SeverityWarning,
			validate: func(d *PurchaseOrder) []ValidationResult {
				return []ValidationResult{dateCheck("header.order_date", d.Header.OrderDate.String(), "Format: Order Date")}
			},
		},
		{
			ruleKey: "fmt.header.total_amount", ruleName: "Format: Order Total",
			fieldPath: "header.total_amount", severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				return []ValidationResult{numericCheck("header.total_amount", d.Header.TotalAmount.String(), "Format: Order Total")}
			},
		},
		{
			ruleKey: "fmt.line_item.item_date", ruleName: "Format: Line Item Date",
			fieldPath: "line_items[i].item_date", severity: domain.SeverityWarning,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					fp := fmt.Sprintf("line_items[%d].item_date", i)
					results = append(results, dateCheck(fp, d.LineItems[i].ItemDate.String(), "Format: Line Item Date"))
				}
				return results
			},
		},
		{
			ruleKey: "fmt.line_item.quantity", ruleName: "Format: Quantity",
			fieldPath: "line_items[i].quantity", severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					fp := fmt.Sprintf("line_items[%d].quantity", i)
					results = append(results, numericCheck(fp, d.LineItems[i].Quantity.String(), "Format: Quantity"))
				}
				return results
			},
		},
		{
			ruleKey: "fmt.line_item.raw_price_tokens", ruleName: "Format: Raw Price Tokens",
			fieldPath: "line_items[i].raw_price_tokens", severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				results := make([]ValidationResult, 0, len(d.LineItems))
				for i := range d.LineItems {
					fp := fmt.Sprintf("line_items[%d].raw_price_tokens", i)
					results = append(results, regexCheck(fp, d.LineItems[i].RawPriceTokens.String(), "numeric tokens separated by spaces", "Format: Raw Price Tokens", tokensPattern))
				}
				return results
			},
		},
		{
			ruleKey: "fmt.line_item.prices", ruleName: "Format: Price Columns",
			fieldPath: "line_items[i].prices", severity: domain.SeverityWarning, reconCritical: true,
			validate: func(d *PurchaseOrder) []ValidationResult {
				var results []ValidationResult
				for i := range d.LineItems {
					prices := &d.LineItems[i].Prices
					cols := []struct {
						name  string
						value string
					}{
						{"list_price", prices.ListPrice.String()},
						{"discount_percent", prices.DiscountPercent.String()},
						{"unit_price", prices.UnitPrice.String()},
						{"amount", prices.Amount.String()},
					}
					for _, col := range cols {
						fp := fmt.Sprintf("line_items[%d].prices.%s", i, col.name)
						results = append(results, numericCheck(fp, col.value, "Format: Price Columns"))
					}
				}
				return results
			},
		},
	}
}
