package order

import (
	"context"
	"fmt"
	"strings"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// DuplicateOrderValidator returns a validator that checks whether another order in
// the same tenant already has the same (supplier + PO number) combination.
func DuplicateOrderValidator(finder port.DuplicateOrderFinder) *BuiltinValidator {
	return &BuiltinValidator{
		key:      "logic.order.duplicate",
		name:     "Logical: Duplicate Order Detection",
		ruleType: domain.RuleTypeLogical,
		sev:      domain.SeverityWarning,
		fn:       duplicateOrderValidator(finder),
	}
}

func duplicateOrderValidator(finder port.DuplicateOrderFinder) func(context.Context, *PurchaseOrder) []ValidationResult {
	return func(ctx context.Context, ord *PurchaseOrder) []ValidationResult {
		supplier := ord.Header.Supplier.String()
		poNumber := ord.Header.PONumber.String()

		if supplier == "" || poNumber == "" {
			return []ValidationResult{{
				Passed:    true,
				FieldPath: "header",
				Message:   "Logical: Duplicate Order Detection: supplier or PO number is empty, skipping duplicate check",
			}}
		}

		tenantID, ok := TenantIDFromContext(ctx)
		if !ok {
			return []ValidationResult{{
				Passed:    true,
				FieldPath: "header",
				Message:   "Logical: Duplicate Order Detection: validation context missing, skipping duplicate check",
			}}
		}
		orderID, ok := OrderIDFromContext(ctx)
		if !ok {
			return []ValidationResult{{
				Passed:    true,
				FieldPath: "header",
				Message:   "Logical: Duplicate Order Detection: validation context missing, skipping duplicate check",
			}}
		}

		matches, err := finder.FindDuplicates(ctx, tenantID, orderID, supplier, poNumber)
		if err != nil {
			return []ValidationResult{{
				Passed:    true,
				FieldPath: "header",
				Message:   "Logical: Duplicate Order Detection: duplicate check unavailable",
			}}
		}

		if len(matches) == 0 {
			return []ValidationResult{{
				Passed:        true,
				FieldPath:     "header",
				ExpectedValue: "no duplicate orders",
				ActualValue:   "none found",
				Message:       "Logical: Duplicate Order Detection: no duplicate orders found",
			}}
		}

		names := make([]string, 0, len(matches))
		for idx := range matches {
			m := &matches[idx]
			names = append(names, fmt.Sprintf("%q (uploaded %s)", m.FileName, m.CreatedAt.Format("2006-01-02")))
		}

		return []ValidationResult{{
			Passed:        false,
			FieldPath:     "header",
			ExpectedValue: "no duplicate orders",
			ActualValue:   fmt.Sprintf("%d duplicate(s) found", len(matches)),
			Message: fmt.Sprintf(
				"Logical: Duplicate Order Detection: PO %s from supplier %s already exists in: %s",
				poNumber, supplier, strings.Join(names, ", "),
			),
		}}
	}
}
