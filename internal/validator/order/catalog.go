package order

import (
	"context"
	"fmt"
	"strings"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
	"poaudit/internal/port"
)

// CatalogValidators returns validators that check line items against the
// tenant's supplier price catalog. The repository is captured by closure and
// the tenant comes from the validation context, so the catalog is loaded
// fresh for each order.
func CatalogValidators(repo port.CatalogRepository) []*BuiltinValidator {
	return []*BuiltinValidator{
		{
			key:      "catalog.line_item.product_known",
			name:     "Catalog: Product Known",
			ruleType: domain.RuleTypeCatalog,
			sev:      domain.SeverityWarning,
			fn:       productKnownValidator(repo),
		},
		{
			key:           "catalog.line_item.list_price",
			name:          "Catalog: List Price Match",
			ruleType:      domain.RuleTypeCatalog,
			sev:           domain.SeverityWarning,
			reconCritical: true,
			fn:            listPriceValidator(repo),
		},
	}
}

func loadCatalog(ctx context.Context, repo port.CatalogRepository) (*CatalogLookup, bool) {
	tenantID, ok := TenantIDFromContext(ctx)
	if !ok {
		return nil, false
	}
	entries, err := repo.LoadAll(ctx, tenantID)
	if err != nil {
		return nil, false
	}
	return NewCatalogLookup(entries), true
}

func productKnownValidator(repo port.CatalogRepository) func(context.Context, *PurchaseOrder) []ValidationResult {
	return func(ctx context.Context, ord *PurchaseOrder) []ValidationResult {
		lookup, ok := loadCatalog(ctx, repo)
		if !ok {
			return []ValidationResult{{
				Passed: true, FieldPath: "line_items",
				Message: "Catalog: Product Known: catalog unavailable, skipping",
			}}
		}
		if lookup.Empty() {
			return []ValidationResult{{
				Passed: true, FieldPath: "line_items",
				Message: "Catalog: Product Known: tenant has no catalog entries, skipping",
			}}
		}

		supplier := ord.Header.Supplier.String()
		results := make([]ValidationResult, 0, len(ord.LineItems))
		for i := range ord.LineItems {
			item := &ord.LineItems[i]
			fp := fmt.Sprintf("line_items[%d].product_name", i)

			product := item.ProductName.String()
			if product == "" {
				results = append(results, ValidationResult{
					Passed: true, FieldPath: fp,
					Message: "Catalog: Product Known: product name is empty, skipping",
				})
				continue
			}

			exists := lookup.Exists(supplier, product)
			msg := fmt.Sprintf("Catalog: Product Known: %s found in supplier catalog", fp)
			if !exists {
				msg = fmt.Sprintf("Catalog: Product Known: %s product %q not found in supplier catalog", fp, product)
			}
			results = append(results, ValidationResult{
				Passed:        exists,
				FieldPath:     fp,
				ExpectedValue: "product listed in supplier catalog",
				ActualValue:   product,
				Message:       msg,
			})
		}
		return results
	}
}

func listPriceValidator(repo port.CatalogRepository) func(context.Context, *PurchaseOrder) []ValidationResult {
	return func(ctx context.Context, ord *PurchaseOrder) []ValidationResult {
		lookup, ok := loadCatalog(ctx, repo)
		if !ok {
			return []ValidationResult{{
				Passed: true, FieldPath: "line_items",
				Message: "Catalog: List Price Match: catalog unavailable, skipping",
			}}
		}
		if lookup.Empty() {
			return []ValidationResult{{
				Passed: true, FieldPath: "line_items",
				Message: "Catalog: List Price Match: tenant has no catalog entries, skipping",
			}}
		}

		supplier := ord.Header.Supplier.String()
		results := make([]ValidationResult, 0, len(ord.LineItems))
		for i := range ord.LineItems {
			item := &ord.LineItems[i]
			fp := fmt.Sprintf("line_items[%d].prices.list_price", i)

			product := item.ProductName.String()
			listPrice := audit.CleanNumber(item.Prices.ListPrice.String())
			if product == "" || listPrice <= 0 {
				results = append(results, ValidationResult{
					Passed: true, FieldPath: fp,
					Message: "Catalog: List Price Match: product or list price missing, skipping",
				})
				continue
			}

			if !lookup.Exists(supplier, product) {
				results = append(results, ValidationResult{
					Passed: true, FieldPath: fp,
					Message: fmt.Sprintf("Catalog: List Price Match: product %q not in catalog, skipping price check", product),
				})
				continue
			}

			matched, known := lookup.PriceMatches(supplier, product, listPrice)
			if matched {
				results = append(results, ValidationResult{
					Passed:        true,
					FieldPath:     fp,
					ExpectedValue: formatKnownPrices(known),
					ActualValue:   fmtf(listPrice),
					Message:       fmt.Sprintf("Catalog: List Price Match: %s matches catalog price for %q", fp, product),
				})
			} else {
				results = append(results, ValidationResult{
					Passed:        false,
					FieldPath:     fp,
					ExpectedValue: formatKnownPrices(known),
					ActualValue:   fmtf(listPrice),
					Message:       fmt.Sprintf("Catalog: List Price Match: %s price %s does not match catalog prices for %q", fp, fmtf(listPrice), product),
				})
			}
		}
		return results
	}
}

func formatKnownPrices(known []CatalogPriceEntry) string {
	if len(known) == 0 {
		return "no catalog prices found"
	}
	parts := make([]string, 0, len(known))
	for idx := range known {
		k := &known[idx]
		s := fmtf(k.ListPrice)
		if k.Currency != "" {
			s += " " + k.Currency
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
