package order

import (
	"math"
	"strings"

	"poaudit/internal/domain"
)

// CatalogPriceEntry holds a known list price for a supplier product.
type CatalogPriceEntry struct {
	ListPrice float64
	Currency  string
}

// CatalogLookup provides fast in-memory lookups of supplier catalog prices.
// It is immutable after construction and safe for concurrent access.
type CatalogLookup struct {
	byKey     map[string][]CatalogPriceEntry
	byProduct map[string][]CatalogPriceEntry
}

// NewCatalogLookup builds a CatalogLookup from catalog entries loaded from the database.
func NewCatalogLookup(entries []domain.CatalogEntry) *CatalogLookup {
	byKey := make(map[string][]CatalogPriceEntry, len(entries))
	byProduct := make(map[string][]CatalogPriceEntry, len(entries))
	for idx := range entries {
		e := &entries[idx]
		entry := CatalogPriceEntry{ListPrice: e.ListPrice, Currency: e.Currency}
		byKey[catalogKey(e.Supplier, e.ProductName)] = append(byKey[catalogKey(e.Supplier, e.ProductName)], entry)
		byProduct[normalizeCatalogTerm(e.ProductName)] = append(byProduct[normalizeCatalogTerm(e.ProductName)], entry)
	}
	return &CatalogLookup{byKey: byKey, byProduct: byProduct}
}

func catalogKey(supplier, product string) string {
	return normalizeCatalogTerm(supplier) + "|" + normalizeCatalogTerm(product)
}

func normalizeCatalogTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Empty reports whether the tenant has no catalog entries at all.
func (c *CatalogLookup) Empty() bool {
	return len(c.byKey) == 0
}

// Exists returns true if the product is in the catalog.
func (c *CatalogLookup) Exists(supplier, product string) bool {
	return len(c.Prices(supplier, product)) > 0
}

// Prices returns known list prices for the given supplier product. It checks
// the supplier-scoped entry first, then falls back to the product under any
// supplier, since order headers often abbreviate supplier names.
func (c *CatalogLookup) Prices(supplier, product string) []CatalogPriceEntry {
	if len(c.byKey) == 0 || normalizeCatalogTerm(product) == "" {
		return nil
	}
	if prices, ok := c.byKey[catalogKey(supplier, product)]; ok {
		return prices
	}
	return c.byProduct[normalizeCatalogTerm(product)]
}

// PriceMatches checks if the given list price matches any known catalog price
// for this product. Returns whether a match was found and the known prices.
func (c *CatalogLookup) PriceMatches(supplier, product string, listPrice float64) (matched bool, known []CatalogPriceEntry) {
	known = c.Prices(supplier, product)
	if len(known) == 0 {
		return false, nil
	}
	for idx := range known {
		if math.Abs(known[idx].ListPrice-listPrice) < 0.01 {
			return true, known
		}
	}
	return false, known
}
