// Command seedcatalog loads a supplier price catalog from an Excel workbook
// into the catalog_entries table for one tenant. The catalog backs the
// catalog validation rules (product known, list price match).
// Expected columns: A=Supplier, B=Product Name, C=List Price, D=Currency
// (optional, defaults to TWD). The first row is treated as a header.
// Usage: go run ./cmd/seedcatalog -file catalog.xlsx -tenant <tenant-uuid>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"poaudit/internal/audit"
	"poaudit/internal/config"
	"poaudit/internal/domain"
	"poaudit/internal/repository/postgres"
)

const batchSize = 500

const defaultCurrency = "TWD"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		filePath   = flag.String("file", "", "path to the catalog Excel workbook")
		tenantArg  = flag.String("tenant", "", "tenant UUID to seed the catalog for")
		sheetIndex = flag.Int("sheet", 0, "worksheet index to read")
	)
	flag.Parse()

	if *filePath == "" || *tenantArg == "" {
		flag.Usage()
		return fmt.Errorf("both -file and -tenant are required")
	}
	tenantID, err := uuid.Parse(*tenantArg)
	if err != nil {
		return fmt.Errorf("invalid tenant UUID: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	entries, skipped, err := parseCatalog(*filePath, *sheetIndex, tenantID)
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Printf("Skipped %d rows (missing supplier/product or unparsable price)", skipped)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no usable catalog rows in %s", *filePath)
	}

	catalogRepo := postgres.NewCatalogRepo(db)
	ctx := context.Background()

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := catalogRepo.UpsertBatch(ctx, entries[i:end]); err != nil {
			return fmt.Errorf("upserting batch at offset %d: %w", i, err)
		}
	}

	log.Printf("Seeded %d catalog entries (%d batches) for tenant %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, tenantID)
	return nil
}

// parseCatalog reads the worksheet and returns deduplicated catalog entries.
// Duplicate supplier/product/price rows keep the first occurrence.
func parseCatalog(path string, sheetIndex int, tenantID uuid.UUID) ([]domain.CatalogEntry, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(sheetIndex)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("workbook has no sheet at index %d", sheetIndex)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	seen := make(map[string]bool)
	var entries []domain.CatalogEntry
	skipped := 0

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		supplier := strings.TrimSpace(cellVal(row, 0))
		product := strings.TrimSpace(cellVal(row, 1))
		priceStr := strings.TrimSpace(cellVal(row, 2))
		if supplier == "" || product == "" || priceStr == "" {
			skipped++
			continue
		}

		price := audit.CleanNumber(priceStr)
		if price <= 0 {
			skipped++
			continue
		}

		currency := strings.ToUpper(strings.TrimSpace(cellVal(row, 3)))
		if currency == "" {
			currency = defaultCurrency
		}

		key := fmt.Sprintf("%s|%s|%.4f", strings.ToLower(supplier), strings.ToLower(product), price)
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, domain.CatalogEntry{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Supplier:    supplier,
			ProductName: product,
			ListPrice:   price,
			Currency:    currency,
		})
	}

	return entries, skipped, nil
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
