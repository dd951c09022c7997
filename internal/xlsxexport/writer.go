// Package xlsxexport renders audited purchase orders as an Excel workbook,
// one row per line item with the reconciliation verdict alongside the
// extracted fields.
package xlsxexport

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"poaudit/internal/audit"
	"poaudit/internal/csvexport"
	"poaudit/internal/domain"
	"poaudit/internal/validator/order"
)

const sheetName = "Line Items"

const (
	minColWidth = 8
	maxColWidth = 50
)

// VerdictGlyphs maps each verdict to its display glyph. The glyph lives here,
// in the presentation layer; the audit core only ever returns the enum.
var VerdictGlyphs = map[audit.Verdict]string{
	audit.VerdictIndeterminate: "⚪",
	audit.VerdictPass:          "🟢",
	audit.VerdictWarning:       "🟡",
	audit.VerdictFailure:       "🔴",
}

// columns defines the worksheet header row.
var columns = []string{
	"Order ID",
	"Supplier",
	"PO Number",
	"Order Date",
	"Item Date",
	"Item Order No",
	"Brand",
	"Product Name",
	"Spec",
	"Quantity",
	"Unit",
	"List Price",
	"Discount %",
	"Unit Price",
	"Amount",
	"Weight",
	"Remarks",
	"Audit Status",
	"Audit Message",
	"Confidence",
}

// Writer accumulates line-item rows into an excelize workbook.
type Writer struct {
	file      *excelize.File
	cfg       audit.Config
	nextRow   int
	colWidths []int
}

// NewWriter creates a workbook with the header row already written.
func NewWriter(cfg audit.Config) (*Writer, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	w := &Writer{
		file:      f,
		cfg:       cfg,
		nextRow:   1,
		colWidths: make([]int, len(columns)),
	}
	for i, col := range columns {
		w.colWidths[i] = utf8.RuneCountInString(col)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := w.writeRow(header); err != nil {
		return nil, err
	}
	return w, nil
}

// AddOrders appends one row per line item for every successfully extracted
// order. Orders without extracted data are skipped.
func (w *Writer) AddOrders(orders []domain.PurchaseOrder) error {
	for i := range orders {
		if err := w.addOrder(&orders[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) addOrder(po *domain.PurchaseOrder) error {
	if po.ExtractionStatus != domain.ExtractionStatusCompleted || len(po.StructuredData) == 0 {
		return nil
	}

	var doc order.PurchaseOrder
	if err := json.Unmarshal(po.StructuredData, &doc); err != nil {
		return nil
	}

	for _, li := range doc.LineItems {
		_, res := audit.CheckItem(audit.CheckInput{
			Quantity:  li.Quantity.String(),
			UnitPrice: li.Prices.UnitPrice.String(),
			Amount:    li.Prices.Amount.String(),
		}, w.cfg)

		row := []interface{}{
			po.ID.String(),
			doc.Header.Supplier.String(),
			doc.Header.PONumber.String(),
			doc.Header.OrderDate.String(),
			li.ItemDate.String(),
			li.ItemOrderNo.String(),
			li.Brand.String(),
			li.ProductName.String(),
			li.Spec.String(),
			li.Quantity.String(),
			li.Unit.String(),
			li.Prices.ListPrice.String(),
			li.Prices.DiscountPercent.String(),
			li.Prices.UnitPrice.String(),
			li.Prices.Amount.String(),
			li.Weight.String(),
			li.Remarks.String(),
			VerdictGlyphs[res.Verdict],
			res.Message,
			strconv.FormatFloat(po.Confidence, 'f', 2, 64),
		}
		if err := w.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRow(values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.nextRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
		if s, ok := v.(string); ok {
			if n := utf8.RuneCountInString(s); n > w.colWidths[i] {
				w.colWidths[i] = n
			}
		}
	}
	w.nextRow++
	return nil
}

// WriteTo sizes every column from the widest cell seen, clamped to
// [minColWidth, maxColWidth], then serializes the workbook.
func (w *Writer) WriteTo(out io.Writer) error {
	for i := range columns {
		width := w.colWidths[i] + 2
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(sheetName, col, col, float64(width)); err != nil {
			return err
		}
	}
	return w.file.Write(out)
}

// Close releases the workbook's resources.
func (w *Writer) Close() error {
	return w.file.Close()
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_batch_name}_{YYYY-MM-DD}.xlsx
func BuildFilename(batchName string) string {
	sanitized := csvexport.SanitizeFilename(batchName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.xlsx", sanitized, date)
}
