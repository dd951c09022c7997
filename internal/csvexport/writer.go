package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
	"poaudit/internal/validator/order"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (21 columns).
var columns = []string{
	"Order ID",
	"Extraction Status",
	"Audit Status",
	"Review Status",
	"Supplier",
	"Purchaser",
	"PO Number",
	"Vendor Order No",
	"Order Date",
	"Declared Total",
	"Calculated Total",
	"Line Item Count",
	"Pass",
	"Warning",
	"Failure",
	"Indeterminate",
	"Confidence",
	"Fallback Used",
	"Reviewer Notes",
	"Extracted At",
	"Created At",
}

// Writer wraps csv.Writer for exporting audited orders as CSV.
type Writer struct {
	csv *csv.Writer
	cfg audit.Config
}

// NewWriter creates a Writer that writes CSV to w. The audit config supplies
// the tolerance for the per-item reconciliation backing the verdict columns.
func NewWriter(w io.Writer, cfg audit.Config) *Writer {
	return &Writer{csv: csv.NewWriter(w), cfg: cfg}
}

// WriteHeader writes the 21-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteOrders converts a batch of orders to CSV rows and writes them.
func (w *Writer) WriteOrders(orders []domain.PurchaseOrder) error {
	for i := range orders {
		row := w.orderToRow(&orders[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// orderToRow converts a single order to a 21-element string slice. If the
// order is not successfully extracted or StructuredData is invalid, metadata
// columns are filled and the order columns are left empty.
func (w *Writer) orderToRow(po *domain.PurchaseOrder) []string {
	row := make([]string, len(columns))

	// Metadata columns (always filled)
	row[0] = po.ID.String()
	row[1] = string(po.ExtractionStatus)
	row[2] = string(po.AuditStatus)
	row[3] = string(po.ReviewStatus)
	row[16] = formatMoney(po.Confidence)
	row[17] = formatBool(po.FallbackUsed)
	row[18] = po.ReviewerNotes
	row[19] = formatTime(po.ExtractedAt)
	row[20] = po.CreatedAt.Format(time.RFC3339)

	// Order columns: only if extraction completed and JSON is valid
	if po.ExtractionStatus != domain.ExtractionStatusCompleted || len(po.StructuredData) == 0 {
		return row
	}

	var doc order.PurchaseOrder
	if err := json.Unmarshal(po.StructuredData, &doc); err != nil {
		return row
	}

	var calculated float64
	var pass, warning, failure, indeterminate int
	for _, li := range doc.LineItems {
		normalized, res := audit.CheckItem(audit.CheckInput{
			Quantity:  li.Quantity.String(),
			UnitPrice: li.Prices.UnitPrice.String(),
			Amount:    li.Prices.Amount.String(),
		}, w.cfg)
		calculated += normalized.Amount
		switch res.Verdict {
		case audit.VerdictPass:
			pass++
		case audit.VerdictWarning:
			warning++
		case audit.VerdictFailure:
			failure++
		default:
			indeterminate++
		}
	}

	row[4] = doc.Header.Supplier.String()
	row[5] = doc.Header.Purchaser.String()
	row[6] = doc.Header.PONumber.String()
	row[7] = doc.Header.VendorOrderNo.String()
	row[8] = doc.Header.OrderDate.String()
	row[9] = formatMoney(audit.CleanNumber(doc.Header.TotalAmount.String()))
	row[10] = formatMoney(calculated)
	row[11] = strconv.Itoa(len(doc.LineItems))
	row[12] = strconv.Itoa(pass)
	row[13] = strconv.Itoa(warning)
	row[14] = strconv.Itoa(failure)
	row[15] = strconv.Itoa(indeterminate)

	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a batch name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_batch_name}_{YYYY-MM-DD}.csv
func BuildFilename(batchName string) string {
	sanitized := SanitizeFilename(batchName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
