package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
	"poaudit/internal/port"
	"poaudit/internal/validator/order"
)

// OrderItemReport is one line item's display-time reconciliation result.
type OrderItemReport struct {
	Index       int           `json:"index"`
	ProductName string        `json:"product_name"`
	Quantity    float64       `json:"quantity"`
	UnitPrice   float64       `json:"unit_price"`
	Amount      float64       `json:"amount"`
	Expected    float64       `json:"expected"`
	Diff        float64       `json:"diff"`
	Verdict     audit.Verdict `json:"verdict"`
	Message     string        `json:"message"`
}

// OrderAuditReport aggregates the display-time reconciliation of one order.
type OrderAuditReport struct {
	OrderID            uuid.UUID         `json:"order_id"`
	Supplier           string            `json:"supplier"`
	OrderNumber        string            `json:"order_number"`
	Items              []OrderItemReport `json:"items"`
	PassCount          int               `json:"pass_count"`
	WarningCount       int               `json:"warning_count"`
	FailureCount       int               `json:"failure_count"`
	IndeterminateCount int               `json:"indeterminate_count"`
	DeclaredTotal      float64           `json:"declared_total"`
	CalculatedTotal    float64           `json:"calculated_total"`
}

// ReportService provides reporting over audited orders.
type ReportService interface {
	OrderAuditReport(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderAuditReport, error)
	SupplierSummary(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.SupplierSummaryRow, int, error)
	BatchOverview(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.BatchOverviewRow, error)
	DiscrepantOrders(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error)
	MonthlyVolume(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyVolumeRow, error)
}

type reportService struct {
	reportRepo port.ReportRepository
	orderRepo  port.OrderRepository
	auditCfg   audit.Config
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	reportRepo port.ReportRepository,
	orderRepo port.OrderRepository,
	auditCfg audit.Config,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		orderRepo:  orderRepo,
		auditCfg:   auditCfg,
	}
}

// OrderAuditReport recomputes the arithmetic check for every stored line item.
// The stored structured data is read-only here; each item is normalized into a
// fresh copy before comparison.
func (s *reportService) OrderAuditReport(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderAuditReport, error) {
	po, err := s.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if po.ExtractionStatus != domain.ExtractionStatusCompleted {
		return nil, domain.ErrExtractionPending
	}
	if len(po.StructuredData) == 0 {
		return nil, domain.ErrNoStructuredData
	}

	var doc order.PurchaseOrder
	if err := json.Unmarshal(po.StructuredData, &doc); err != nil {
		return nil, fmt.Errorf("reportService.OrderAuditReport: decoding structured data: %w", err)
	}

	report := &OrderAuditReport{
		OrderID:       orderID,
		Supplier:      doc.Header.Supplier.String(),
		OrderNumber:   doc.Header.PONumber.String(),
		DeclaredTotal: audit.CleanNumber(doc.Header.TotalAmount.String()),
		Items:         make([]OrderItemReport, 0, len(doc.LineItems)),
	}

	for i, li := range doc.LineItems {
		normalized, result := audit.CheckItem(audit.CheckInput{
			Quantity:  li.Quantity.String(),
			UnitPrice: li.Prices.UnitPrice.String(),
			Amount:    li.Prices.Amount.String(),
		}, s.auditCfg)

		report.Items = append(report.Items, OrderItemReport{
			Index:       i + 1,
			ProductName: li.ProductName.String(),
			Quantity:    normalized.Quantity,
			UnitPrice:   normalized.UnitPrice,
			Amount:      normalized.Amount,
			Expected:    result.Expected,
			Diff:        result.Diff,
			Verdict:     result.Verdict,
			Message:     result.Message,
		})
		report.CalculatedTotal += normalized.Amount

		switch result.Verdict {
		case audit.VerdictPass:
			report.PassCount++
		case audit.VerdictWarning:
			report.WarningCount++
		case audit.VerdictFailure:
			report.FailureCount++
		default:
			report.IndeterminateCount++
		}
	}

	return report, nil
}

func (s *reportService) SupplierSummary(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.SupplierSummaryRow, int, error) {
	return s.reportRepo.SupplierSummary(ctx, tenantID, filters)
}

func (s *reportService) BatchOverview(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.BatchOverviewRow, error) {
	return s.reportRepo.BatchOverview(ctx, tenantID, filters)
}

func (s *reportService) DiscrepantOrders(ctx context.Context, tenantID uuid.UUID, filters domain.ReportFilters) ([]domain.OrderSummary, int, error) {
	return s.reportRepo.DiscrepantOrders(ctx, tenantID, filters)
}

func (s *reportService) MonthlyVolume(ctx context.Context, tenantID uuid.UUID, months int) ([]domain.MonthlyVolumeRow, error) {
	return s.reportRepo.MonthlyVolume(ctx, tenantID, months)
}
