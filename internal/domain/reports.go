package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportFilters narrows aggregation queries. Zero values mean "no filter".
type ReportFilters struct {
	BatchID     *uuid.UUID
	Supplier    string
	AuditStatus AuditStatus
	DateFrom    *time.Time
	DateTo      *time.Time
	Offset      int
	Limit       int
}

// SupplierSummaryRow aggregates audited orders per supplier.
type SupplierSummaryRow struct {
	Supplier      string  `db:"supplier" json:"supplier"`
	OrderCount    int     `db:"order_count" json:"order_count"`
	LineItemCount int     `db:"line_item_count" json:"line_item_count"`
	TotalAmount   float64 `db:"total_amount" json:"total_amount"`
	PassCount     int     `db:"pass_count" json:"pass_count"`
	WarningCount  int     `db:"warning_count" json:"warning_count"`
	FailureCount  int     `db:"failure_count" json:"failure_count"`
	AvgConfidence float64 `db:"avg_confidence" json:"avg_confidence"`
}

// BatchOverviewRow aggregates extraction and audit progress per batch.
type BatchOverviewRow struct {
	BatchID       uuid.UUID `db:"batch_id" json:"batch_id"`
	BatchName     string    `db:"batch_name" json:"batch_name"`
	OrderCount    int       `db:"order_count" json:"order_count"`
	Completed     int       `db:"completed" json:"completed"`
	Failed        int       `db:"failed" json:"failed"`
	WarningCount  int       `db:"warning_count" json:"warning_count"`
	FailureCount  int       `db:"failure_count" json:"failure_count"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	AvgConfidence float64   `db:"avg_confidence" json:"avg_confidence"`
}

// MonthlyVolumeRow aggregates order volume per calendar month.
type MonthlyVolumeRow struct {
	Month        string  `db:"month" json:"month"`
	OrderCount   int     `db:"order_count" json:"order_count"`
	TotalAmount  float64 `db:"total_amount" json:"total_amount"`
	FailureCount int     `db:"failure_count" json:"failure_count"`
}

// SummaryStatusUpdate carries a partial status update for an order summary row.
// Nil fields are left unchanged.
type SummaryStatusUpdate struct {
	ExtractionStatus *ExtractionStatus
	AuditStatus      *AuditStatus
	ReviewStatus     *ReviewStatus
	Confidence       *float64
}
