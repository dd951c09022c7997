// Command reaudit re-runs the arithmetic audit over every extracted order,
// refreshing audit statuses and summary rows. Run it after changing audit
// tolerances so stored verdicts reflect the current configuration.
// Usage: go run ./cmd/reaudit
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"poaudit/internal/audit"
	"poaudit/internal/config"
	"poaudit/internal/domain"
	"poaudit/internal/extractor"
	"poaudit/internal/repository/postgres"
	"poaudit/internal/validator/order"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	orderRepo := postgres.NewOrderRepo(db)
	summaryRepo := postgres.NewOrderSummaryRepo(db)
	eventRepo := postgres.NewOrderEventRepo(db)
	auditCfg := cfg.Audit.Core()

	ctx := context.Background()
	offset := 0
	total := 0
	changed := 0

	for {
		orders, err := orderRepo.ListExtracted(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing extracted orders at offset %d: %w", offset, err)
		}
		if len(orders) == 0 {
			break
		}

		for i := range orders {
			ord := &orders[i]

			var doc order.PurchaseOrder
			if err := json.Unmarshal(ord.StructuredData, &doc); err != nil {
				log.Printf("WARN: skipping order %s: unmarshal structured_data: %v", ord.ID, err)
				continue
			}

			prevStatus := ord.AuditStatus
			summary := reauditOrder(ord, &doc, auditCfg)

			if err := orderRepo.UpdateAuditStatus(ctx, ord); err != nil {
				log.Printf("WARN: failed to update audit status for order %s: %v", ord.ID, err)
				continue
			}
			if err := summaryRepo.Upsert(ctx, summary); err != nil {
				log.Printf("WARN: failed to upsert summary for order %s: %v", ord.ID, err)
				continue
			}

			if ord.AuditStatus != prevStatus {
				changed++
				changes, _ := json.Marshal(map[string]interface{}{
					"from": prevStatus, "to": ord.AuditStatus,
				})
				event := &domain.OrderEvent{
					ID:        uuid.New(),
					OrderID:   ord.ID,
					TenantID:  ord.TenantID,
					Action:    domain.EventReaudited,
					Changes:   changes,
					CreatedAt: time.Now().UTC(),
				}
				if err := eventRepo.Create(ctx, event); err != nil {
					log.Printf("WARN: failed to record reaudit event for order %s: %v", ord.ID, err)
				}
			}
			total++
		}

		if total > 0 && total%batchSize == 0 {
			log.Printf("Progress: %d orders processed", total)
		}

		offset += len(orders)
	}

	log.Printf("Reaudit complete: %d orders processed, %d audit statuses changed", total, changed)
	return nil
}

// reauditOrder recomputes per-item arithmetic verdicts against the current
// tolerances, updates ord's audit status and confidence in place, and returns
// the refreshed summary row.
func reauditOrder(ord *domain.PurchaseOrder, doc *order.PurchaseOrder, cfg audit.Config) *domain.OrderSummary {
	var scores order.OrderConfidence
	if len(ord.ConfidenceScores) > 0 {
		_ = json.Unmarshal(ord.ConfidenceScores, &scores)
	}

	var pass, warning, failure int
	confSum := 0.0

	for i := range doc.LineItems {
		li := &doc.LineItems[i]

		res := audit.ValidateItem(audit.ItemInput{
			ListPrice:       li.Prices.ListPrice.String(),
			DiscountPercent: li.Prices.DiscountPercent.String(),
			UnitPrice:       li.Prices.UnitPrice.String(),
			Amount:          li.Prices.Amount.String(),
			Quantity:        li.Quantity.String(),
		}, ord.FallbackUsed, cfg)

		conf := res.Confidence
		if i < len(scores.LineItems) {
			if overall := scores.LineItems[i].Overall; overall > 0 && overall < conf {
				conf = overall
			}
		}
		confSum += conf

		_, check := audit.CheckItem(audit.CheckInput{
			Quantity:  li.Quantity.String(),
			UnitPrice: li.Prices.UnitPrice.String(),
			Amount:    li.Prices.Amount.String(),
		}, cfg)
		switch check.Verdict {
		case audit.VerdictPass:
			pass++
		case audit.VerdictWarning:
			warning++
		case audit.VerdictFailure:
			failure++
		}
	}

	if n := len(doc.LineItems); n > 0 {
		ord.Confidence = math.Round(confSum/float64(n)*100) / 100
	} else {
		ord.Confidence = 0
	}

	switch {
	case failure > 0:
		ord.AuditStatus = domain.AuditStatusFailed
	case warning > 0:
		ord.AuditStatus = domain.AuditStatusWarning
	default:
		ord.AuditStatus = domain.AuditStatusPassed
	}

	return &domain.OrderSummary{
		OrderID:          ord.ID,
		TenantID:         ord.TenantID,
		BatchID:          ord.BatchID,
		Supplier:         doc.Header.Supplier.String(),
		OrderNumber:      doc.Header.PONumber.String(),
		OrderDate:        extractor.ParseOrderDate(doc.Header.OrderDate.String()),
		LineItemCount:    len(doc.LineItems),
		PassCount:        pass,
		WarningCount:     warning,
		FailureCount:     failure,
		TotalAmount:      audit.CleanNumber(doc.Header.TotalAmount.String()),
		Confidence:       ord.Confidence,
		ExtractionStatus: ord.ExtractionStatus,
		AuditStatus:      ord.AuditStatus,
		ReviewStatus:     ord.ReviewStatus,
	}
}
