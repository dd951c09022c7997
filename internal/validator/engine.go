package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"poaudit/internal/domain"
	"poaudit/internal/port"
	"poaudit/internal/validator/order"
)

// Engine orchestrates order validation.
type Engine struct {
	registry   *Registry
	ruleRepo   port.ValidationRuleRepository
	resultRepo port.ValidationResultRepository
	orderRepo  port.OrderRepository
}

// NewEngine creates a new validation engine.
func NewEngine(
	registry *Registry,
	ruleRepo port.ValidationRuleRepository,
	resultRepo port.ValidationResultRepository,
	orderRepo port.OrderRepository,
) *Engine {
	return &Engine{
		registry:   registry,
		ruleRepo:   ruleRepo,
		resultRepo: resultRepo,
		orderRepo:  orderRepo,
	}
}

// ValidateOrder runs all applicable validation rules against an extracted
// order, replaces its stored results, and rolls the outcome up into the
// order's audit status.
func (e *Engine) ValidateOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	ord, err := e.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return fmt.Errorf("getting order: %w", err)
	}

	// Ensure built-in rules exist for this tenant
	if err := e.EnsureBuiltinRules(ctx, tenantID, ord.CreatedBy); err != nil {
		return fmt.Errorf("ensuring builtin rules: %w", err)
	}

	// Load all active rules
	var batchID *uuid.UUID
	if ord.BatchID != (uuid.UUID{}) {
		batchID = &ord.BatchID
	}
	rules, err := e.ruleRepo.ListActive(ctx, tenantID, batchID)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	// Parse structured data into typed struct
	var po order.PurchaseOrder
	if err := json.Unmarshal(ord.StructuredData, &po); err != nil {
		return fmt.Errorf("unmarshaling structured_data: %w", err)
	}

	ctx = order.WithValidationContext(ctx, tenantID, orderID)

	// Run validators and collect results
	now := time.Now().UTC()
	var allResults []domain.ValidationResult
	hasError := false
	hasWarning := false

	for idx := range rules {
		rule := &rules[idx]
		if !rule.IsBuiltin {
			// Custom (non-builtin) rules are skipped for now — extensible via CustomRuleExecutor.
			continue
		}
		v := e.registry.Get(rule.RuleKey)
		if v == nil {
			log.Printf("validator.Engine: no validator registered for builtin key %q", rule.RuleKey)
			continue
		}
		vResults := v.Validate(ctx, &po)
		for _, vr := range vResults {
			allResults = append(allResults, domain.ValidationResult{
				ID:                     uuid.New(),
				OrderID:                orderID,
				TenantID:               tenantID,
				RuleKey:                rule.RuleKey,
				RuleName:               rule.RuleName,
				Severity:               rule.Severity,
				Passed:                 vr.Passed,
				FieldPath:              vr.FieldPath,
				ExpectedValue:          vr.ExpectedValue,
				ActualValue:            vr.ActualValue,
				Message:                vr.Message,
				ReconciliationCritical: rule.ReconciliationCritical,
				ValidatedAt:            now,
			})
			if !vr.Passed {
				if rule.Severity == domain.SeverityError {
					hasError = true
				} else {
					hasWarning = true
				}
			}
		}
	}

	if err := e.resultRepo.ReplaceForOrder(ctx, orderID, allResults); err != nil {
		return fmt.Errorf("storing validation results: %w", err)
	}

	// Roll up into the order's audit status
	var status domain.AuditStatus
	switch {
	case hasError:
		status = domain.AuditStatusFailed
	case hasWarning:
		status = domain.AuditStatusWarning
	default:
		status = domain.AuditStatusPassed
	}

	ord.AuditStatus = status
	if err := e.orderRepo.UpdateAuditStatus(ctx, ord); err != nil {
		return fmt.Errorf("updating audit status: %w", err)
	}

	log.Printf("validator.Engine: order %s validated — status=%s, results=%d", orderID, status, len(allResults))
	return nil
}

// EnsureBuiltinRules lazy-seeds all built-in rules for a tenant.
func (e *Engine) EnsureBuiltinRules(ctx context.Context, tenantID, createdBy uuid.UUID) error {
	existing, err := e.ruleRepo.ListBuiltinKeys(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("listing existing builtin keys: %w", err)
	}

	existingSet := make(map[string]bool, len(existing))
	for _, key := range existing {
		existingSet[key] = true
	}

	for _, v := range e.registry.All() {
		if existingSet[v.RuleKey()] {
			continue
		}
		rule := &domain.ValidationRule{
			ID:                     uuid.New(),
			TenantID:               tenantID,
			RuleKey:                v.RuleKey(),
			RuleName:               v.RuleName(),
			RuleType:               v.RuleType(),
			RuleConfig:             json.RawMessage("{}"),
			Severity:               v.Severity(),
			IsActive:               true,
			IsBuiltin:              true,
			ReconciliationCritical: v.ReconciliationCritical(),
			CreatedBy:              createdBy,
		}
		if err := e.ruleRepo.Create(ctx, rule); err != nil {
			return fmt.Errorf("seeding builtin rule %s: %w", v.RuleKey(), err)
		}
	}

	return nil
}

// GetValidation loads stored validation results and computes field statuses for an order.
func (e *Engine) GetValidation(ctx context.Context, tenantID, orderID uuid.UUID) (*ValidationResponse, error) {
	ord, err := e.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	results, err := e.resultRepo.ListByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("loading validation results: %w", err)
	}

	// Parse confidence scores
	confidenceMap := flattenConfidenceScores(ord.ConfidenceScores)

	// Compute field statuses
	fieldStatuses := ComputeFieldStatuses(results, confidenceMap)

	// Build summary
	var passed, errorCount, warningCount int
	var reconPassed, reconErrors, reconWarnings int
	for i := range results {
		r := &results[i]
		if r.Passed {
			passed++
			if r.ReconciliationCritical {
				reconPassed++
			}
		} else {
			if r.Severity == domain.SeverityError {
				errorCount++
			} else {
				warningCount++
			}
			if r.ReconciliationCritical {
				if r.Severity == domain.SeverityError {
					reconErrors++
				} else {
					reconWarnings++
				}
			}
		}
	}

	// Build result items for response
	resultItems := make([]ValidationResultItem, 0, len(results))
	for i := range results {
		r := &results[i]
		resultItems = append(resultItems, ValidationResultItem{
			RuleName:               r.RuleName,
			RuleType:               r.RuleKey,
			Severity:               string(r.Severity),
			Passed:                 r.Passed,
			FieldPath:              r.FieldPath,
			ExpectedValue:          r.ExpectedValue,
			ActualValue:            r.ActualValue,
			Message:                r.Message,
			ReconciliationCritical: r.ReconciliationCritical,
		})
	}

	return &ValidationResponse{
		OrderID:     orderID,
		AuditStatus: ord.AuditStatus,
		Summary: ValidationSummary{
			Total:    len(results),
			Passed:   passed,
			Errors:   errorCount,
			Warnings: warningCount,
		},
		ReconciliationSummary: ReconciliationSummary{
			Total:    reconPassed + reconErrors + reconWarnings,
			Passed:   reconPassed,
			Errors:   reconErrors,
			Warnings: reconWarnings,
		},
		Results:       resultItems,
		FieldStatuses: fieldStatuses,
	}, nil
}

// ValidationResponse is the API response for GET /orders/:id/validation.
type ValidationResponse struct {
	OrderID               uuid.UUID               `json:"order_id"`
	AuditStatus           domain.AuditStatus      `json:"audit_status"`
	Summary               ValidationSummary       `json:"summary"`
	ReconciliationSummary ReconciliationSummary   `json:"reconciliation_summary"`
	Results               []ValidationResultItem  `json:"results"`
	FieldStatuses         map[string]*FieldStatus `json:"field_statuses"`
}

// ValidationSummary holds aggregate counts of validation results.
type ValidationSummary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// ReconciliationSummary holds aggregate counts for reconciliation-critical rules only.
type ReconciliationSummary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// ValidationResultItem is a single validation result in the API response.
type ValidationResultItem struct {
	RuleName               string `json:"rule_name"`
	RuleType               string `json:"rule_type"`
	Severity               string `json:"severity"`
	Passed                 bool   `json:"passed"`
	FieldPath              string `json:"field_path"`
	ExpectedValue          string `json:"expected_value"`
	ActualValue            string `json:"actual_value"`
	Message                string `json:"message"`
	ReconciliationCritical bool   `json:"reconciliation_critical"`
}

// flattenConfidenceScores converts the nested confidence JSON into a flat map of field_path → confidence.
func flattenConfidenceScores(raw json.RawMessage) map[string]float64 {
	result := make(map[string]float64)
	if len(raw) == 0 {
		return result
	}

	var scores order.OrderConfidence
	if err := json.Unmarshal(raw, &scores); err != nil {
		return result
	}

	// Header fields
	result["header.supplier"] = scores.Header.Supplier
	result["header.purchaser"] = scores.Header.Purchaser
	result["header.vendor_order_no"] = scores.Header.VendorOrderNo
	result["header.po_number"] = scores.Header.PONumber
	result["header.order_date"] = scores.Header.OrderDate
	result["header.address"] = scores.Header.Address
	result["header.total_amount"] = scores.Header.TotalAmount

	// Line items
	for i, li := range scores.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		result[prefix+".item_date"] = li.ItemDate
		result[prefix+".item_order_no"] = li.ItemOrderNo
		result[prefix+".brand"] = li.Brand
		result[prefix+".product_name"] = li.ProductName
		result[prefix+".spec"] = li.Spec
		result[prefix+".quantity"] = li.Quantity
		result[prefix+".unit"] = li.Unit
		result[prefix+".prices.list_price"] = li.Prices.ListPrice
		result[prefix+".prices.discount_percent"] = li.Prices.DiscountPercent
		result[prefix+".prices.unit_price"] = li.Prices.UnitPrice
		result[prefix+".prices.amount"] = li.Prices.Amount
		result[prefix+".raw_price_tokens"] = li.RawPriceTokens
		result[prefix+".weight"] = li.Weight
		result[prefix+".remarks"] = li.Remarks
	}

	return result
}
