package validator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"poaudit/internal/audit"
	"poaudit/internal/domain"
	"poaudit/internal/validator"
	"poaudit/internal/validator/order"
	"poaudit/mocks"
)

func setupEngine() (*validator.Engine, *mocks.MockOrderRepo, *mocks.MockValidationRuleRepo, *mocks.MockValidationResultRepo) {
	orderRepo := new(mocks.MockOrderRepo)
	ruleRepo := new(mocks.MockValidationRuleRepo)
	resultRepo := new(mocks.MockValidationResultRepo)
	registry := validator.NewRegistry()
	for _, v := range order.AllBuiltinValidators(audit.DefaultConfig()) {
		registry.Register(v)
	}
	engine := validator.NewEngine(registry, ruleRepo, resultRepo, orderRepo)
	return engine, orderRepo, ruleRepo, resultRepo
}

func validOrderJSON() json.RawMessage {
	po := order.PurchaseOrder{
		Header: order.OrderHeader{
			Supplier:    "Acme Supplies",
			Purchaser:   "Buyer Co",
			PONumber:    "PO-001",
			OrderDate:   "2025/01/15",
			TotalAmount: "1000",
		},
		LineItems: []order.LineItem{
			{
				ProductName: "Widget",
				Quantity:    "10",
				Prices: order.PriceFields{
					UnitPrice: "100",
					Amount:    "1000",
				},
			},
		},
	}
	data, _ := json.Marshal(po)
	return data
}

func makeOrder(tenantID, orderID uuid.UUID, data json.RawMessage) *domain.PurchaseOrder {
	return &domain.PurchaseOrder{
		ID:               orderID,
		TenantID:         tenantID,
		FileID:           uuid.New(),
		StructuredData:   data,
		ConfidenceScores: json.RawMessage("{}"),
		ExtractionStatus: domain.ExtractionStatusCompleted,
		AuditStatus:      domain.AuditStatusPending,
		CreatedBy:        uuid.New(),
	}
}

func makeRule(id uuid.UUID, key string, severity domain.ValidationSeverity) domain.ValidationRule {
	return domain.ValidationRule{
		ID:         id,
		TenantID:   uuid.New(),
		RuleKey:    key,
		RuleName:   "Test: " + key,
		RuleType:   domain.RuleTypeRequired,
		RuleConfig: json.RawMessage("{}"),
		Severity:   severity,
		IsActive:   true,
		IsBuiltin:  true,
	}
}

func allBuiltinKeys() []string {
	validators := order.AllBuiltinValidators(audit.DefaultConfig())
	keys := make([]string, 0, len(validators))
	for _, v := range validators {
		keys = append(keys, v.RuleKey())
	}
	return keys
}

// --- ValidateOrder ---

func TestEngine_ValidateOrder_Success(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())
	rules := []domain.ValidationRule{makeRule(uuid.New(), "req.header.supplier", domain.SeverityError)}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(rules, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusPassed, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
	resultRepo.AssertCalled(t, "ReplaceForOrder", mock.Anything, orderID, mock.Anything)
}

func TestEngine_ValidateOrder_NoRules(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return([]domain.ValidationRule{}, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).
		Run(func(args mock.Arguments) {
			results := args.Get(2).([]domain.ValidationResult)
			assert.Empty(t, results)
		}).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusPassed, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
}

func TestEngine_ValidateOrder_ErrorRuleFails(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	// Order missing the supplier → error rule fails
	po := order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "", PONumber: "PO-001"},
		LineItems: []order.LineItem{
			{ProductName: "Widget", Quantity: "1", Prices: order.PriceFields{UnitPrice: "100", Amount: "100"}},
		},
	}
	data, _ := json.Marshal(po)
	ord := makeOrder(tenantID, orderID, data)

	rules := []domain.ValidationRule{
		makeRule(uuid.New(), "req.header.supplier", domain.SeverityError),
		makeRule(uuid.New(), "req.header.po_number", domain.SeverityWarning),
	}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(rules, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusFailed, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
}

func TestEngine_ValidateOrder_WarningOnly(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	// Order missing the PO number → warning rule fails
	po := order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "Acme Supplies", PONumber: ""},
	}
	data, _ := json.Marshal(po)
	ord := makeOrder(tenantID, orderID, data)

	rules := []domain.ValidationRule{
		makeRule(uuid.New(), "req.header.supplier", domain.SeverityError),
		makeRule(uuid.New(), "req.header.po_number", domain.SeverityWarning),
	}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(rules, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusWarning, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
}

func TestEngine_ValidateOrder_ErrorOverridesWarning(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	// Order missing both supplier (error) and PO number (warning)
	po := order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "", PONumber: ""},
	}
	data, _ := json.Marshal(po)
	ord := makeOrder(tenantID, orderID, data)

	rules := []domain.ValidationRule{
		makeRule(uuid.New(), "req.header.supplier", domain.SeverityError),
		makeRule(uuid.New(), "req.header.po_number", domain.SeverityWarning),
	}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(rules, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusFailed, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
}

func TestEngine_ValidateOrder_MathMismatch(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	// Quantity 2 × unit price 100 = 200, but recorded amount is 150
	po := order.PurchaseOrder{
		Header: order.OrderHeader{Supplier: "Acme Supplies"},
		LineItems: []order.LineItem{
			{ProductName: "Widget", Quantity: "2", Prices: order.PriceFields{UnitPrice: "100", Amount: "150"}},
		},
	}
	data, _ := json.Marshal(po)
	ord := makeOrder(tenantID, orderID, data)

	rules := []domain.ValidationRule{makeRule(uuid.New(), "math.line_item.amount", domain.SeverityError)}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(rules, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).
		Run(func(args mock.Arguments) {
			results := args.Get(2).([]domain.ValidationResult)
			assert.Len(t, results, 1)
			assert.False(t, results[0].Passed)
			assert.Equal(t, "line_items[0].prices.amount", results[0].FieldPath)
			assert.Equal(t, "200.00", results[0].ExpectedValue)
			assert.Equal(t, "150.00", results[0].ActualValue)
		}).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusFailed, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
}

func TestEngine_ValidateOrder_SkipsCustomRules(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())

	customRule := makeRule(uuid.New(), "custom.some_rule", domain.SeverityError)
	customRule.IsBuiltin = false
	rules := []domain.ValidationRule{customRule}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(rules, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).
		Run(func(args mock.Arguments) {
			results := args.Get(2).([]domain.ValidationResult)
			assert.Empty(t, results)
		}).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.PurchaseOrder)
			assert.Equal(t, domain.AuditStatusPassed, o.AuditStatus)
		}).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
}

func TestEngine_ValidateOrder_BatchScopedRules(t *testing.T) {
	engine, orderRepo, ruleRepo, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()
	batchID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())
	ord.BatchID = batchID

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == batchID
	})).Return([]domain.ValidationRule{}, nil)
	resultRepo.On("ReplaceForOrder", mock.Anything, orderID, mock.Anything).Return(nil)
	orderRepo.On("UpdateAuditStatus", mock.Anything, mock.AnythingOfType("*domain.PurchaseOrder")).Return(nil)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.NoError(t, err)
	ruleRepo.AssertExpectations(t)
}

func TestEngine_ValidateOrder_OrderNotFound(t *testing.T) {
	engine, orderRepo, _, _ := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(nil, domain.ErrOrderNotFound)

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestEngine_ValidateOrder_RuleLoadError(t *testing.T) {
	engine, orderRepo, ruleRepo, _ := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)
	ruleRepo.On("ListActive", mock.Anything, tenantID, mock.Anything).Return(nil, errors.New("db error"))

	err := engine.ValidateOrder(ctx, tenantID, orderID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "loading rules")
}

// --- EnsureBuiltinRules ---

func TestEngine_EnsureBuiltinRules_SeedsNew(t *testing.T) {
	engine, _, ruleRepo, _ := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	createdBy := uuid.New()

	// No existing keys → all should be seeded
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return([]string{}, nil)
	ruleRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ValidationRule")).Return(nil)

	err := engine.EnsureBuiltinRules(ctx, tenantID, createdBy)

	assert.NoError(t, err)
	// Should have been called for each builtin validator
	numValidators := len(order.AllBuiltinValidators(audit.DefaultConfig()))
	assert.Equal(t, numValidators, len(ruleRepo.Calls)-1) // -1 for ListBuiltinKeys
}

func TestEngine_EnsureBuiltinRules_SkipsExisting(t *testing.T) {
	engine, _, ruleRepo, _ := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	createdBy := uuid.New()

	// All keys already exist
	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return(allBuiltinKeys(), nil)

	err := engine.EnsureBuiltinRules(ctx, tenantID, createdBy)

	assert.NoError(t, err)
	// Create should never be called
	ruleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEngine_EnsureBuiltinRules_SetsReconciliationCritical(t *testing.T) {
	engine, _, ruleRepo, _ := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	createdBy := uuid.New()

	ruleRepo.On("ListBuiltinKeys", mock.Anything, tenantID).Return([]string{}, nil)

	var reconCriticalKeys []string
	ruleRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ValidationRule")).
		Run(func(args mock.Arguments) {
			rule := args.Get(1).(*domain.ValidationRule)
			if rule.ReconciliationCritical {
				reconCriticalKeys = append(reconCriticalKeys, rule.RuleKey)
			}
		}).Return(nil)

	err := engine.EnsureBuiltinRules(ctx, tenantID, createdBy)

	assert.NoError(t, err)

	expectedReconKeys := map[string]bool{
		"req.line_item.quantity":        true,
		"fmt.header.total_amount":       true,
		"fmt.line_item.quantity":        true,
		"fmt.line_item.raw_price_tokens": true,
		"fmt.line_item.prices":          true,
		"math.line_item.amount":         true,
		"math.line_item.amount_drift":   true,
		"math.line_item.unit_price":     true,
		"math.order.total":              true,
		"logic.line_item.price_presence": true,
		"logic.line_item.non_negative":  true,
	}

	assert.Equal(t, len(expectedReconKeys), len(reconCriticalKeys))
	for _, key := range reconCriticalKeys {
		assert.True(t, expectedReconKeys[key], "unexpected reconciliation-critical key: %s", key)
	}
}

// --- GetValidation ---

func TestEngine_GetValidation_Success(t *testing.T) {
	engine, orderRepo, _, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())
	ord.AuditStatus = domain.AuditStatusFailed

	results := []domain.ValidationResult{
		{
			ID: uuid.New(), OrderID: orderID, TenantID: tenantID,
			RuleKey: "req.header.supplier", RuleName: "Required: Supplier",
			Severity: domain.SeverityError, Passed: false,
			FieldPath: "header.supplier", ExpectedValue: "non-empty value",
			Message: "supplier is missing",
		},
	}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	resultRepo.On("ListByOrder", mock.Anything, tenantID, orderID).Return(results, nil)

	resp, err := engine.GetValidation(ctx, tenantID, orderID)

	assert.NoError(t, err)
	assert.Equal(t, orderID, resp.OrderID)
	assert.Equal(t, domain.AuditStatusFailed, resp.AuditStatus)
	assert.Equal(t, 1, resp.Summary.Total)
	assert.Equal(t, 0, resp.Summary.Passed)
	assert.Equal(t, 1, resp.Summary.Errors)
	assert.Equal(t, 0, resp.Summary.Warnings)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, "header.supplier", resp.Results[0].FieldPath)
	assert.NotNil(t, resp.FieldStatuses["header.supplier"])
	assert.Equal(t, domain.FieldStatusInvalid, resp.FieldStatuses["header.supplier"].Status)
}

func TestEngine_GetValidation_EmptyResults(t *testing.T) {
	engine, orderRepo, _, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())
	ord.AuditStatus = domain.AuditStatusPassed

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	resultRepo.On("ListByOrder", mock.Anything, tenantID, orderID).Return([]domain.ValidationResult{}, nil)

	resp, err := engine.GetValidation(ctx, tenantID, orderID)

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.Total)
	assert.Empty(t, resp.Results)
}

func TestEngine_GetValidation_ReconciliationSummary(t *testing.T) {
	engine, orderRepo, _, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	ord := makeOrder(tenantID, orderID, validOrderJSON())
	ord.AuditStatus = domain.AuditStatusFailed

	results := []domain.ValidationResult{
		{
			RuleKey: "math.line_item.amount", RuleName: "Math: Extended Amount",
			Severity: domain.SeverityError, Passed: false,
			FieldPath: "line_items[0].prices.amount", Message: "calculation mismatch",
			ReconciliationCritical: true,
		},
		{
			RuleKey: "req.header.po_number", RuleName: "Required: PO Number",
			Severity: domain.SeverityWarning, Passed: false,
			FieldPath: "header.po_number", Message: "PO number missing",
			ReconciliationCritical: false,
		},
	}

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	resultRepo.On("ListByOrder", mock.Anything, tenantID, orderID).Return(results, nil)

	resp, err := engine.GetValidation(ctx, tenantID, orderID)

	assert.NoError(t, err)

	// Reconciliation summary should only count the recon-critical rule
	assert.Equal(t, 1, resp.ReconciliationSummary.Total)
	assert.Equal(t, 0, resp.ReconciliationSummary.Passed)
	assert.Equal(t, 1, resp.ReconciliationSummary.Errors)
	assert.Equal(t, 0, resp.ReconciliationSummary.Warnings)

	// Overall summary should count both
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 0, resp.Summary.Passed)
	assert.Equal(t, 1, resp.Summary.Errors)
	assert.Equal(t, 1, resp.Summary.Warnings)

	// Verify reconciliation_critical flag in results
	assert.True(t, resp.Results[0].ReconciliationCritical)
	assert.False(t, resp.Results[1].ReconciliationCritical)
}

func TestEngine_GetValidation_WithConfidenceScores(t *testing.T) {
	engine, orderRepo, _, resultRepo := setupEngine()
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	confidence := order.OrderConfidence{
		Header: order.HeaderConfidence{
			Supplier: 0.3, // low confidence → unsure
			PONumber: 0.9, // high confidence → valid
		},
	}
	confJSON, _ := json.Marshal(confidence)

	ord := makeOrder(tenantID, orderID, validOrderJSON())
	ord.AuditStatus = domain.AuditStatusPassed
	ord.ConfidenceScores = confJSON

	orderRepo.On("GetByID", mock.Anything, tenantID, orderID).Return(ord, nil)
	resultRepo.On("ListByOrder", mock.Anything, tenantID, orderID).Return([]domain.ValidationResult{}, nil)

	resp, err := engine.GetValidation(ctx, tenantID, orderID)

	assert.NoError(t, err)
	assert.Equal(t, domain.FieldStatusUnsure, resp.FieldStatuses["header.supplier"].Status)
	assert.Equal(t, domain.FieldStatusValid, resp.FieldStatuses["header.po_number"].Status)
}

// --- ReconciliationCritical on validators ---

func TestBuiltinValidators_ReconciliationCritical(t *testing.T) {
	validators := order.AllBuiltinValidators(audit.DefaultConfig())

	reconCriticalKeys := map[string]bool{
		"req.line_item.quantity":        true,
		"fmt.header.total_amount":       true,
		"fmt.line_item.quantity":        true,
		"fmt.line_item.raw_price_tokens": true,
		"fmt.line_item.prices":          true,
		"math.line_item.amount":         true,
		"math.line_item.amount_drift":   true,
		"math.line_item.unit_price":     true,
		"math.order.total":              true,
		"logic.line_item.price_presence": true,
		"logic.line_item.non_negative":  true,
	}

	for _, v := range validators {
		expected := reconCriticalKeys[v.RuleKey()]
		assert.Equal(t, expected, v.ReconciliationCritical(),
			"rule %s: expected ReconciliationCritical=%v, got %v", v.RuleKey(), expected, v.ReconciliationCritical())
	}
}
