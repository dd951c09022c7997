package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type validationRuleRepo struct {
	db *sqlx.DB
}

// NewValidationRuleRepo creates a new PostgreSQL-backed ValidationRuleRepository.
func NewValidationRuleRepo(db *sqlx.DB) port.ValidationRuleRepository {
	return &validationRuleRepo{db: db}
}

func (r *validationRuleRepo) Create(ctx context.Context, rule *domain.ValidationRule) error {
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `INSERT INTO validation_rules (
		id, tenant_id, batch_id, rule_key, rule_name,
		rule_type, rule_config, severity, is_active, is_builtin,
		reconciliation_critical, created_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.TenantID, rule.BatchID, rule.RuleKey, rule.RuleName,
		rule.RuleType, rule.RuleConfig, rule.Severity, rule.IsActive, rule.IsBuiltin,
		rule.ReconciliationCritical, rule.CreatedBy, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("validationRuleRepo.Create: %w", err)
	}
	return nil
}

func (r *validationRuleRepo) GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*domain.ValidationRule, error) {
	var rule domain.ValidationRule
	err := r.db.GetContext(ctx, &rule,
		"SELECT * FROM validation_rules WHERE id = $1 AND tenant_id = $2",
		ruleID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrValidationRuleNotFound
		}
		return nil, fmt.Errorf("validationRuleRepo.GetByID: %w", err)
	}
	return &rule, nil
}

func (r *validationRuleRepo) ListActive(ctx context.Context, tenantID uuid.UUID, batchID *uuid.UUID) ([]domain.ValidationRule, error) {
	var rules []domain.ValidationRule
	var err error

	if batchID != nil {
		err = r.db.SelectContext(ctx, &rules,
			`SELECT * FROM validation_rules
			 WHERE tenant_id = $1 AND is_active = TRUE
			   AND (batch_id IS NULL OR batch_id = $2)
			 ORDER BY rule_name`,
			tenantID, *batchID)
	} else {
		err = r.db.SelectContext(ctx, &rules,
			`SELECT * FROM validation_rules
			 WHERE tenant_id = $1 AND is_active = TRUE
			   AND batch_id IS NULL
			 ORDER BY rule_name`,
			tenantID)
	}
	if err != nil {
		return nil, fmt.Errorf("validationRuleRepo.ListActive: %w", err)
	}
	return rules, nil
}

func (r *validationRuleRepo) ListBuiltinKeys(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var keys []string
	err := r.db.SelectContext(ctx, &keys,
		`SELECT rule_key FROM validation_rules
		 WHERE tenant_id = $1 AND is_builtin = TRUE`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("validationRuleRepo.ListBuiltinKeys: %w", err)
	}
	return keys, nil
}

func (r *validationRuleRepo) Update(ctx context.Context, rule *domain.ValidationRule) error {
	rule.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE validation_rules SET
			rule_name = $1, rule_type = $2, rule_config = $3,
			severity = $4, is_active = $5, updated_at = $6
		 WHERE id = $7 AND tenant_id = $8`,
		rule.RuleName, rule.RuleType, rule.RuleConfig,
		rule.Severity, rule.IsActive, rule.UpdatedAt,
		rule.ID, rule.TenantID)
	if err != nil {
		return fmt.Errorf("validationRuleRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrValidationRuleNotFound
	}
	return nil
}

func (r *validationRuleRepo) Delete(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM validation_rules WHERE id = $1 AND tenant_id = $2",
		ruleID, tenantID)
	if err != nil {
		return fmt.Errorf("validationRuleRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrValidationRuleNotFound
	}
	return nil
}
