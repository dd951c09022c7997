package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/domain"
	"poaudit/internal/port"
)

type validationResultRepo struct {
	db *sqlx.DB
}

// NewValidationResultRepo creates a new PostgreSQL-backed ValidationResultRepository.
func NewValidationResultRepo(db *sqlx.DB) port.ValidationResultRepository {
	return &validationResultRepo{db: db}
}

// ReplaceForOrder deletes the order's stored results and inserts the new set
// in one transaction, so readers never see a half-replaced run.
func (r *validationResultRepo) ReplaceForOrder(ctx context.Context, orderID uuid.UUID, results []domain.ValidationResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("validationResultRepo.ReplaceForOrder begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM validation_results WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("validationResultRepo.ReplaceForOrder delete: %w", err)
	}

	if len(results) > 0 {
		now := time.Now().UTC()
		valueStrings := make([]string, 0, len(results))
		valueArgs := make([]interface{}, 0, len(results)*13)

		for i := range results {
			res := &results[i]
			if res.ValidatedAt.IsZero() {
				res.ValidatedAt = now
			}
			base := i * 13
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7,
				base+8, base+9, base+10, base+11, base+12, base+13))
			valueArgs = append(valueArgs,
				res.ID, res.OrderID, res.TenantID, res.RuleKey, res.RuleName,
				res.Severity, res.Passed, res.FieldPath, res.ExpectedValue,
				res.ActualValue, res.Message, res.ReconciliationCritical, res.ValidatedAt)
		}

		query := fmt.Sprintf(
			`INSERT INTO validation_results (
				id, order_id, tenant_id, rule_key, rule_name,
				severity, passed, field_path, expected_value,
				actual_value, message, reconciliation_critical, validated_at
			) VALUES %s`,
			strings.Join(valueStrings, ", "))

		if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
			return fmt.Errorf("validationResultRepo.ReplaceForOrder insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("validationResultRepo.ReplaceForOrder commit: %w", err)
	}
	return nil
}

func (r *validationResultRepo) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]domain.ValidationResult, error) {
	var results []domain.ValidationResult
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM validation_results
		 WHERE order_id = $1 AND tenant_id = $2
		 ORDER BY validated_at, rule_key`,
		orderID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("validationResultRepo.ListByOrder: %w", err)
	}
	return results, nil
}
