package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"poaudit/internal/port"
)

type duplicateFinderRepo struct {
	db *sqlx.DB
}

// NewDuplicateFinderRepo creates a PostgreSQL-backed finder for both duplicate
// lookups: identical file bytes (extraction reuse) and repeated supplier/PO
// number pairs (duplicate order rule).
func NewDuplicateFinderRepo(db *sqlx.DB) *duplicateFinderRepo {
	return &duplicateFinderRepo{db: db}
}

var (
	_ port.DuplicateFileFinder  = (*duplicateFinderRepo)(nil)
	_ port.DuplicateOrderFinder = (*duplicateFinderRepo)(nil)
)

func (r *duplicateFinderRepo) FindExtractedByHash(
	ctx context.Context,
	tenantID uuid.UUID,
	contentHash string,
	excludeFileID uuid.UUID,
) (*port.DuplicateFileMatch, error) {
	var match port.DuplicateFileMatch
	err := r.db.GetContext(ctx, &match, `
		SELECT fm.id AS file_id, o.id AS order_id, fm.original_name AS file_name, o.extracted_at
		FROM file_metadata fm
		INNER JOIN orders o ON o.file_id = fm.id
		WHERE fm.tenant_id = $1
		  AND fm.content_hash = $2
		  AND fm.id != $3
		  AND fm.status != 'deleted'
		  AND o.extraction_status = 'completed'
		ORDER BY o.extracted_at DESC
		LIMIT 1`,
		tenantID, contentHash, excludeFileID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("duplicateFinderRepo.FindExtractedByHash: %w", err)
	}
	return &match, nil
}

func (r *duplicateFinderRepo) FindDuplicates(
	ctx context.Context,
	tenantID, excludeOrderID uuid.UUID,
	supplier, poNumber string,
) ([]port.DuplicateOrderMatch, error) {
	var matches []port.DuplicateOrderMatch
	err := r.db.SelectContext(ctx, &matches, `
		SELECT o.id AS order_id, fm.original_name AS file_name, o.created_at
		FROM orders o
		INNER JOIN file_metadata fm ON fm.id = o.file_id
		WHERE o.tenant_id = $1
		  AND o.id != $2
		  AND o.extraction_status = 'completed'
		  AND o.structured_data @> jsonb_build_object(
		      'header', jsonb_build_object('supplier', $3::text, 'po_number', $4::text)
		  )
		ORDER BY o.created_at DESC
		LIMIT 5`,
		tenantID, excludeOrderID, supplier, poNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("duplicateFinderRepo.FindDuplicates: %w", err)
	}
	return matches, nil
}
