package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DuplicateFileMatch points at an already-extracted order whose file bytes hash
// to the same value as a new upload.
type DuplicateFileMatch struct {
	FileID      uuid.UUID `db:"file_id"`
	OrderID     uuid.UUID `db:"order_id"`
	FileName    string    `db:"file_name"`
	ExtractedAt time.Time `db:"extracted_at"`
}

// DuplicateFileFinder looks up completed extractions by file content hash so
// re-uploads of identical bytes can reuse the stored result.
type DuplicateFileFinder interface {
	FindExtractedByHash(ctx context.Context, tenantID uuid.UUID,
		contentHash string, excludeFileID uuid.UUID) (*DuplicateFileMatch, error)
}

// DuplicateOrderMatch is an existing order that carries the same supplier and
// purchase-order number as the one being validated.
type DuplicateOrderMatch struct {
	OrderID   uuid.UUID `db:"order_id"`
	FileName  string    `db:"file_name"`
	CreatedAt time.Time `db:"created_at"`
}

// DuplicateOrderFinder finds other orders in a tenant reusing a supplier +
// PO number pair.
type DuplicateOrderFinder interface {
	FindDuplicates(ctx context.Context, tenantID, excludeOrderID uuid.UUID,
		supplier, poNumber string) ([]DuplicateOrderMatch, error)
}
