package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries the data needed for purchase order extraction.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// ExtractOutput contains the structured result from an LLM extractor.
type ExtractOutput struct {
	StructuredData   json.RawMessage
	ConfidenceScores json.RawMessage
	ModelUsed        string
	PromptUsed       string
	FieldProvenance  map[string]string // which model provided each field (populated in dual extract mode)
	SecondaryModel   string            // secondary model used (for audit trail in dual extract mode)
}

// OrderExtractor abstracts LLM-based purchase order extraction.
type OrderExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
