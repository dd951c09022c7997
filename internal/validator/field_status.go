package validator

import (
	"poaudit/internal/domain"
)

// FieldStatus represents the computed validation state for a single field path.
type FieldStatus struct {
	Status   domain.FieldValidationStatus `json:"status"`
	Messages []string                     `json:"messages"`
}

// ComputeFieldStatuses derives per-field validation statuses from stored
// results and confidence scores. confidenceMap maps field paths
// (e.g. "header.supplier") to confidence float64 values.
func ComputeFieldStatuses(
	results []domain.ValidationResult,
	confidenceMap map[string]float64,
) map[string]*FieldStatus {
	statuses := make(map[string]*FieldStatus)

	// Compute status for fields that have validation results
	for i := range results {
		r := &results[i]
		fs := statuses[r.FieldPath]
		if fs == nil {
			fs = &FieldStatus{Status: domain.FieldStatusValid, Messages: []string{}}
			statuses[r.FieldPath] = fs
		}
		if !r.Passed {
			if r.Severity == domain.SeverityError {
				fs.Status = domain.FieldStatusInvalid
			} else if fs.Status != domain.FieldStatusInvalid {
				fs.Status = domain.FieldStatusUnsure
			}
			fs.Messages = append(fs.Messages, r.Message)
		}
	}

	// For fields with confidence scores but no validation results,
	// derive status from confidence alone.
	for fieldPath, confidence := range confidenceMap {
		if _, exists := statuses[fieldPath]; exists {
			continue
		}
		if confidence <= 0.5 {
			statuses[fieldPath] = &FieldStatus{
				Status:   domain.FieldStatusUnsure,
				Messages: []string{},
			}
		} else {
			statuses[fieldPath] = &FieldStatus{
				Status:   domain.FieldStatusValid,
				Messages: []string{},
			}
		}
	}

	return statuses
}
