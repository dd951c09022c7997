package audit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ItemInput carries one line item's price fields as extracted, before any
// numeric coercion. Empty strings mean the field is absent.
type ItemInput struct {
	ListPrice       string
	DiscountPercent string
	UnitPrice       string
	Amount          string
	Quantity        string
}

// ItemResult is the outcome of the ingestion-time validation pass.
type ItemResult struct {
	// Valid is true when no inconsistency was detected. A low-confidence
	// flag alone does not make an item invalid.
	Valid      bool
	Confidence float64
	Warnings   []string
}

// ValidateItem runs the ingestion-time consistency checks over one line item
// and scores its confidence. The four price fields are parsed strictly: a
// present but unparseable value aborts the checks with zero confidence.
// Quantity is cleaned leniently since it flows in straight from OCR.
// Each detected inconsistency subtracts a fixed amount from the confidence,
// which is clamped to [0,1]; when the price fields came from fallback
// allocation the configured penalty is subtracted once afterwards. Items
// ending below the low-confidence threshold get a leading warning so
// reviewers see the flag first.
func ValidateItem(in ItemInput, fallbackUsed bool, cfg Config) ItemResult {
	var warnings []string
	confidence := 1.0
	valid := true

	var parseErr error
	parse := func(s string) float64 {
		if parseErr != nil {
			return 0
		}
		v, err := parsePrice(s)
		if err != nil {
			parseErr = err
		}
		return v
	}

	listPrice := parse(in.ListPrice)
	discount := parse(in.DiscountPercent)
	unitPrice := parse(in.UnitPrice)
	amount := parse(in.Amount)

	if parseErr != nil {
		warnings = []string{fmt.Sprintf("price format error: %v", parseErr)}
		confidence = 0
		valid = false
	} else {
		qty := CleanAmount(in.Quantity)

		if unitPrice > 0 && qty > 0 && amount > 0 {
			expected := unitPrice * qty
			if relErr := math.Abs(amount-expected) / expected; relErr > cfg.PriceErrorTolerance {
				warnings = append(warnings, fmt.Sprintf("amount mismatch: %g ≠ %g*%g", amount, unitPrice, qty))
				confidence -= 0.3
			}
		}

		if listPrice > 0 && discount > 0 && unitPrice > 0 {
			rate := discount
			if discount > 1 {
				rate = discount / 100
			}
			if expected := listPrice * rate; expected > 0 {
				if relErr := math.Abs(unitPrice-expected) / expected; relErr > cfg.PriceErrorTolerance {
					warnings = append(warnings, fmt.Sprintf("unit price mismatch: %g ≠ %g*%g%%", unitPrice, listPrice, discount))
					confidence -= 0.2
				}
			}
		}

		confidence = clamp01(confidence)
		valid = len(warnings) == 0
	}

	if fallbackUsed {
		confidence -= cfg.FallbackConfidencePenalty
	}
	if confidence < 0 {
		confidence = 0
	}
	confidence = math.Round(confidence*100) / 100

	if confidence < cfg.LowConfidenceThreshold {
		warnings = append([]string{fmt.Sprintf("low confidence (%.0f%%)", confidence*100)}, warnings...)
	}

	return ItemResult{Valid: valid, Confidence: confidence, Warnings: warnings}
}

// parsePrice parses a structured price field. Absence parses as zero;
// anything present must be a plain decimal.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
