package audit

// Config carries the tolerances and thresholds used by price allocation and
// both audit passes. A Config is passed by value and never modified.
type Config struct {
	// PriceErrorTolerance is the relative-error cutoff for ingestion checks.
	PriceErrorTolerance float64
	// DisplayTolerance is the absolute difference, in currency units, above
	// which a display-time check fails outright.
	DisplayTolerance float64
	// LowConfidenceThreshold marks items whose confidence needs a reviewer flag.
	LowConfidenceThreshold float64
	// FallbackConfidencePenalty is subtracted once when price allocation ran.
	FallbackConfidencePenalty float64
	// DiscountMax bounds values still classified as percentage-like during allocation.
	DiscountMax float64
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		PriceErrorTolerance:       0.05,
		DisplayTolerance:          5.0,
		LowConfidenceThreshold:    0.7,
		FallbackConfidencePenalty: 0.2,
		DiscountMax:               150,
	}
}
