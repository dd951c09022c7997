package audit

import (
	"regexp"
	"strconv"
	"strings"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

var ocrDigitReplacer = strings.NewReplacer("O", "0", "L", "1", "I", "1")

// CleanAmount converts an OCR-sourced numeric token to a float64. It corrects
// common digit/letter confusions (O→0, L→1, I→1), strips everything except
// digits and the decimal point, and returns 0 when no parseable number
// remains. It never fails: callers always get a usable value.
func CleanAmount(value string) float64 {
	if value == "" {
		return 0
	}
	s := ocrDigitReplacer.Replace(strings.ToUpper(value))
	s = nonNumericRe.ReplaceAllString(s, "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanNumber converts an already-extracted field value to a float64,
// stripping thousands separators, currency markers and whitespace. Spaces
// are removed everywhere, not just at the ends: OCR output uses them as
// thousands separators ("1 200"). Unlike CleanAmount it applies no OCR
// character correction, since structured fields may legitimately contain
// clean numbers. Returns 0 when the value cannot be parsed.
func CleanNumber(value string) float64 {
	s := strings.TrimSpace(value)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanTokens cleans a raw token sequence with CleanAmount and drops the
// zero-valued results, preserving reading order. The returned slice is the
// expected input for AllocatePrices.
func CleanTokens(raw []string) []float64 {
	tokens := make([]float64, 0, len(raw))
	for _, r := range raw {
		if v := CleanAmount(r); v > 0 {
			tokens = append(tokens, v)
		}
	}
	return tokens
}
