package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigitRe   = regexp.MustCompile(`[^\d]`)
	rocDigitsRe  = regexp.MustCompile(`^(\d{2,3})(\d{2})(\d{2})$`)
	orderLayouts = []string{"2006/01/02", "2006/1/2", "2006-01-02", "2006-1-2", "2006.01.02", "02-01-2006"}
)

// NormalizeROCDate converts a Republic of China calendar date to a Gregorian
// yyyy/mm/dd string: "1141028" or "114.10.28" becomes "2025/10/28". Values
// that do not look like a ROC date, including dates already in the Gregorian
// calendar, are returned unchanged.
func NormalizeROCDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	s := nonDigitRe.ReplaceAllString(strings.TrimSpace(dateStr), "")
	m := rocDigitsRe.FindStringSubmatch(s)
	if m == nil {
		return dateStr
	}
	year, _ := strconv.Atoi(m[1])
	if year < 1900 {
		year += 1911
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return dateStr
	}
	return fmt.Sprintf("%d/%s/%s", year, m[2], m[3])
}

// ParseOrderDate parses an order date into a time.Time, normalizing ROC
// calendar input first. Returns nil when the value is empty or matches none
// of the accepted layouts.
func ParseOrderDate(dateStr string) *time.Time {
	s := strings.TrimSpace(NormalizeROCDate(strings.TrimSpace(dateStr)))
	if s == "" {
		return nil
	}
	for _, layout := range orderLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
