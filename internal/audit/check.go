package audit

import (
	"fmt"
	"math"
)

// CheckInput is one line item's numeric triple as stored, still in raw
// string form.
type CheckInput struct {
	Quantity  string
	UnitPrice string
	Amount    string
}

// NormalizedItem is the numeric form of a checked item. Downstream consumers
// always receive these values as numbers, never strings.
type NormalizedItem struct {
	Quantity  float64
	UnitPrice float64
	Amount    float64
}

// CheckResult is the display-time reconciliation outcome for one line item.
type CheckResult struct {
	Verdict  Verdict
	Message  string
	Expected float64
	Diff     float64
}

// CheckItem runs the display-time reconciliation for one line item: it
// coerces the stored triple to numbers, recomputes the extended amount and
// classifies the difference with an absolute tolerance. The input is never
// modified; the normalized copy is returned alongside the verdict.
func CheckItem(in CheckInput, cfg Config) (NormalizedItem, CheckResult) {
	item := NormalizedItem{
		Quantity:  CleanNumber(in.Quantity),
		UnitPrice: CleanNumber(in.UnitPrice),
		Amount:    CleanNumber(in.Amount),
	}

	expected := item.Quantity * item.UnitPrice
	diff := math.Abs(item.Amount - expected)

	res := CheckResult{Expected: expected, Diff: diff}
	switch {
	case item.Amount == 0 && expected == 0:
		res.Verdict = VerdictIndeterminate
		res.Message = "value is zero or blank"
	case diff < 0.01:
		res.Verdict = VerdictPass
		res.Message = "perfect match"
	case diff <= cfg.DisplayTolerance:
		res.Verdict = VerdictWarning
		res.Message = fmt.Sprintf("difference %.2f within tolerance", diff)
	default:
		res.Verdict = VerdictFailure
		res.Message = fmt.Sprintf("recorded amount %.2f ≠ calculated %.2f (difference %.2f)", item.Amount, expected, diff)
	}

	return item, res
}
