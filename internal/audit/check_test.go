package audit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckItem_PerfectMatch(t *testing.T) {
	item, res := CheckItem(CheckInput{Quantity: "40", UnitPrice: "200", Amount: "8000"}, DefaultConfig())

	assert.Equal(t, VerdictPass, res.Verdict)
	assert.Equal(t, "perfect match", res.Message)
	assert.Equal(t, 8000.0, res.Expected)
	assert.Equal(t, NormalizedItem{Quantity: 40, UnitPrice: 200, Amount: 8000}, item)
}

func TestCheckItem_WithinTolerance(t *testing.T) {
	// Difference of exactly 5.0 still counts as a warning, not a failure.
	tests := []struct {
		name   string
		amount string
		diff   float64
	}{
		{"small difference", "8003", 3},
		{"boundary difference", "8005", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := CheckItem(CheckInput{Quantity: "40", UnitPrice: "200", Amount: tt.amount}, DefaultConfig())
			assert.Equal(t, VerdictWarning, res.Verdict)
			assert.Equal(t, tt.diff, res.Diff)
			assert.Contains(t, res.Message, fmt.Sprintf("%.2f", tt.diff))
		})
	}
}

func TestCheckItem_WarningFloor(t *testing.T) {
	// One cent off is the smallest difference that is no longer a pass.
	_, res := CheckItem(CheckInput{Quantity: "40", UnitPrice: "200", Amount: "8000.01"}, DefaultConfig())
	assert.Equal(t, VerdictWarning, res.Verdict)
	assert.InDelta(t, 0.01, res.Diff, 1e-9)

	// Below a cent still counts as a perfect match.
	_, res = CheckItem(CheckInput{Quantity: "40", UnitPrice: "200", Amount: "8000.005"}, DefaultConfig())
	assert.Equal(t, VerdictPass, res.Verdict)
}

func TestCheckItem_Failure(t *testing.T) {
	_, res := CheckItem(CheckInput{Quantity: "40", UnitPrice: "200", Amount: "8500"}, DefaultConfig())

	assert.Equal(t, VerdictFailure, res.Verdict)
	assert.Equal(t, 500.0, res.Diff)
	// The reviewer must see both numbers without digging further.
	assert.Contains(t, res.Message, "8500.00")
	assert.Contains(t, res.Message, "8000.00")
	assert.Contains(t, res.Message, "500.00")
}

func TestCheckItem_Indeterminate(t *testing.T) {
	_, res := CheckItem(CheckInput{}, DefaultConfig())
	assert.Equal(t, VerdictIndeterminate, res.Verdict)

	// Blank amount with zero product is also indeterminate.
	_, res = CheckItem(CheckInput{Quantity: "0", UnitPrice: "100", Amount: ""}, DefaultConfig())
	assert.Equal(t, VerdictIndeterminate, res.Verdict)
}

func TestCheckItem_ZeroAmountNonzeroExpected(t *testing.T) {
	_, res := CheckItem(CheckInput{Quantity: "4", UnitPrice: "100", Amount: "0"}, DefaultConfig())

	assert.Equal(t, VerdictFailure, res.Verdict)
	assert.Equal(t, 400.0, res.Diff)
}

func TestCheckItem_CoercesStringFields(t *testing.T) {
	item, res := CheckItem(CheckInput{Quantity: " 40 ", UnitPrice: "$200", Amount: "8,000"}, DefaultConfig())

	assert.Equal(t, VerdictPass, res.Verdict)
	assert.Equal(t, 40.0, item.Quantity)
	assert.Equal(t, 200.0, item.UnitPrice)
	assert.Equal(t, 8000.0, item.Amount)
}

func TestCheckItem_UnparsableAmountDegradesToZero(t *testing.T) {
	// Garbage coerces to zero rather than erroring; the verdict then reports
	// the mismatch against the calculated value.
	item, res := CheckItem(CheckInput{Quantity: "4", UnitPrice: "100", Amount: "??"}, DefaultConfig())

	assert.Equal(t, 0.0, item.Amount)
	assert.Equal(t, VerdictFailure, res.Verdict)
}

func TestCheckItem_CustomTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisplayTolerance = 50

	_, res := CheckItem(CheckInput{Quantity: "40", UnitPrice: "200", Amount: "8030"}, cfg)
	assert.Equal(t, VerdictWarning, res.Verdict)
}
