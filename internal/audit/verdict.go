package audit

// Verdict classifies the arithmetic consistency of a single line item.
type Verdict string

const (
	// VerdictIndeterminate means both recorded and calculated amounts were zero.
	VerdictIndeterminate Verdict = "indeterminate"
	// VerdictPass means the recorded amount matches the calculation exactly.
	VerdictPass Verdict = "pass"
	// VerdictWarning means the difference is within the display tolerance.
	VerdictWarning Verdict = "warning"
	// VerdictFailure means the difference exceeds the display tolerance.
	VerdictFailure Verdict = "failure"
)
