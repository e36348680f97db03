package models

// EligibilityVerdict collects every hard failure and soft warning raised
// during an evaluation. All hard failures are reported together, never just
// the first one encountered.
type EligibilityVerdict struct {
	Failures []string `json:"failures"`
	Warnings []string `json:"warnings"`
}

// Fail appends a hard failure.
func (v *EligibilityVerdict) Fail(reason string) {
	v.Failures = append(v.Failures, reason)
}

// Warn appends a soft warning.
func (v *EligibilityVerdict) Warn(reason string) {
	v.Warnings = append(v.Warnings, reason)
}

// Eligible reports whether no hard failure has been recorded.
func (v *EligibilityVerdict) Eligible() bool {
	return len(v.Failures) == 0
}

// LeverageDecision is the resolved maximum leverage for a scenario.
// EffectiveLTV can sit below MaxLTV when the cash-out dollar cap or the
// rate-and-term break-even amount bound the deal.
type LeverageDecision struct {
	MaxLTV       float64 `json:"max_ltv"`
	EffectiveLTV float64 `json:"effective_ltv"`
	LoanAmount   float64 `json:"loan_amount"`
}

// CashFlowMetrics holds the qualification cash-flow figures computed at the
// fixed benchmark rate. InterestOnlyPayment is the component qualification
// decisions use; AmortizingPI is illustrative only.
type CashFlowMetrics struct {
	DSCR                float64 `json:"dscr"`
	TotalMonthlyPayment float64 `json:"total_monthly_payment"`
	InterestOnlyPayment float64 `json:"interest_only_payment"`
	AmortizingPI        float64 `json:"amortizing_pi"`
	LoanAmount          float64 `json:"loan_amount"`
}

// ReserveRequirement is the minimum liquidity requirement for a scenario.
type ReserveRequirement struct {
	RequiredMonths   int     `json:"required_months"`
	RequiredReserves float64 `json:"required_reserves"`
	Shortfall        float64 `json:"shortfall"`
}
