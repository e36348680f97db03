package models

import (
	"fmt"
	"strings"
	"time"
)

// Band is the coarse qualification tier of a scenario.
type Band string

const (
	BandGreen  Band = "Green"
	BandYellow Band = "Yellow"
	BandRed    Band = "Red"
)

// UnderwritingResult is the terminal aggregate of one evaluation. It is
// created once and never mutated afterwards; downstream consumers (narrative,
// notification) read it only.
type UnderwritingResult struct {
	Score     int  `json:"score"`
	Band      Band `json:"band"`
	Qualified bool `json:"qualified"`

	DSCR       float64 `json:"dscr"`
	LTV        float64 `json:"ltv"`
	LoanAmount float64 `json:"loan_amount"`

	Reserves         float64 `json:"reserves"`
	RequiredReserves float64 `json:"required_reserves"`
	ReserveMonths    int     `json:"reserve_months"`
	ReserveShortfall float64 `json:"reserve_shortfall"`

	TotalMonthlyPayment float64 `json:"total_monthly_payment"`
	InterestOnlyPayment float64 `json:"interest_only_payment"`
	MonthlyPI           float64 `json:"monthly_pi"`

	Failures []string `json:"failures"`
	Warnings []string `json:"warnings"`

	IOEligible       bool    `json:"io_eligible"`
	EstimatedCashOut float64 `json:"estimated_cash_out,omitempty"`

	Quote    *RateQuote    `json:"quote,omitempty"`
	Analysis *DealAnalysis `json:"analysis,omitempty"`
}

// Reasoning joins failures and warnings into a single narrative line.
func (r *UnderwritingResult) Reasoning() string {
	return strings.Join(append(append([]string{}, r.Failures...), r.Warnings...), " ")
}

// FinalRate returns the quoted note rate, or false when no numeric rate was
// resolved (declined configuration or manual rate review).
func (r *UnderwritingResult) FinalRate() (float64, bool) {
	if r.Quote == nil || r.Quote.FinalRate == nil {
		return 0, false
	}
	return *r.Quote.FinalRate, true
}

// Flatten serializes the headline figures into the ordered key-value set the
// notification dispatcher transmits.
func (r *UnderwritingResult) Flatten() []string {
	rate := "Pending Review"
	if v, ok := r.FinalRate(); ok {
		rate = fmt.Sprintf("%.3f%%", v)
	} else if r.Quote != nil && r.Quote.Declined() {
		rate = NotOfferedLabel
	}
	lines := []string{
		fmt.Sprintf("Band: %s", r.Band),
		fmt.Sprintf("Qualified: %t", r.Qualified),
		fmt.Sprintf("DSCR: %.2fx", r.DSCR),
		fmt.Sprintf("LTV: %.1f%%", r.LTV*100),
		fmt.Sprintf("Loan Amount: $%.2f", r.LoanAmount),
		fmt.Sprintf("Total Monthly Payment: $%.2f", r.TotalMonthlyPayment),
		fmt.Sprintf("Reserve Months: %d", r.ReserveMonths),
		fmt.Sprintf("Required Reserves: $%.2f", r.RequiredReserves),
		fmt.Sprintf("Quoted Rate: %s", rate),
	}
	if r.EstimatedCashOut > 0 {
		lines = append(lines, fmt.Sprintf("Estimated Cash Out: $%.2f", r.EstimatedCashOut))
	}
	return lines
}

// QuoteRecord is a persisted quote submission.
type QuoteRecord struct {
	ID          int64              `json:"id"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Scenario    ScenarioInput      `json:"scenario"`
	Result      UnderwritingResult `json:"result"`
}

// QuoteSummary is the headline row for quote listings.
type QuoteSummary struct {
	ID            int64     `json:"id"`
	SubmittedAt   time.Time `json:"submitted_at"`
	BorrowerEmail string    `json:"borrower_email,omitempty"`
	Band          Band      `json:"band"`
	DSCR          float64   `json:"dscr"`
	LTV           float64   `json:"ltv"`
	LoanAmount    float64   `json:"loan_amount"`
	FinalRate     *float64  `json:"final_rate,omitempty"`
}
