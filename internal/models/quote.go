package models

import (
	"encoding/json"
	"fmt"
)

// NotOfferedLabel is the sentinel a rate-sheet cell carries when the
// configuration is not offered at that leverage.
const NotOfferedLabel = "N/O"

// Adjustment is one signed point value from the rate sheet. A cell that is
// not offered has Offered=false and zero points.
type Adjustment struct {
	Points  float64
	Offered bool
}

// Pts builds an offered adjustment.
func Pts(p float64) Adjustment {
	return Adjustment{Points: p, Offered: true}
}

// NotOffered is the sentinel adjustment for an undefined matrix cell.
var NotOffered = Adjustment{}

// MarshalJSON renders an offered cell as a number and a missing cell as "N/O",
// matching the published rate-sheet format.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	if !a.Offered {
		return json.Marshal(NotOfferedLabel)
	}
	return json.Marshal(a.Points)
}

// UnmarshalJSON accepts either a number or the "N/O" sentinel.
func (a *Adjustment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != NotOfferedLabel {
			return fmt.Errorf("invalid adjustment cell %q", s)
		}
		*a = NotOffered
		return nil
	}
	var p float64
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid adjustment cell: %w", err)
	}
	*a = Pts(p)
	return nil
}

// RateQuote is the outcome of the pricing matrix lookup. Every resolved
// classification label and intermediate value is retained for audit.
type RateQuote struct {
	TransactionType string `json:"transaction_type"`
	LTVLabel        string `json:"ltv_label"`
	CreditTier      string `json:"credit_tier"`
	PropertyType    string `json:"property_type"`
	LoanTier        string `json:"loan_tier"`
	DSCRRange       string `json:"dscr_range"`
	PrepayLabel     string `json:"prepay_label"`

	TransactionAdj Adjustment `json:"transaction_adj"`
	PropertyAdj    Adjustment `json:"property_adj"`
	LoanAmountAdj  Adjustment `json:"loan_amount_adj"`
	DSCRAdj        Adjustment `json:"dscr_adj"`
	PrepayAdj      Adjustment `json:"prepay_adj"`

	TotalAdjustment float64 `json:"total_adjustment"`
	InitialPrice    float64 `json:"initial_price"`
	FirstMatchPrice float64 `json:"first_match_price"`
	FirstMatchRate  float64 `json:"first_match_rate"`
	ShiftedPrice    float64 `json:"shifted_price"`
	FinalMatchPrice float64 `json:"final_match_price"`

	// FinalRate is nil when the quote is declined or deferred to manual review.
	FinalRate *float64 `json:"final_rate,omitempty"`

	IsOffered                bool `json:"is_offered"`
	RequiresManualRateReview bool `json:"requires_manual_rate_review,omitempty"`
}

// Adjustments returns the five dimension adjustments in evaluation order.
func (q *RateQuote) Adjustments() [5]Adjustment {
	return [5]Adjustment{q.TransactionAdj, q.PropertyAdj, q.LoanAmountAdj, q.DSCRAdj, q.PrepayAdj}
}

// Declined reports whether any dimension resolved to a not-offered cell.
func (q *RateQuote) Declined() bool {
	return !q.IsOffered
}
