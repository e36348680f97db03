package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsForLoanInterestOnly(t *testing.T) {
	in := purchaseScenario()
	m := metricsForLoan(in, 300_000)

	assert.InDelta(t, 1750.0, m.InterestOnlyPayment, 1e-9)
	assert.InDelta(t, 2300.0, m.TotalMonthlyPayment, 1e-9)
	assert.InDelta(t, 3200.0/2300.0, m.DSCR, 1e-9)
	assert.Equal(t, 300_000.0, m.LoanAmount)

	// The amortizing figure is strictly larger than interest-only and does
	// not feed the DSCR.
	assert.Greater(t, m.AmortizingPI, m.InterestOnlyPayment)
}

func TestAmortizingPaymentMatchesAnnuityFormula(t *testing.T) {
	// A quoted rate fed back into the amortizing formula must reproduce the
	// manually computed 360-month annuity payment.
	for _, rate := range []float64{6.0, 6.375, 7.0, 8.625} {
		loan := 300_000.0
		r := rate / 100 / 12
		want := loan * r / (1 - math.Pow(1+r, -360))
		got := AmortizingPayment(loan, rate/100)
		assert.InDelta(t, want, got, 0.01, "rate %.3f", rate)
	}
}

func TestAmortizingPaymentZeroRate(t *testing.T) {
	assert.InDelta(t, 1000.0, AmortizingPayment(360_000, 0), 1e-9)
}

func TestMetricsAtLTVUsesValueBasis(t *testing.T) {
	in := purchaseScenario()
	in.PurchasePrice = 500_000 // purchase anchors to price, not as-is value

	m := metricsAtLTV(in, 0.75)
	require.Equal(t, 375_000.0, m.LoanAmount)
}
