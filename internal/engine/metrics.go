package engine

import (
	"math"

	"github.com/domus-lending/quote-service/internal/models"
)

// BenchmarkRate is the fixed annual rate every qualification figure is
// computed at. The quoted note rate is discovered later by the pricing matrix
// and never feeds back into qualification.
const BenchmarkRate = 0.07

// amortMonths is the term of the illustrative fully-amortizing breakdown.
const amortMonths = 360

// AmortizingPayment returns the monthly annuity payment for a loan at the
// given annual rate over a 360 month term. Display only; qualification uses
// the interest-only figure.
func AmortizingPayment(loanAmount, annualRate float64) float64 {
	monthlyRate := annualRate / 12
	if monthlyRate == 0 {
		return loanAmount / amortMonths
	}
	return loanAmount * monthlyRate / (1 - math.Pow(1+monthlyRate, -amortMonths))
}

// metricsForLoan computes the qualification cash flow for a loan amount:
// interest-only debt service at the benchmark rate plus monthly tax,
// insurance and HOA.
func metricsForLoan(in *models.ScenarioInput, loanAmount float64) models.CashFlowMetrics {
	interestOnly := loanAmount * BenchmarkRate / 12
	total := interestOnly + in.MonthlyTax() + in.MonthlyInsurance() + in.MonthlyHOA
	return models.CashFlowMetrics{
		DSCR:                in.MonthlyRent / total,
		TotalMonthlyPayment: total,
		InterestOnlyPayment: interestOnly,
		AmortizingPI:        AmortizingPayment(loanAmount, BenchmarkRate),
		LoanAmount:          loanAmount,
	}
}

// metricsAtLTV computes the qualification cash flow at a leverage fraction
// of the scenario's value basis.
func metricsAtLTV(in *models.ScenarioInput, ltv float64) models.CashFlowMetrics {
	return metricsForLoan(in, in.ValueBasis()*ltv)
}
