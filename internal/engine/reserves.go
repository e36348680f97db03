package engine

import (
	"fmt"

	"github.com/domus-lending/quote-service/internal/models"
)

const largeLoanThreshold = 2_000_000

// requiredReserveMonths escalates to twelve months for tight coverage or
// large balances.
func requiredReserveMonths(in *models.ScenarioInput, m models.CashFlowMetrics) int {
	switch {
	case m.DSCR < 1.0:
		return 12
	case m.LoanAmount > largeLoanThreshold:
		return 12
	case in.IsShortTermRental && m.LoanAmount > largeLoanThreshold:
		// Redundant with the plain large-loan clause; kept as written in
		// the program guidelines.
		return 12
	}
	return 6
}

// evaluateReserves derives the required reserves and records a shortfall
// warning. A shortfall never blocks qualification on its own.
func evaluateReserves(in *models.ScenarioInput, m models.CashFlowMetrics, v *models.EligibilityVerdict) models.ReserveRequirement {
	months := requiredReserveMonths(in, m)
	required := m.TotalMonthlyPayment * float64(months)

	shortfall := required - in.Liquidity
	if shortfall < 0 {
		shortfall = 0
	}
	if shortfall > 0 {
		v.Warn(fmt.Sprintf("Liquidity: $%.0f reserve shortfall.", shortfall))
	}

	return models.ReserveRequirement{
		RequiredMonths:   months,
		RequiredReserves: required,
		Shortfall:        shortfall,
	}
}
