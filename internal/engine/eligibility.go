package engine

import (
	"fmt"
	"strings"

	"github.com/domus-lending/quote-service/internal/models"
)

// excludedStates is the geographic exclusion list. Membership alone is a
// hard decline regardless of every other attribute.
var excludedStates = map[string]bool{
	"AK": true, "ID": true, "CA": true, "MN": true, "MT": true,
	"NV": true, "ND": true, "OR": true, "SD": true, "VT": true,
}

const (
	minFICO   = 660
	dscrFloor = 0.75

	// Cash-out leverage caps and proceeds dollar caps.
	cashOutLTVCap        = 0.75
	cashOutLTVCapTight   = 0.70
	cashOutDollarCap     = 500_000
	cashOutDollarCapHigh = 1_000_000

	// Rate-and-term break-even: a 2% all-in cost assumption folded into
	// the payoff, so the target loan solves payoff / 0.98.
	rateTermCostFactor = 0.98
)

// hardDeclines collects every disqualifying attribute of a scenario. All
// failures are reported together, never just the first.
func hardDeclines(in *models.ScenarioInput) *models.EligibilityVerdict {
	v := &models.EligibilityVerdict{}

	if excludedStates[strings.ToUpper(in.PropertyState)] {
		v.Fail(fmt.Sprintf("We do not lend in %s.", in.PropertyState))
	}
	if in.IsRural {
		v.Fail("Rural properties are ineligible.")
	}
	if in.IsShortTermRental && in.IsMultiUnit() {
		v.Fail("STR status is only eligible for Single Family properties.")
	}
	// Foreign nationals may omit domestic credit entirely; the floor check
	// does not apply to them.
	if !in.IsForeignNational && in.FicoScore < minFICO {
		v.Fail(fmt.Sprintf("Minimum FICO of %d required.", minFICO))
	}

	return v
}

// baseLTVTier snaps the effective credit score to the leverage tier ladder.
func baseLTVTier(fico int) float64 {
	switch {
	case fico >= 780:
		return 0.80
	case fico >= 700:
		return 0.75
	case fico >= 680:
		return 0.70
	default:
		return 0.65
	}
}

// resolveLeverage determines the maximum leverage and loan amount for the
// scenario and the qualification metrics at that amount. Soft warnings raised
// along the way (the proceeds-cap clamp) are appended to the verdict.
func resolveLeverage(in *models.ScenarioInput, v *models.EligibilityVerdict) (models.LeverageDecision, models.CashFlowMetrics) {
	tier := baseLTVTier(in.EffectiveFICO())

	switch {
	case in.IsCashOutRefi():
		return resolveCashOut(in, tier, v)
	case in.LoanPurpose == models.PurposeRefinance:
		return resolveRateAndTerm(in, tier)
	default:
		loan := in.ValueBasis() * tier
		dec := models.LeverageDecision{MaxLTV: tier, EffectiveLTV: tier, LoanAmount: loan}
		return dec, metricsForLoan(in, loan)
	}
}

// resolveRateAndTerm targets the break-even loan amount, capped by the tiered
// LTV ceiling.
func resolveRateAndTerm(in *models.ScenarioInput, tier float64) (models.LeverageDecision, models.CashFlowMetrics) {
	basis := in.ValueBasis()
	loan := in.PayoffAmount / rateTermCostFactor
	if ceiling := basis * tier; loan > ceiling {
		loan = ceiling
	}
	dec := models.LeverageDecision{MaxLTV: tier, EffectiveLTV: loan / basis, LoanAmount: loan}
	return dec, metricsForLoan(in, loan)
}

// resolveCashOut applies the cash-out overlays: the LTV cap, then the dollar
// cap on new proceeds. The dollar cap is checked once, against the DSCR
// measured at the resolved LTV before clamping.
func resolveCashOut(in *models.ScenarioInput, tier float64, v *models.EligibilityVerdict) (models.LeverageDecision, models.CashFlowMetrics) {
	baseline := metricsAtLTV(in, tier)

	cap := cashOutLTVCap
	if in.IsShortTermRental || baseline.DSCR < 1.0 {
		cap = cashOutLTVCapTight
	}
	ltv := tier
	if ltv > cap {
		ltv = cap
	}
	metrics := metricsAtLTV(in, ltv)

	dollarCap := float64(cashOutDollarCap)
	if metrics.DSCR >= 1.0 && !in.IsShortTermRental && ltv < 0.65 {
		dollarCap = cashOutDollarCapHigh
	}

	effective := ltv
	if maxLoan := in.PayoffAmount + dollarCap; metrics.LoanAmount > maxLoan {
		effective = maxLoan / in.ValueBasis()
		metrics = metricsForLoan(in, maxLoan)
		v.Warn(fmt.Sprintf("Proceeds cap: cash-out restricted to $%s max.", formatDollarCap(dollarCap)))
	}

	dec := models.LeverageDecision{MaxLTV: ltv, EffectiveLTV: effective, LoanAmount: metrics.LoanAmount}
	return dec, metrics
}

func formatDollarCap(cap float64) string {
	if cap >= cashOutDollarCapHigh {
		return "1,000,000"
	}
	return "500,000"
}
