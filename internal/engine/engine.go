// Package engine implements the deterministic underwriting and pricing
// pipeline: eligibility and leverage resolution, benchmark-rate cash-flow
// metrics, reserve requirements, and the matrix-based rate quote. The engine
// is a pure function of one ScenarioInput plus an immutable rate sheet
// snapshot; evaluations share no mutable state and may run fully in parallel.
package engine

import (
	"fmt"

	"github.com/domus-lending/quote-service/internal/models"
)

// Band score values surfaced to the display layer.
const (
	scoreRed    = 30
	scoreYellow = 75
	scoreGreen  = 95
)

// yellowDSCRThreshold demotes an otherwise clean scenario to Yellow.
const yellowDSCRThreshold = 1.10

// Engine evaluates loan scenarios against the active rate sheet.
type Engine struct {
	sheets *SheetStore
}

// New returns an engine pricing against the given sheet store.
func New(sheets *SheetStore) *Engine {
	return &Engine{sheets: sheets}
}

// Sheets exposes the sheet store for reloads and version reporting.
func (e *Engine) Sheets() *SheetStore {
	return e.sheets
}

// Evaluate runs the full pipeline over one scenario and produces the
// immutable result record. Components run in strict dependency order:
// leverage feeds metrics, metrics feed reserves and pricing, and the pricing
// verdict can itself veto the scenario.
func (e *Engine) Evaluate(in *models.ScenarioInput) *models.UnderwritingResult {
	sheet := e.sheets.Current()

	verdict := hardDeclines(in)
	decision, metrics := resolveLeverage(in, verdict)
	reserves := evaluateReserves(in, metrics, verdict)

	// Terminal floor check, applied once the final metrics are known.
	ltv := decision.EffectiveLTV
	if metrics.DSCR < dscrFloor {
		verdict.Fail(fmt.Sprintf("DSCR below %.2fx floor.", dscrFloor))
		ltv = 0
	}

	// Pricing runs only for scenarios that survived eligibility; a declined
	// matrix configuration is folded back in as a hard failure.
	var quote *models.RateQuote
	if verdict.Eligible() {
		quote = priceScenario(in, sheet, decision.EffectiveLTV, decision.LoanAmount, metrics.DSCR)
		if quote.Declined() {
			verdict.Fail("Pricing is not offered for this configuration.")
		}
	}

	band := resolveBand(verdict, metrics.DSCR)

	result := &models.UnderwritingResult{
		Score:               bandScore(band),
		Band:                band,
		Qualified:           band != models.BandRed,
		DSCR:                metrics.DSCR,
		LTV:                 ltv,
		LoanAmount:          metrics.LoanAmount,
		Reserves:            in.Liquidity,
		RequiredReserves:    reserves.RequiredReserves,
		ReserveMonths:       reserves.RequiredMonths,
		ReserveShortfall:    reserves.Shortfall,
		TotalMonthlyPayment: metrics.TotalMonthlyPayment,
		InterestOnlyPayment: metrics.InterestOnlyPayment,
		MonthlyPI:           metrics.AmortizingPI,
		Failures:            verdict.Failures,
		Warnings:            verdict.Warnings,
		IOEligible:          in.EffectiveFICO() >= 780 && metrics.DSCR >= 1.0,
		Quote:               quote,
	}

	if in.IsCashOutRefi() {
		result.EstimatedCashOut = estimatedCashOut(metrics.LoanAmount, in.PayoffAmount)
	}

	return result
}

// resolveBand folds failures, warnings and coverage into the coarse tier.
func resolveBand(v *models.EligibilityVerdict, dscr float64) models.Band {
	switch {
	case !v.Eligible():
		return models.BandRed
	case len(v.Warnings) > 0 || dscr < yellowDSCRThreshold:
		return models.BandYellow
	default:
		return models.BandGreen
	}
}

func bandScore(band models.Band) int {
	switch band {
	case models.BandRed:
		return scoreRed
	case models.BandYellow:
		return scoreYellow
	default:
		return scoreGreen
	}
}

// estimatedCashOut models net proceeds after payoff and a 2% closing-cost
// deduction, floored at zero.
func estimatedCashOut(loanAmount, payoff float64) float64 {
	proceeds := loanAmount - payoff - loanAmount*0.02
	if proceeds < 0 {
		return 0
	}
	return proceeds
}
