package engine

import (
	"math"

	"github.com/domus-lending/quote-service/internal/models"
)

// requiredPriceMargin is the fixed price improvement applied between the two
// closest-price searches. The first match establishes a par-equivalent rate
// for the risk profile; shifting its price by the margin and searching again
// yields the rate actually offered.
const requiredPriceMargin = 1.5

// creditTierNoUSCredit labels the manual-review pricing path.
const creditTierNoUSCredit = "No US Credit"

// priceScenario resolves the five-dimension matrix lookup and the two-stage
// rate search for an eligible scenario.
func priceScenario(in *models.ScenarioInput, sheet *RateSheet, ltv, loanAmount, dscr float64) *models.RateQuote {
	tx := transactionType(in)
	bracket := ltvBracket(ltv)

	// A foreign national without domestic credit is eligible but cannot be
	// priced off the matrix; the rate is deferred to a human.
	if in.HasNoDomesticCredit() {
		return &models.RateQuote{
			TransactionType:          tx,
			LTVLabel:                 ltvLabel(bracket),
			CreditTier:               creditTierNoUSCredit,
			PropertyType:             string(in.AssetType),
			LoanTier:                 "N/A",
			DSCRRange:                "N/A",
			PrepayLabel:              in.PrepaymentPenalty,
			IsOffered:                true,
			RequiresManualRateReview: true,
		}
	}

	q := &models.RateQuote{
		TransactionType: tx,
		LTVLabel:        ltvLabel(bracket),
		CreditTier:      creditTier(in.FicoScore),
		PropertyType:    propertyTypeLabel(in),
		LoanTier:        loanTier(loanAmount),
		DSCRRange:       dscrRange(dscr),
		PrepayLabel:     in.PrepaymentPenalty,
	}

	q.TransactionAdj = cell(sheet.Transaction[tx], q.CreditTier, bracket)
	q.PropertyAdj = cell(sheet.PropertyType, q.PropertyType, bracket)
	q.LoanAmountAdj = cell(sheet.LoanAmount, q.LoanTier, bracket)
	q.DSCRAdj = cell(sheet.DSCR, q.DSCRRange, bracket)
	q.PrepayAdj = cell(sheet.Prepay, q.PrepayLabel, bracket)

	total := 0.0
	for _, adj := range q.Adjustments() {
		if !adj.Offered {
			// The undefined cell is reported through the breakdown; the
			// whole quote is declined, never silently zeroed.
			return q
		}
		total += adj.Points
	}

	q.TotalAdjustment = total
	q.InitialPrice = 100 - total

	first := closestByPrice(sheet.RateTable, q.InitialPrice)
	q.FirstMatchPrice = first.Price
	q.FirstMatchRate = first.Rate

	q.ShiftedPrice = first.Price + requiredPriceMargin
	final := closestByPrice(sheet.RateTable, q.ShiftedPrice)
	q.FinalMatchPrice = final.Price
	q.FinalRate = &final.Rate

	q.IsOffered = true
	return q
}

// cell fetches one adjustment, treating a missing row the same as a
// not-offered cell.
func cell(table map[string]Row, key string, bracket int) models.Adjustment {
	row, ok := table[key]
	if !ok {
		return models.NotOffered
	}
	return row[bracket]
}

// closestByPrice returns the table entry whose price is numerically closest
// to the target. Ties keep the first entry in table order.
func closestByPrice(table []RatePoint, target float64) RatePoint {
	closest := table[0]
	minDiff := math.Abs(table[0].Price - target)
	for _, entry := range table {
		if diff := math.Abs(entry.Price - target); diff < minDiff {
			minDiff = diff
			closest = entry
		}
	}
	return closest
}
