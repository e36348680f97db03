package engine

import (
	"fmt"

	"github.com/domus-lending/quote-service/internal/models"
)

// transactionType classifies the scenario for the transaction table.
func transactionType(in *models.ScenarioInput) string {
	if in.LoanPurpose == models.PurposePurchase {
		return TxPurchase
	}
	if in.IsCashOut {
		return TxCashOut
	}
	return TxRateAndTerm
}

// creditTier buckets a score into the seven rate-sheet tiers. Callers pass
// the effective score, so the foreign-national proxy lands in 700-719.
func creditTier(fico int) string {
	switch {
	case fico >= 780:
		return "780+"
	case fico >= 760:
		return "760-779"
	case fico >= 740:
		return "740-759"
	case fico >= 720:
		return "720-739"
	case fico >= 700:
		return "700-719"
	case fico >= 680:
		return "680-699"
	default:
		return "660-679"
	}
}

// ltvBracket returns the column index for an effective LTV, rounding the
// percentage up to the nearest bracket ceiling. Anything above 75% falls in
// the 80 bracket; the engine never resolves leverage past 0.80.
func ltvBracket(ltv float64) int {
	pct := ltv * 100
	for i, ceiling := range ltvCeilings {
		if pct <= float64(ceiling) {
			return i
		}
	}
	return len(ltvCeilings) - 1
}

func ltvLabel(bracket int) string {
	return fmt.Sprintf("LTV_%d", ltvCeilings[bracket])
}

// propertyTypeLabel classifies the asset for the property table. STR wins
// over unit count; 5-9 unit buildings price off the multi-family row.
func propertyTypeLabel(in *models.ScenarioInput) string {
	switch {
	case in.IsShortTermRental:
		return PropShortTermRental
	case in.NumberOfUnits >= 5:
		return PropMultiFamily
	case in.AssetType == models.AssetSingle:
		return PropSingleFamily
	default:
		return PropTwoToFourUnit
	}
}

// loanTier buckets a loan amount into the six rate-sheet tiers. Amounts past
// $2.5M fall in the top tier, which the sheet does not offer at any leverage.
func loanTier(amount float64) string {
	switch {
	case amount <= 150_000:
		return "<=$150,000"
	case amount <= 1_000_000:
		return "<=$1,000,000"
	case amount <= 1_500_000:
		return "<=$1,500,000"
	case amount <= 2_000_000:
		return "<=$2,000,000"
	case amount <= 2_500_000:
		return "<=$2,500,000"
	default:
		return "<=$3,000,000"
	}
}

// dscrRange buckets a coverage ratio into the three rate-sheet tiers.
func dscrRange(dscr float64) string {
	switch {
	case dscr < 1.15:
		return "< 1.15"
	case dscr <= 1.30:
		return "> 1.15 <= 1.30"
	default:
		return "> 1.30"
	}
}
