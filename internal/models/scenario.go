package models

// AssetType identifies the property category of a scenario
type AssetType string

const (
	AssetSingle    AssetType = "Single Property"
	AssetTwoUnit   AssetType = "2 Units"
	AssetThreeUnit AssetType = "3 Units"
	AssetFourUnit  AssetType = "4 Units"
)

// LoanPurpose identifies the transaction purpose
type LoanPurpose string

const (
	PurposePurchase  LoanPurpose = "Purchase"
	PurposeRefinance LoanPurpose = "Refinance"
)

// Prepayment penalty term options as they appear on the rate sheet
const (
	PrepayNone     = "No Penalty"
	Prepay12Months = "12 Months"
	Prepay24Months = "24 Months"
	Prepay36Months = "36 Months"
	Prepay48Months = "48 Months"
	Prepay60Months = "60 Months"
)

// ForeignNationalProxyFICO substitutes for a missing domestic credit score
// in tier lookups. It never satisfies the minimum-score floor, which is
// skipped entirely for foreign nationals.
const ForeignNationalProxyFICO = 700

// ScenarioInput is one submitted loan scenario. It is immutable for the
// duration of an evaluation; the engine never writes to it.
type ScenarioInput struct {
	BorrowerName  string `json:"borrower_name,omitempty"`
	BorrowerEmail string `json:"borrower_email,omitempty"`
	BorrowerPhone string `json:"borrower_phone,omitempty"`

	ZipCode       string    `json:"zip_code"`
	PropertyState string    `json:"property_state"`
	IsRural       bool      `json:"is_rural"`
	AssetType     AssetType `json:"asset_type"`
	NumberOfUnits int       `json:"number_of_units"`

	LoanPurpose           LoanPurpose `json:"loan_purpose"`
	IsCashOut             bool        `json:"is_cash_out"`
	MoreThanOneUnitVacant bool        `json:"more_than_one_unit_vacant"`

	PurchasePrice float64 `json:"purchase_price,omitempty"`
	AsIsValue     float64 `json:"as_is_value"`
	PayoffAmount  float64 `json:"payoff_amount,omitempty"`

	MonthlyRent     float64 `json:"monthly_rent"`
	AnnualTax       float64 `json:"annual_tax"`
	AnnualInsurance float64 `json:"annual_insurance"`
	MonthlyHOA      float64 `json:"monthly_hoa"`

	FicoScore           int     `json:"fico_score"`
	MortgageLates       bool    `json:"mortgage_lates"`
	Liquidity           float64 `json:"liquidity"`
	IsFirstTimeInvestor bool    `json:"is_first_time_investor"`
	IsShortTermRental   bool    `json:"is_short_term_rental"`
	IsForeignNational   bool    `json:"is_foreign_national"`

	PrepaymentPenalty string `json:"prepayment_penalty"`
}

// MonthlyTax returns the tax obligation normalized to a monthly figure.
func (s *ScenarioInput) MonthlyTax() float64 {
	return s.AnnualTax / 12
}

// MonthlyInsurance returns the insurance obligation normalized to a monthly figure.
func (s *ScenarioInput) MonthlyInsurance() float64 {
	return s.AnnualInsurance / 12
}

// IsMultiUnit reports whether the asset is a 2-4 unit property.
func (s *ScenarioInput) IsMultiUnit() bool {
	switch s.AssetType {
	case AssetTwoUnit, AssetThreeUnit, AssetFourUnit:
		return true
	}
	return false
}

// IsCashOutRefi reports whether the scenario is a cash-out refinance.
func (s *ScenarioInput) IsCashOutRefi() bool {
	return s.LoanPurpose == PurposeRefinance && s.IsCashOut
}

// HasNoDomesticCredit reports the foreign-national-without-US-credit case.
// A zero score on a foreign national is a deliberate signal, not a data error.
func (s *ScenarioInput) HasNoDomesticCredit() bool {
	return s.IsForeignNational && s.FicoScore == 0
}

// EffectiveFICO returns the score used for tier lookups, substituting the
// fixed proxy for foreign nationals without domestic credit.
func (s *ScenarioInput) EffectiveFICO() int {
	if s.HasNoDomesticCredit() {
		return ForeignNationalProxyFICO
	}
	return s.FicoScore
}

// ValueBasis returns the property value the leverage calculation is anchored
// to: the purchase price for purchases (falling back to as-is value when no
// price was supplied), the as-is value for refinances.
func (s *ScenarioInput) ValueBasis() float64 {
	if s.LoanPurpose == PurposePurchase && s.PurchasePrice > 0 {
		return s.PurchasePrice
	}
	return s.AsIsValue
}
