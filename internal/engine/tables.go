package engine

import (
	"fmt"

	"github.com/domus-lending/quote-service/internal/models"
)

// Transaction type labels as they appear on the rate sheet.
const (
	TxPurchase    = "Purchase"
	TxRateAndTerm = "Rate & Term"
	TxCashOut     = "Cash Out"
)

// Property type labels as they appear on the rate sheet.
const (
	PropSingleFamily    = "Single Family / Condo / Townhome"
	PropTwoToFourUnit   = "2 - 4 Unit"
	PropShortTermRental = "Short Term Rental"
	PropMultiFamily     = "Multi Family (up to 9)"
)

// ltvCeilings are the bracket ceilings, in percent. An effective LTV is
// rounded up to the nearest ceiling to pick its column.
var ltvCeilings = [7]int{50, 55, 60, 65, 70, 75, 80}

// Row is one rate-sheet row: a point adjustment per LTV bracket.
type Row [7]models.Adjustment

// RatePoint is one entry of the rate/price table, descending by rate.
type RatePoint struct {
	Rate  float64 `json:"rate"`
	Price float64 `json:"price"`
}

// RateSheet is an immutable set of pricing tables. A loaded sheet is shared
// read-only by any number of concurrent evaluations; updates are published by
// swapping the whole sheet, never by mutating one in place.
type RateSheet struct {
	Version      string                    `json:"version"`
	Transaction  map[string]map[string]Row `json:"transaction"`
	PropertyType map[string]Row            `json:"property_type"`
	LoanAmount   map[string]Row            `json:"loan_amount"`
	DSCR         map[string]Row            `json:"dscr"`
	Prepay       map[string]Row            `json:"prepay"`
	RateTable    []RatePoint               `json:"rate_table"`
}

// Validate checks that a sheet has every table the lookup path reads.
func (s *RateSheet) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("rate sheet has no version")
	}
	if len(s.Transaction) == 0 || len(s.PropertyType) == 0 || len(s.LoanAmount) == 0 ||
		len(s.DSCR) == 0 || len(s.Prepay) == 0 {
		return fmt.Errorf("rate sheet %s is missing adjustment tables", s.Version)
	}
	if len(s.RateTable) == 0 {
		return fmt.Errorf("rate sheet %s has an empty rate table", s.Version)
	}
	return nil
}

func pt(p float64) models.Adjustment { return models.Pts(p) }

var no = models.NotOffered

// builtinSheet is the compiled-in rate sheet, used until a sheet file is
// loaded. Columns run LTV 50 / 55 / 60 / 65 / 70 / 75 / 80.
var builtinSheet = &RateSheet{
	Version: "2025-08-builtin",
	Transaction: map[string]map[string]Row{
		TxPurchase: {
			"780+":    {pt(1), pt(1), pt(0.75), pt(0.75), pt(0.25), pt(0), pt(-0.75)},
			"760-779": {pt(0.75), pt(0.75), pt(0.5), pt(0.25), pt(0), pt(-0.5), pt(-1.25)},
			"740-759": {pt(0.75), pt(0.75), pt(0.25), pt(0), pt(-0.25), pt(-1), pt(-1.75)},
			"720-739": {pt(0.5), pt(0.5), pt(0), pt(-0.25), pt(-0.75), pt(-1.5), pt(-2.5)},
			"700-719": {pt(0.25), pt(0.25), pt(-0.25), pt(-0.75), pt(-1.25), pt(-2.25), pt(-3.25)},
			"680-699": {pt(0), pt(0), pt(-0.5), pt(-1.25), pt(-1.75), pt(-2.75), no},
			"660-679": {pt(-0.25), pt(-0.25), pt(-1), pt(-1.75), pt(-2.5), no, no},
		},
		TxRateAndTerm: {
			"780+":    {pt(1), pt(1), pt(0.75), pt(0.75), pt(0.25), pt(0), pt(-0.75)},
			"760-779": {pt(0.75), pt(0.75), pt(0.5), pt(0.25), pt(0), pt(-0.5), pt(-1.25)},
			"740-759": {pt(0.75), pt(0.75), pt(0.25), pt(0), pt(-0.25), pt(-1), pt(-1.82)},
			"720-739": {pt(0.5), pt(0.5), pt(0), pt(-0.25), pt(-0.75), pt(-1.5), pt(-2.61)},
			"700-719": {pt(0.25), pt(0.25), pt(-0.25), pt(-0.75), pt(-1.25), pt(-2.25), pt(-3.41)},
			"680-699": {pt(0), pt(0), pt(-0.5), pt(-1.25), pt(-1.75), pt(-2.75), no},
			"660-679": {pt(-0.25), pt(-0.25), pt(-1), pt(-1.75), pt(-2.5), no, no},
		},
		TxCashOut: {
			"780+":    {pt(0.75), pt(0.75), pt(0.5), pt(0.25), pt(-0.5), pt(-1.5), no},
			"760-779": {pt(0.5), pt(0.5), pt(0.25), pt(-0.25), pt(-0.75), pt(-2), no},
			"740-759": {pt(0.5), pt(0.5), pt(0), pt(-0.5), pt(-1), pt(-2.5), no},
			"720-739": {pt(0.25), pt(0.25), pt(-0.25), pt(-0.75), pt(-1.5), pt(-3), no},
			"700-719": {pt(0), pt(0), pt(-0.5), pt(-1.25), pt(-2), pt(-3.75), no},
			"680-699": {pt(-0.25), pt(-0.25), pt(-0.75), pt(-1.75), pt(-2.5), no, no},
		},
	},
	PropertyType: map[string]Row{
		PropSingleFamily:    {pt(0), pt(0), pt(0), pt(0), pt(0), pt(0), pt(0)},
		PropTwoToFourUnit:   {pt(-0.5), pt(-0.5), pt(-0.75), pt(-1), pt(-1.25), pt(-1.5), pt(-2)},
		PropShortTermRental: {pt(0), pt(0), pt(0), pt(0), pt(0), pt(0), pt(0)},
		PropMultiFamily:     {pt(-4.5), pt(-4.5), pt(-5), pt(-5.5), pt(-6), pt(-6.5), no},
	},
	LoanAmount: map[string]Row{
		"<=$150,000":   {pt(-1), pt(-1), pt(-1), pt(-1), pt(-1), pt(-1), pt(-1)},
		"<=$1,000,000": {pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5)},
		"<=$1,500,000": {pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5), pt(-0.5)},
		"<=$2,000,000": {pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5)},
		"<=$2,500,000": {pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5)},
		"<=$3,000,000": {no, no, no, no, no, no, no},
	},
	DSCR: map[string]Row{
		"< 1.15":         {pt(0), pt(0), pt(-0.25), pt(-0.25), pt(-0.25), pt(-0.5), pt(-0.75)},
		"> 1.15 <= 1.30": {pt(0), pt(0), pt(0), pt(0), pt(0), pt(0), pt(0)},
		"> 1.30":         {pt(0.25), pt(0.25), pt(0.25), pt(0.25), pt(0.25), pt(0.25), pt(0.25)},
	},
	Prepay: map[string]Row{
		models.PrepayNone:     {pt(-2), pt(-2), pt(-2), pt(-2), pt(-2), pt(-2), pt(-2)},
		models.Prepay12Months: {pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5), pt(-1.5)},
		models.Prepay24Months: {pt(0), pt(0), pt(0), pt(0), pt(0), pt(0), pt(0)},
		models.Prepay36Months: {pt(1), pt(1), pt(1), pt(1), pt(1), pt(1), pt(1)},
		models.Prepay48Months: {pt(1), pt(1), pt(1), pt(1), pt(1), pt(1), pt(1)},
		models.Prepay60Months: {pt(1.5), pt(1.5), pt(1.5), pt(1.5), pt(1.5), pt(1.5), pt(1.5)},
	},
	RateTable: []RatePoint{
		{Rate: 8.625, Price: 107.9915},
		{Rate: 8.5, Price: 107.7398},
		{Rate: 8.375, Price: 107.4709},
		{Rate: 8.25, Price: 107.194},
		{Rate: 8.125, Price: 106.9092},
		{Rate: 8.0, Price: 106.595},
		{Rate: 7.875, Price: 106.2769},
		{Rate: 7.75, Price: 105.9293},
		{Rate: 7.625, Price: 105.5737},
		{Rate: 7.5, Price: 105.2072},
		{Rate: 7.375, Price: 104.8213},
		{Rate: 7.25, Price: 104.4051},
		{Rate: 7.125, Price: 103.9478},
		{Rate: 7.0, Price: 103.4705},
		{Rate: 6.875, Price: 102.9475},
		{Rate: 6.75, Price: 102.3999},
		{Rate: 6.625, Price: 101.8146},
		{Rate: 6.5, Price: 101.1988},
		{Rate: 6.375, Price: 100.5527},
		{Rate: 6.25, Price: 99.8761},
		{Rate: 6.125, Price: 99.1588},
		{Rate: 6.0, Price: 98.4211},
	},
}
