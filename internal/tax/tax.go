// Package tax implements the Brazilian capital-gains computation for ADR
// trading: FIFO lot accounting, day-trade matching, monthly swing-trade
// exemption, IRRF withholding credit and cross-year loss carryforward.
//
// The engine is a pure computation: it consumes an ordered transaction list
// plus the previous year's summary and produces a YearlySummary. It owns no
// state between invocations, so distinct (user, year) runs are independent.
package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType identifies the side of a transaction.
type TradeType string

// Transaction sides accepted by the engine.
const (
	Buy  TradeType = "BUY"
	Sell TradeType = "SELL"
)

// Params holds the tax rates and thresholds the engine applies. Rates are
// fractions (0.15 = 15%), thresholds are BRL amounts.
//
// SwingTradeExemption is the sales-volume ceiling under which a positive
// monthly net gain is fully exempt. ExemptionFlagLimit is the constant the
// month's informational Exempt flag compares against; the two are kept as
// separate parameters even though both default to R$20,000.
type Params struct {
	TaxRate             decimal.Decimal
	DayTradeTaxRate     decimal.Decimal
	IRRFRate            decimal.Decimal
	SwingTradeExemption decimal.Decimal
	ExemptionFlagLimit  decimal.Decimal
}

// DefaultParams returns the statutory rates for ADR trading by Brazilian
// residents: 15% on swing-trade net gains, 20% on day-trade net gains,
// 0.005% IRRF withheld on sales, R$20,000 monthly swing-trade exemption.
func DefaultParams() Params {
	return Params{
		TaxRate:             decimal.NewFromFloat(0.15),
		DayTradeTaxRate:     decimal.NewFromFloat(0.20),
		IRRFRate:            decimal.NewFromFloat(0.00005),
		SwingTradeExemption: decimal.NewFromInt(20000),
		ExemptionFlagLimit:  decimal.NewFromInt(20000),
	}
}

// Transaction is one immutable ledger entry. PriceUSD is the unit price in
// the trading currency, ExchangeRate the USD/BRL rate recorded for the trade
// and BrokerageFee a BRL amount. Callers must supply transactions sorted by
// (date, insertion order) ascending; the engine preserves that order.
type Transaction struct {
	ID           string
	Ticker       string
	Type         TradeType
	Quantity     decimal.Decimal
	PriceUSD     decimal.Decimal
	ExchangeRate decimal.Decimal
	Date         time.Time
	BrokerageFee decimal.Decimal
}

// valueBRL returns the BRL value of qty units at the transaction's own rate.
func (t Transaction) valueBRL(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(t.PriceUSD).Mul(t.ExchangeRate)
}

// MonthResult aggregates one calendar month. The Remaining* balances are the
// carryforward state handed to the following month; *Used record how much of
// the prior balances this month consumed. Immutable once built.
type MonthResult struct {
	Month          string          `json:"month"` // YYYY-MM
	Gains          decimal.Decimal `json:"gains"`
	Losses         decimal.Decimal `json:"losses"`
	NetGains       decimal.Decimal `json:"netGains"`
	SalesTotal     decimal.Decimal `json:"salesTotal"`
	TaxableGains   decimal.Decimal `json:"taxableGains"`
	DayTradeGains  decimal.Decimal `json:"dayTradeGains"`
	DayTradeLosses decimal.Decimal `json:"dayTradeLosses"`
	IRRFPaid       decimal.Decimal `json:"irrfPaid"`
	Exempt         bool            `json:"exempt"`
	ExemptedGains  decimal.Decimal `json:"exemptedGains"`
	ExemptedSales  decimal.Decimal `json:"exemptedSales"`

	RemainingCompensableLosses decimal.Decimal `json:"remainingCompensableLosses"`
	RemainingDayTradeLosses    decimal.Decimal `json:"remainingDayTradeLosses"`
	CompensableLossesUsed      decimal.Decimal `json:"compensableLossesUsed"`
	DayTradeLossesUsed         decimal.Decimal `json:"dayTradeLossesUsed"`
}

// YearlySummary is the engine's output. CompensableLosses and
// DayTradeCompensableLosses are the balances to thread into next year's run;
// both are non-negative and only ever hold unconsumed net losses.
type YearlySummary struct {
	Year     int             `json:"year"`
	Gains    decimal.Decimal `json:"totalGains"`
	Losses   decimal.Decimal `json:"totalLosses"`
	NetGains decimal.Decimal `json:"netGains"`

	TaxOwed     decimal.Decimal `json:"taxOwed"`
	IRRFPaid    decimal.Decimal `json:"irrfPaid"`
	DayTradeTax decimal.Decimal `json:"dayTradeTax"`

	DayTradeGains  decimal.Decimal `json:"dayTradeGains"`
	DayTradeLosses decimal.Decimal `json:"dayTradeLosses"`

	CompensableLosses         decimal.Decimal `json:"compensableLosses"`
	DayTradeCompensableLosses decimal.Decimal `json:"dayTradeCompensableLosses"`

	PreviousYearLossesUsed         decimal.Decimal `json:"previousYearLossesUsed"`
	PreviousYearDayTradeLossesUsed decimal.Decimal `json:"previousYearDayTradeLossesUsed"`

	TotalExemptedGains decimal.Decimal `json:"totalExemptedGains"`
	TotalExemptedSales decimal.Decimal `json:"totalExemptedSales"`

	MonthlyBreakdown []MonthResult `json:"monthlyBreakdown"`
	Recommendations  []string      `json:"recommendations"`
}
