package tax

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// txState is the engine's mutable working copy of one ledger entry. The
// remaining quantity shrinks as the day-trade matcher pairs it; dayTrade is
// set once any portion of the transaction has been matched.
type txState struct {
	tx        Transaction
	remaining decimal.Decimal
	dayTrade  bool
}

// Engine computes a year's tax liability from a transaction ledger.
type Engine struct {
	params Params
}

// NewEngine returns an engine applying the given rates and thresholds.
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// ValidateTransactions rejects malformed ledger entries before any lot
// accounting runs: non-positive quantity, price or rate, negative fees,
// unknown trade types and dates outside the requested year.
func ValidateTransactions(year int, transactions []Transaction) error {
	for _, t := range transactions {
		reason := ""
		switch {
		case t.Type != Buy && t.Type != Sell:
			reason = fmt.Sprintf("type must be BUY or SELL, got %q", t.Type)
		case !t.Quantity.IsPositive():
			reason = "quantity must be positive"
		case !t.PriceUSD.IsPositive():
			reason = "price must be positive"
		case !t.ExchangeRate.IsPositive():
			reason = "exchange rate must be positive"
		case t.BrokerageFee.IsNegative():
			reason = "brokerage fee cannot be negative"
		case t.Date.Year() != year:
			reason = fmt.Sprintf("date outside requested year %d", year)
		}
		if reason != "" {
			return &ValidationError{
				TransactionID: t.ID,
				Ticker:        t.Ticker,
				Date:          t.Date,
				Reason:        reason,
			}
		}
	}
	return nil
}

// Calculate runs the full yearly computation. transactions must be sorted by
// (date, insertion order) ascending. prior supplies last year's compensable
// loss balances; nil means both start at zero.
//
// The computation is a strict fold: months in order, days within a month in
// order, each day running the day-trade matcher before FIFO settlement. The
// same inputs always produce the same YearlySummary.
func (e *Engine) Calculate(year int, transactions []Transaction, prior *YearlySummary) (*YearlySummary, error) {
	if err := ValidateTransactions(year, transactions); err != nil {
		return nil, err
	}

	states := make([]*txState, len(transactions))
	for i, t := range transactions {
		states[i] = &txState{tx: t, remaining: t.Quantity}
	}

	months := make(map[string][]*txState)
	monthKeys := make([]string, 0, 12)
	for _, s := range states {
		key := fmt.Sprintf("%04d-%02d", s.tx.Date.Year(), int(s.tx.Date.Month()))
		if _, seen := months[key]; !seen {
			monthKeys = append(monthKeys, key)
		}
		months[key] = append(months[key], s)
	}
	sort.Strings(monthKeys)

	carry := decimal.Zero
	dayTradeCarry := decimal.Zero
	if prior != nil {
		carry = prior.CompensableLosses
		dayTradeCarry = prior.DayTradeCompensableLosses
	}

	summary := &YearlySummary{Year: year}
	inv := NewInventory()

	for _, key := range monthKeys {
		mr, err := e.calculateMonth(key, months[key], inv, carry, dayTradeCarry)
		if err != nil {
			return nil, err
		}

		summary.MonthlyBreakdown = append(summary.MonthlyBreakdown, mr)
		summary.Gains = summary.Gains.Add(mr.Gains)
		summary.Losses = summary.Losses.Add(mr.Losses)
		summary.DayTradeGains = summary.DayTradeGains.Add(mr.DayTradeGains)
		summary.DayTradeLosses = summary.DayTradeLosses.Add(mr.DayTradeLosses)
		summary.IRRFPaid = summary.IRRFPaid.Add(mr.IRRFPaid)
		summary.TotalExemptedGains = summary.TotalExemptedGains.Add(mr.ExemptedGains)
		summary.TotalExemptedSales = summary.TotalExemptedSales.Add(mr.ExemptedSales)
		summary.PreviousYearLossesUsed = summary.PreviousYearLossesUsed.Add(mr.CompensableLossesUsed)
		summary.PreviousYearDayTradeLossesUsed = summary.PreviousYearDayTradeLossesUsed.Add(mr.DayTradeLossesUsed)

		carry = mr.RemainingCompensableLosses
		dayTradeCarry = mr.RemainingDayTradeLosses
	}

	normalNet := summary.Gains.Sub(summary.Losses)
	dayTradeNet := summary.DayTradeGains.Sub(summary.DayTradeLosses)
	summary.NetGains = normalNet

	normalTax := decimal.Zero
	if normalNet.IsPositive() {
		normalTax = normalNet.Mul(e.params.TaxRate)
	}
	if dayTradeNet.IsPositive() {
		summary.DayTradeTax = dayTradeNet.Mul(e.params.DayTradeTaxRate)
	}

	// IRRF withheld during the year is credited against the combined tax,
	// floored at zero.
	owed := normalTax.Add(summary.DayTradeTax).Sub(summary.IRRFPaid)
	if owed.IsNegative() {
		owed = decimal.Zero
	}
	summary.TaxOwed = owed

	if normalNet.IsNegative() {
		summary.CompensableLosses = normalNet.Abs()
	}
	if dayTradeNet.IsNegative() {
		summary.DayTradeCompensableLosses = dayTradeNet.Abs()
	}

	summary.Recommendations = e.recommendations(summary)

	return summary, nil
}

// calculateMonth folds one month's transactions, day by day. carry and
// dayTradeCarry are the compensable-loss balances entering the month; the
// returned MonthResult carries the updated balances out.
func (e *Engine) calculateMonth(month string, txs []*txState, inv *Inventory, carry, dayTradeCarry decimal.Decimal) (MonthResult, error) {
	days := make(map[string][]*txState)
	dayKeys := make([]string, 0, len(txs))
	for _, s := range txs {
		key := s.tx.Date.Format("2006-01-02")
		if _, seen := days[key]; !seen {
			dayKeys = append(dayKeys, key)
		}
		days[key] = append(days[key], s)
	}
	sort.Strings(dayKeys)

	var gains, losses, sales, dayTradeGains, dayTradeLosses, irrf decimal.Decimal
	var carryUsed, dayTradeCarryUsed decimal.Decimal

	for _, key := range dayKeys {
		day := days[key]

		matched := matchDayTrades(day)

		// Day-trade losses carried from prior periods offset the day's
		// matched gains first, capped at the available gain.
		if matched.gains.IsPositive() && dayTradeCarry.IsPositive() {
			use := decimal.Min(matched.gains, dayTradeCarry)
			matched.gains = matched.gains.Sub(use)
			dayTradeCarry = dayTradeCarry.Sub(use)
			dayTradeCarryUsed = dayTradeCarryUsed.Add(use)
		}
		dayTradeGains = dayTradeGains.Add(matched.gains)
		dayTradeLosses = dayTradeLosses.Add(matched.losses)

		for _, t := range day {
			switch t.tx.Type {
			case Sell:
				// IRRF and sales volume apply to every sell; the
				// day-traded portion has already been netted out of
				// remaining, so it never counts toward the swing
				// exemption.
				saleValue := t.tx.valueBRL(t.remaining).Add(t.tx.BrokerageFee)
				irrf = irrf.Add(saleValue.Mul(e.params.IRRFRate))
				sales = sales.Add(saleValue)

				if !t.remaining.IsPositive() {
					continue
				}

				gainLoss, err := fifoGainLoss(t, inv)
				if err != nil {
					return MonthResult{}, err
				}

				if gainLoss.IsPositive() {
					if carry.IsPositive() {
						use := decimal.Min(gainLoss, carry)
						gainLoss = gainLoss.Sub(use)
						carry = carry.Sub(use)
						carryUsed = carryUsed.Add(use)
					}
					gains = gains.Add(gainLoss)
				} else {
					losses = losses.Add(gainLoss.Abs())
				}

			case Buy:
				if t.remaining.IsPositive() {
					inv.Add(t.tx.Ticker, Lot{
						Quantity:     t.remaining,
						PriceUSD:     t.tx.PriceUSD,
						ExchangeRate: t.tx.ExchangeRate,
						Date:         t.tx.Date,
					})
				}
			}
		}
	}

	net := gains.Sub(losses)

	result := MonthResult{
		Month:          month,
		Gains:          gains,
		Losses:         losses,
		NetGains:       net,
		SalesTotal:     sales,
		DayTradeGains:  dayTradeGains,
		DayTradeLosses: dayTradeLosses,
		IRRFPaid:       irrf,
		Exempt:         sales.LessThanOrEqual(e.params.ExemptionFlagLimit),

		RemainingCompensableLosses: carry,
		RemainingDayTradeLosses:    dayTradeCarry,
		CompensableLossesUsed:      carryUsed,
		DayTradeLossesUsed:         dayTradeCarryUsed,
	}

	// A positive net gain is fully exempt when the month's sales stayed
	// inside the swing-trade ceiling; one cent above taxes the whole net
	// gain, not just the excess.
	switch {
	case net.IsPositive() && sales.LessThanOrEqual(e.params.SwingTradeExemption):
		result.ExemptedGains = net
		result.ExemptedSales = sales
	case net.IsPositive():
		result.TaxableGains = net
	}

	return result, nil
}
