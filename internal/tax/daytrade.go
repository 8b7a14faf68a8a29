package tax

import "github.com/shopspring/decimal"

// dayTradeResult accumulates the matched gains and losses for one day.
type dayTradeResult struct {
	gains  decimal.Decimal
	losses decimal.Decimal
}

// matchDayTrades pairs same-day buys and sells of the same ticker. Matching
// is greedy in list order: the first buy is drained against sells in order,
// then the second buy, and so on. This mirrors the legacy behavior; it is not
// necessarily the legally mandated matching order, and is kept for output
// compatibility.
//
// Both legs of a match are decremented by the matched quantity and flagged as
// day trades. Unmatched remainders keep flowing through the normal path:
// buys into inventory, sells into FIFO.
func matchDayTrades(day []*txState) dayTradeResult {
	var result dayTradeResult

	byTicker := make(map[string][]*txState)
	order := make([]string, 0, len(day))
	for _, t := range day {
		if _, seen := byTicker[t.tx.Ticker]; !seen {
			order = append(order, t.tx.Ticker)
		}
		byTicker[t.tx.Ticker] = append(byTicker[t.tx.Ticker], t)
	}

	for _, ticker := range order {
		var buys, sells []*txState
		for _, t := range byTicker[ticker] {
			switch t.tx.Type {
			case Buy:
				buys = append(buys, t)
			case Sell:
				sells = append(sells, t)
			}
		}

		for _, buy := range buys {
			for _, sell := range sells {
				if !buy.remaining.IsPositive() || !sell.remaining.IsPositive() {
					continue
				}

				qty := decimal.Min(buy.remaining, sell.remaining)

				// Home-currency conversion happens here, each leg at
				// its own recorded rate.
				gainLoss := sell.tx.valueBRL(qty).Sub(buy.tx.valueBRL(qty))

				buy.remaining = buy.remaining.Sub(qty)
				sell.remaining = sell.remaining.Sub(qty)
				buy.dayTrade = true
				sell.dayTrade = true

				if gainLoss.IsPositive() {
					result.gains = result.gains.Add(gainLoss)
				} else {
					result.losses = result.losses.Add(gainLoss.Abs())
				}
			}
		}
	}

	return result
}
