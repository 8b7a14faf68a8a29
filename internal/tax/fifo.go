package tax

import (
	"errors"

	"github.com/shopspring/decimal"
)

// fifoGainLoss realizes the sell's remaining (non-day-trade) quantity against
// the ticker's inventory, oldest lot first. Each consumed slice is valued at
// its own recorded exchange rate on the cost side and at the sell's rate on
// the sale side; the rates are not assumed equal.
//
// An exhausted inventory is reported as an *IntegrityError carrying the
// offending transaction's context.
func fifoGainLoss(sell *txState, inv *Inventory) (decimal.Decimal, error) {
	qty := sell.remaining

	costBRL, _, err := inv.Consume(sell.tx.Ticker, qty)
	if err != nil {
		var integrity *IntegrityError
		if errors.As(err, &integrity) {
			integrity.Date = sell.tx.Date
			integrity.TransactionID = sell.tx.ID
		}
		return decimal.Zero, err
	}

	saleBRL := sell.tx.valueBRL(qty)
	return saleBRL.Sub(costBRL), nil
}
