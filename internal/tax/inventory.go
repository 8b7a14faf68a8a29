package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is an open inventory entry created by a buy that was not consumed as a
// day trade. Quantity decreases monotonically as sells drain it; a lot is
// dropped once its quantity reaches zero.
type Lot struct {
	Quantity     decimal.Decimal
	PriceUSD     decimal.Decimal
	ExchangeRate decimal.Decimal
	Date         time.Time
}

// Inventory holds the per-ticker FIFO queues of open lots. Each engine run
// owns exactly one Inventory; lots are never shared.
type Inventory struct {
	lots map[string][]Lot
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{lots: make(map[string][]Lot)}
}

// Add appends a lot to the tail of the ticker's queue.
func (inv *Inventory) Add(ticker string, lot Lot) {
	inv.lots[ticker] = append(inv.lots[ticker], lot)
}

// Available returns the total open quantity held for the ticker.
func (inv *Inventory) Available(ticker string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range inv.lots[ticker] {
		total = total.Add(lot.Quantity)
	}
	return total
}

// Lots returns a copy of the ticker's open lots, oldest first.
func (inv *Inventory) Lots(ticker string) []Lot {
	src := inv.lots[ticker]
	out := make([]Lot, len(src))
	copy(out, src)
	return out
}

// Consume drains qty from the head of the ticker's queue, splitting the head
// lot when it is larger than requested. It returns the consumed cost basis in
// BRL (each slice converted at its lot's own recorded rate) and in USD.
//
// Consuming more than Available is a data-integrity violation: Consume
// returns an *IntegrityError and leaves the inventory untouched.
func (inv *Inventory) Consume(ticker string, qty decimal.Decimal) (costBRL, costUSD decimal.Decimal, err error) {
	if available := inv.Available(ticker); qty.GreaterThan(available) {
		return decimal.Zero, decimal.Zero, &IntegrityError{
			Ticker:    ticker,
			Requested: qty,
			Available: available,
		}
	}

	remaining := qty
	queue := inv.lots[ticker]

	for remaining.IsPositive() && len(queue) > 0 {
		lot := &queue[0]

		used := lot.Quantity
		if used.GreaterThan(remaining) {
			used = remaining
		}

		costUSD = costUSD.Add(used.Mul(lot.PriceUSD))
		costBRL = costBRL.Add(used.Mul(lot.PriceUSD).Mul(lot.ExchangeRate))

		lot.Quantity = lot.Quantity.Sub(used)
		remaining = remaining.Sub(used)

		if lot.Quantity.IsZero() {
			queue = queue[1:]
		}
	}

	inv.lots[ticker] = queue
	return costBRL, costUSD, nil
}
