package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IntegrityError reports a sell that requested more quantity than the ticker's
// inventory held at that point in processing. It is fatal to the computation:
// clamping or skipping the sell would misstate realized gains.
type IntegrityError struct {
	Ticker        string
	Date          time.Time
	TransactionID string
	Requested     decimal.Decimal
	Available     decimal.Decimal
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf(
		"oversold %s on %s (transaction %s): requested %s, inventory holds %s",
		e.Ticker,
		e.Date.Format("2006-01-02"),
		e.TransactionID,
		e.Requested.String(),
		e.Available.String(),
	)
}

// ValidationError reports a malformed transaction rejected at the ingestion
// boundary, before any lot accounting runs.
type ValidationError struct {
	TransactionID string
	Ticker        string
	Date          time.Time
	Reason        string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(
		"invalid transaction %s (%s, %s): %s",
		e.TransactionID,
		e.Ticker,
		e.Date.Format("2006-01-02"),
		e.Reason,
	)
}
