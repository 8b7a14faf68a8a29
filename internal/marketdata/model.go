package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a fetched USD quote before BRL enrichment and storage.
type Quote struct {
	Ticker           string
	PriceUSD         decimal.Decimal
	Volume           int64
	DayChangePercent decimal.Decimal
	Timestamp        time.Time
	Source           string
}

// IndexPoint is one daily close of a market index.
type IndexPoint struct {
	Date  time.Time
	Close float64
}

// Index symbols used for the correlation series.
const (
	SymbolSP500    = "^GSPC"
	SymbolIbovespa = "^BVSP"
)
