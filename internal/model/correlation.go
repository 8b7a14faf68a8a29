package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketCorrelation stores the S&P 500 vs Ibovespa correlation computed
// from daily index returns.
type MarketCorrelation struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"` // YYYY-MM-DD
	Correlation30D decimal.Decimal `json:"correlation30d"`
	Correlation7D  decimal.Decimal `json:"correlation7d"`
	SP500Return    decimal.Decimal `json:"sp500Return"`
	IbovespaReturn decimal.Decimal `json:"ibovespaReturn"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

// CorrelationReport is the API view of a stored correlation with derived
// classification and commentary.
type CorrelationReport struct {
	MarketCorrelation
	Strength string `json:"strength"` // high, medium, low
	Trend    string `json:"trend"`    // strengthening, weakening, stable
	Insight  string `json:"insight"`
}
