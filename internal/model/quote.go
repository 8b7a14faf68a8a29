package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ADRQuote represents a stored quote for a supported Brazilian ADR.
// PriceBRL is derived from PriceUSD and the exchange rate captured at
// fetch time.
type ADRQuote struct {
	ID               string          `json:"id"`
	Ticker           string          `json:"ticker"`
	PriceUSD         decimal.Decimal `json:"priceUsd"`
	PriceBRL         decimal.Decimal `json:"priceBrl"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	Volume           int64           `json:"volume"`
	DayChangePercent decimal.Decimal `json:"dayChangePercent"`
	Timestamp        time.Time       `json:"timestamp"`
	Source           string          `json:"source"`
	DelayMinutes     int             `json:"delayMinutes"`
}
