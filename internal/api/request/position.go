package request

import "github.com/shopspring/decimal"

// UpsertPositionRequest sets a holding for the authenticated user.
type UpsertPositionRequest struct {
	Ticker      string          `json:"ticker"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgPriceUSD decimal.Decimal `json:"avgPriceUsd"`
}
