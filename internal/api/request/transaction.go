package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest records one ledger entry. ExchangeRate is
// optional; when omitted the stored rate for the transaction date is
// used. Notes are encrypted before storage.
type CreateTransactionRequest struct {
	Ticker       string          `json:"ticker"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	PriceUSD     decimal.Decimal `json:"priceUsd"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Date         string          `json:"date"`
	BrokerageFee decimal.Decimal `json:"brokerageFee"`
	Notes        string          `json:"notes,omitempty"`
}
