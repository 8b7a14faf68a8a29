package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one buy or sell in a user's ADR ledger.
// EncryptedData holds the fernet-encrypted broker notes payload; it is
// never returned to clients in encrypted form.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Ticker        string          `json:"ticker"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PriceUSD      decimal.Decimal `json:"priceUsd"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	Date          time.Time       `json:"date"`
	BrokerageFee  decimal.Decimal `json:"brokerageFee"`
	EncryptedData string          `json:"-"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

// TransactionResponse is a transaction with the broker notes decrypted
// for API responses.
type TransactionResponse struct {
	Transaction
	Notes string `json:"notes,omitempty"`
}
