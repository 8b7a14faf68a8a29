package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents one day's USD/BRL rate. Date is unique per source.
type ExchangeRate struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
}
