package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxReport persists one computed yearly summary per (user, year). The
// full engine output is stored as JSON; the headline numbers are
// denormalized for listing and for carryforward lookups.
type TaxReport struct {
	ID                        string          `json:"id"`
	UserID                    string          `json:"userId"`
	Year                      int             `json:"year"`
	TaxOwed                   decimal.Decimal `json:"taxOwed"`
	NetGains                  decimal.Decimal `json:"netGains"`
	CompensableLosses         decimal.Decimal `json:"compensableLosses"`
	DayTradeCompensableLosses decimal.Decimal `json:"dayTradeCompensableLosses"`
	SummaryJSON               string          `json:"-"`
	CreatedAt                 time.Time       `json:"createdAt,omitempty"`
}
