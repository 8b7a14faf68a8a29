package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert conditions checked by the scheduler sweep.
const (
	AlertAbove         = "above"
	AlertBelow         = "below"
	AlertChangePercent = "change_percent"
)

// PriceAlert represents a user's standing alert on a ticker. TriggeredAt
// is stamped on first trigger; triggered alerts are skipped until reset.
type PriceAlert struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Ticker      string          `json:"ticker"`
	Condition   string          `json:"condition"`
	TargetValue decimal.Decimal `json:"targetValue"`
	Channel     string          `json:"channel"`
	WebhookURL  string          `json:"webhookUrl,omitempty"`
	Active      bool            `json:"active"`
	TriggeredAt *time.Time      `json:"triggeredAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
