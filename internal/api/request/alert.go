package request

import "github.com/shopspring/decimal"

// CreateAlertRequest registers a price alert.
type CreateAlertRequest struct {
	Ticker      string          `json:"ticker"`
	Condition   string          `json:"condition"`
	TargetValue decimal.Decimal `json:"targetValue"`
	Channel     string          `json:"channel"`
	WebhookURL  string          `json:"webhookUrl"`
}
