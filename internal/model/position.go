package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position represents a user's current holding in one ticker.
type Position struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Ticker      string          `json:"ticker"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgPriceUSD decimal.Decimal `json:"avgPriceUsd"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// PositionValue is a position enriched with the latest quote for API
// responses.
type PositionValue struct {
	Position
	CurrentPriceUSD decimal.Decimal `json:"currentPriceUsd"`
	CurrentValueUSD decimal.Decimal `json:"currentValueUsd"`
	CurrentValueBRL decimal.Decimal `json:"currentValueBrl"`
	CostUSD         decimal.Decimal `json:"costUsd"`
	GainLossUSD     decimal.Decimal `json:"gainLossUsd"`
	GainLossPercent decimal.Decimal `json:"gainLossPercent"`
}

// PortfolioSummary aggregates a user's positions at current quotes.
type PortfolioSummary struct {
	Positions       []PositionValue `json:"positions"`
	TotalValueUSD   decimal.Decimal `json:"totalValueUsd"`
	TotalValueBRL   decimal.Decimal `json:"totalValueBrl"`
	TotalCostUSD    decimal.Decimal `json:"totalCostUsd"`
	TotalGainUSD    decimal.Decimal `json:"totalGainUsd"`
	GainLossPercent decimal.Decimal `json:"gainLossPercent"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
}

// DollarImpactDashboard combines the portfolio view with market context
// for the dashboard endpoint.
type DollarImpactDashboard struct {
	Summary         PortfolioSummary  `json:"summary"`
	Correlation     MarketCorrelation `json:"correlation"`
	ActiveAlerts    int               `json:"activeAlerts"`
	TriggeredAlerts int               `json:"triggeredAlerts"`
	Recommendations []string          `json:"recommendations"`
}
