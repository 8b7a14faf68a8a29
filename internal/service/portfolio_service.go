package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/validation"
)

var hundred = decimal.NewFromInt(100)

// PortfolioService maintains positions and builds the valuation views.
type PortfolioService struct {
	positionRepo *repository.PositionRepository
	alertRepo    *repository.AlertRepository
	quotes       *QuoteService
	correlations *CorrelationService
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	positionRepo *repository.PositionRepository,
	alertRepo *repository.AlertRepository,
	quotes *QuoteService,
	correlations *CorrelationService,
) *PortfolioService {
	return &PortfolioService{
		positionRepo: positionRepo,
		alertRepo:    alertRepo,
		quotes:       quotes,
		correlations: correlations,
	}
}

// UpsertPosition sets the user's holding for a ticker.
func (s *PortfolioService) UpsertPosition(userID string, req request.UpsertPositionRequest) (model.Position, error) {
	if err := validation.ValidateUpsertPosition(req); err != nil {
		return model.Position{}, err
	}

	position := model.Position{
		ID:          uuid.New().String(),
		UserID:      userID,
		Ticker:      req.Ticker,
		Quantity:    req.Quantity,
		AvgPriceUSD: req.AvgPriceUSD,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.positionRepo.UpsertPosition(position); err != nil {
		return model.Position{}, err
	}
	return position, nil
}

// GetPositions returns the user's raw holdings.
func (s *PortfolioService) GetPositions(userID string) ([]model.Position, error) {
	return s.positionRepo.GetPositionsForUser(userID)
}

// DeletePosition removes a holding.
func (s *PortfolioService) DeletePosition(userID, ticker string) error {
	return s.positionRepo.DeletePosition(userID, ticker)
}

// GetSummary values the user's holdings at the latest quotes.
func (s *PortfolioService) GetSummary(userID string) (model.PortfolioSummary, error) {
	positions, err := s.positionRepo.GetPositionsForUser(userID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{Positions: []model.PositionValue{}}
	for _, p := range positions {
		quote, err := s.quotes.GetQuote(p.Ticker)
		if err != nil {
			return model.PortfolioSummary{}, err
		}

		value := model.PositionValue{
			Position:        p,
			CurrentPriceUSD: quote.PriceUSD,
			CurrentValueUSD: p.Quantity.Mul(quote.PriceUSD),
			CurrentValueBRL: p.Quantity.Mul(quote.PriceBRL),
			CostUSD:         p.Quantity.Mul(p.AvgPriceUSD),
		}
		value.GainLossUSD = value.CurrentValueUSD.Sub(value.CostUSD)
		if value.CostUSD.IsPositive() {
			value.GainLossPercent = value.GainLossUSD.Div(value.CostUSD).Mul(hundred)
		}

		summary.Positions = append(summary.Positions, value)
		summary.TotalValueUSD = summary.TotalValueUSD.Add(value.CurrentValueUSD)
		summary.TotalValueBRL = summary.TotalValueBRL.Add(value.CurrentValueBRL)
		summary.TotalCostUSD = summary.TotalCostUSD.Add(value.CostUSD)
		summary.ExchangeRate = quote.ExchangeRate
	}

	summary.TotalGainUSD = summary.TotalValueUSD.Sub(summary.TotalCostUSD)
	if summary.TotalCostUSD.IsPositive() {
		summary.GainLossPercent = summary.TotalGainUSD.Div(summary.TotalCostUSD).Mul(hundred)
	}
	return summary, nil
}

// GetDashboard combines the portfolio summary with market context: the
// stored index correlation, alert counts and correlation commentary.
func (s *PortfolioService) GetDashboard(userID string) (model.DollarImpactDashboard, error) {
	summary, err := s.GetSummary(userID)
	if err != nil {
		return model.DollarImpactDashboard{}, err
	}

	dashboard := model.DollarImpactDashboard{Summary: summary}

	report, err := s.correlations.GetReport()
	if err == nil {
		dashboard.Correlation = report.MarketCorrelation
		dashboard.Recommendations = append(dashboard.Recommendations, report.Insight)
	}

	active, triggered, err := s.alertRepo.CountAlertsForUser(userID)
	if err != nil {
		return model.DollarImpactDashboard{}, err
	}
	dashboard.ActiveAlerts = active
	dashboard.TriggeredAlerts = triggered

	return dashboard, nil
}
