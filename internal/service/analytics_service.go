package service

import (
	"time"

	"github.com/financeapi-br/backend/internal/analytics"
	"github.com/financeapi-br/backend/internal/marketdata"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
)

// historyWindowDays is the lookback for return series.
const historyWindowDays = 45

// AnalyticsService builds the portfolio risk report from stored
// positions, quote history and the Ibovespa series.
type AnalyticsService struct {
	positionRepo *repository.PositionRepository
	quoteRepo    *repository.QuoteRepository
	quotes       *QuoteService
	fetcher      IndexFetcher
}

// NewAnalyticsService creates a new AnalyticsService with the provided dependencies.
func NewAnalyticsService(
	positionRepo *repository.PositionRepository,
	quoteRepo *repository.QuoteRepository,
	quotes *QuoteService,
	fetcher IndexFetcher,
) *AnalyticsService {
	return &AnalyticsService{
		positionRepo: positionRepo,
		quoteRepo:    quoteRepo,
		quotes:       quotes,
		fetcher:      fetcher,
	}
}

// GetRiskReport values the user's holdings and computes the risk
// metrics. Missing history degrades gracefully: the report still carries
// exposure, concentration and diversification.
func (s *AnalyticsService) GetRiskReport(userID string) (analytics.RiskReport, error) {
	positions, err := s.positionRepo.GetPositionsForUser(userID)
	if err != nil {
		return analytics.RiskReport{}, err
	}

	holdings := make([]analytics.Holding, 0, len(positions))
	for _, p := range positions {
		quote, err := s.quotes.GetQuote(p.Ticker)
		if err != nil {
			return analytics.RiskReport{}, err
		}
		holdings = append(holdings, analytics.Holding{
			Ticker:   p.Ticker,
			ValueUSD: p.Quantity.Mul(quote.PriceUSD).InexactFloat64(),
			USD:      true,
		})
	}

	portfolioReturns := s.portfolioReturns(positions, holdings)
	marketReturns := s.marketReturns()

	n := min(len(portfolioReturns), len(marketReturns))
	if n > 0 {
		portfolioReturns = portfolioReturns[len(portfolioReturns)-n:]
		marketReturns = marketReturns[len(marketReturns)-n:]
	}

	return analytics.BuildReport(holdings, portfolioReturns, marketReturns), nil
}

// portfolioReturns builds a value-weighted daily return series from the
// stored quote history of each held ticker.
func (s *AnalyticsService) portfolioReturns(positions []model.Position, holdings []analytics.Holding) []float64 {
	since := time.Now().UTC().AddDate(0, 0, -historyWindowDays)

	var total float64
	for _, h := range holdings {
		total += h.ValueUSD
	}
	if total == 0 {
		return nil
	}

	var weighted []float64
	for i, p := range positions {
		history, err := s.quoteRepo.GetQuoteHistory(p.Ticker, since)
		if err != nil || len(history) < 2 {
			continue
		}

		closes := make([]float64, len(history))
		for j, q := range history {
			closes[j] = q.PriceUSD.InexactFloat64()
		}
		returns := analytics.DailyReturns(closes)
		weight := holdings[i].ValueUSD / total

		if weighted == nil {
			weighted = make([]float64, len(returns))
		}
		n := min(len(weighted), len(returns))
		for j := 0; j < n; j++ {
			weighted[len(weighted)-1-j] += weight * returns[len(returns)-1-j]
		}
	}
	return weighted
}

func (s *AnalyticsService) marketReturns() []float64 {
	history, err := s.fetcher.FetchIndexHistory(marketdata.SymbolIbovespa, historyWindowDays)
	if err != nil || len(history) < 2 {
		return nil
	}
	closes := make([]float64, len(history))
	for i, p := range history {
		closes[i] = p.Close
	}
	return analytics.DailyReturns(closes)
}
