package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/analytics"
	"github.com/financeapi-br/backend/internal/marketdata"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
)

// Correlation strength cutoffs on the absolute 30-day coefficient.
var (
	correlationHigh   = decimal.NewFromFloat(0.7)
	correlationMedium = decimal.NewFromFloat(0.3)
	trendDelta        = decimal.NewFromFloat(0.05)
)

// IndexFetcher is the slice of market data the correlation service needs.
type IndexFetcher interface {
	FetchIndexHistory(symbol string, days int) ([]marketdata.IndexPoint, error)
}

// CorrelationService computes and serves the S&P 500 vs Ibovespa
// correlation.
type CorrelationService struct {
	correlationRepo *repository.CorrelationRepository
	fetcher         IndexFetcher
}

// NewCorrelationService creates a new CorrelationService with the provided dependencies.
func NewCorrelationService(correlationRepo *repository.CorrelationRepository, fetcher IndexFetcher) *CorrelationService {
	return &CorrelationService{correlationRepo: correlationRepo, fetcher: fetcher}
}

// Refresh fetches both index histories, aligns them by trading day and
// stores today's 30-day and 7-day correlations.
func (s *CorrelationService) Refresh() (model.MarketCorrelation, error) {
	// 45 calendar days cover 30 trading days.
	sp500, err := s.fetcher.FetchIndexHistory(marketdata.SymbolSP500, 45)
	if err != nil {
		return model.MarketCorrelation{}, err
	}
	ibovespa, err := s.fetcher.FetchIndexHistory(marketdata.SymbolIbovespa, 45)
	if err != nil {
		return model.MarketCorrelation{}, err
	}

	spCloses, ibovCloses := alignByDay(sp500, ibovespa)
	spReturns := analytics.DailyReturns(spCloses)
	ibovReturns := analytics.DailyReturns(ibovCloses)
	if len(spReturns) < 2 {
		return model.MarketCorrelation{}, fmt.Errorf("not enough aligned index history")
	}

	correlation := model.MarketCorrelation{
		ID:             uuid.New().String(),
		Date:           time.Now().UTC().Format("2006-01-02"),
		Correlation30D: decimal.NewFromFloat(analytics.Correlation(tail(spReturns, 30), tail(ibovReturns, 30))),
		Correlation7D:  decimal.NewFromFloat(analytics.Correlation(tail(spReturns, 7), tail(ibovReturns, 7))),
		SP500Return:    decimal.NewFromFloat(spReturns[len(spReturns)-1]),
		IbovespaReturn: decimal.NewFromFloat(ibovReturns[len(ibovReturns)-1]),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.correlationRepo.UpsertCorrelation(correlation); err != nil {
		return model.MarketCorrelation{}, err
	}
	return correlation, nil
}

// GetReport returns the latest stored correlation with strength and
// trend classification.
func (s *CorrelationService) GetReport() (model.CorrelationReport, error) {
	latest, err := s.correlationRepo.GetLatestCorrelation()
	if err != nil {
		return model.CorrelationReport{}, err
	}

	report := model.CorrelationReport{
		MarketCorrelation: latest,
		Strength:          classifyStrength(latest.Correlation30D),
		Trend:             "stable",
	}

	previous, err := s.correlationRepo.GetPreviousCorrelation(latest.Date)
	if err == nil {
		diff := latest.Correlation30D.Abs().Sub(previous.Correlation30D.Abs())
		switch {
		case diff.GreaterThan(trendDelta):
			report.Trend = "strengthening"
		case diff.LessThan(trendDelta.Neg()):
			report.Trend = "weakening"
		}
	}

	report.Insight = buildInsight(report)
	return report, nil
}

func classifyStrength(c decimal.Decimal) string {
	abs := c.Abs()
	switch {
	case abs.GreaterThanOrEqual(correlationHigh):
		return "high"
	case abs.GreaterThanOrEqual(correlationMedium):
		return "medium"
	default:
		return "low"
	}
}

func buildInsight(r model.CorrelationReport) string {
	switch r.Strength {
	case "high":
		return fmt.Sprintf(
			"Correlação alta (%s) entre S&P 500 e Ibovespa nos últimos 30 dias. "+
				"Movimentos do mercado americano tendem a se refletir nos ADRs brasileiros.",
			r.Correlation30D.StringFixed(2))
	case "medium":
		return fmt.Sprintf(
			"Correlação moderada (%s) entre S&P 500 e Ibovespa. "+
				"Os mercados se movem parcialmente em conjunto.",
			r.Correlation30D.StringFixed(2))
	default:
		return fmt.Sprintf(
			"Correlação baixa (%s) entre S&P 500 e Ibovespa. "+
				"Fatores domésticos dominam o movimento dos ADRs no momento.",
			r.Correlation30D.StringFixed(2))
	}
}

// alignByDay intersects the two series on trading day, preserving order.
func alignByDay(a, b []marketdata.IndexPoint) ([]float64, []float64) {
	byDay := make(map[string]float64, len(b))
	for _, p := range b {
		byDay[p.Date.Format("2006-01-02")] = p.Close
	}

	var aligned, other []float64
	for _, p := range a {
		if close, ok := byDay[p.Date.Format("2006-01-02")]; ok {
			aligned = append(aligned, p.Close)
			other = append(other, close)
		}
	}
	return aligned, other
}

func tail(s []float64, n int) []float64 {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
