package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/marketdata"
)

// MockMarketData is a mock implementation of the market-data fetcher
// interfaces. It returns predefined data instead of calling Yahoo,
// Polygon or BCB, and counts calls per method.
type MockMarketData struct {
	// Quote returned from FetchQuote when QuoteErr is nil.
	Quote    marketdata.Quote
	QuoteErr error

	// Rate and RateDate returned from FetchLatestRate.
	Rate     decimal.Decimal
	RateDate time.Time
	RateErr  error

	// History returned from FetchRateHistory, keyed by YYYY-MM-DD.
	History map[string]decimal.Decimal

	// Selic returned from FetchSelicRate.
	Selic decimal.Decimal

	// IndexHistories returned from FetchIndexHistory, keyed by symbol.
	IndexHistories map[string][]marketdata.IndexPoint
	IndexErr       error

	QuoteCalls int
	RateCalls  int
	IndexCalls int
}

// NewMockMarketData creates a mock with a usable default quote and rate.
func NewMockMarketData() *MockMarketData {
	return &MockMarketData{
		Quote: marketdata.Quote{
			Ticker:           "VALE",
			PriceUSD:         decimal.RequireFromString("10.50"),
			Volume:           1_200_000,
			DayChangePercent: decimal.RequireFromString("1.25"),
			Timestamp:        time.Now().UTC(),
			Source:           "mock",
		},
		Rate:           decimal.RequireFromString("5.20"),
		RateDate:       time.Now().UTC(),
		Selic:          decimal.RequireFromString("10.50"),
		History:        map[string]decimal.Decimal{},
		IndexHistories: map[string][]marketdata.IndexPoint{},
	}
}

// WithQuote configures the quote returned for any ticker.
func (m *MockMarketData) WithQuote(ticker, priceUSD, dayChange string) *MockMarketData {
	m.Quote = marketdata.Quote{
		Ticker:           ticker,
		PriceUSD:         decimal.RequireFromString(priceUSD),
		Volume:           1_200_000,
		DayChangePercent: decimal.RequireFromString(dayChange),
		Timestamp:        time.Now().UTC(),
		Source:           "mock",
	}
	return m
}

// WithQuoteError makes FetchQuote fail.
func (m *MockMarketData) WithQuoteError(err error) *MockMarketData {
	m.QuoteErr = err
	return m
}

// WithRate configures the latest USD/BRL rate.
func (m *MockMarketData) WithRate(rate string, date time.Time) *MockMarketData {
	m.Rate = decimal.RequireFromString(rate)
	m.RateDate = date
	return m
}

// WithIndexHistory configures FetchIndexHistory for one symbol.
func (m *MockMarketData) WithIndexHistory(symbol string, points []marketdata.IndexPoint) *MockMarketData {
	m.IndexHistories[symbol] = points
	return m
}

// FetchQuote returns the configured quote with the requested ticker.
func (m *MockMarketData) FetchQuote(ticker string) (marketdata.Quote, error) {
	m.QuoteCalls++
	if m.QuoteErr != nil {
		return marketdata.Quote{}, m.QuoteErr
	}
	q := m.Quote
	q.Ticker = ticker
	return q, nil
}

// FetchLatestRate returns the configured rate.
func (m *MockMarketData) FetchLatestRate() (decimal.Decimal, time.Time, error) {
	m.RateCalls++
	if m.RateErr != nil {
		return decimal.Zero, time.Time{}, m.RateErr
	}
	return m.Rate, m.RateDate, nil
}

// FetchRateHistory returns the configured history map.
func (m *MockMarketData) FetchRateHistory(_, _ time.Time) (map[string]decimal.Decimal, error) {
	m.RateCalls++
	if m.RateErr != nil {
		return nil, m.RateErr
	}
	return m.History, nil
}

// FetchSelicRate returns the configured SELIC rate.
func (m *MockMarketData) FetchSelicRate() (decimal.Decimal, error) {
	return m.Selic, nil
}

// FetchIndexHistory returns the configured points for the symbol.
func (m *MockMarketData) FetchIndexHistory(symbol string, _ int) ([]marketdata.IndexPoint, error) {
	m.IndexCalls++
	if m.IndexErr != nil {
		return nil, m.IndexErr
	}
	return m.IndexHistories[symbol], nil
}

// IndexSeries builds daily IndexPoints from closes, one per day starting
// at start.
func IndexSeries(start time.Time, closes ...float64) []marketdata.IndexPoint {
	points := make([]marketdata.IndexPoint, 0, len(closes))
	for i, c := range closes {
		points = append(points, marketdata.IndexPoint{
			Date:  start.AddDate(0, 0, i),
			Close: c,
		})
	}
	return points
}
