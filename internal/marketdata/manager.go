package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Manager combines the market data sources behind one façade: Polygon
// first for ADR quotes when a key is configured, Yahoo as fallback, BCB
// for FX and SELIC, Yahoo for index history.
type Manager struct {
	polygon *PolygonClient
	yahoo   *YahooClient
	bcb     *BCBClient
}

// NewManager wires the three clients together.
func NewManager(polygon *PolygonClient, yahoo *YahooClient, bcb *BCBClient) *Manager {
	return &Manager{polygon: polygon, yahoo: yahoo, bcb: bcb}
}

// FetchQuote returns the latest USD quote for an ADR ticker.
func (m *Manager) FetchQuote(ticker string) (Quote, error) {
	if m.polygon.Enabled() {
		quote, err := m.polygon.GetQuote(ticker)
		if err == nil {
			return quote, nil
		}
	}
	return m.yahoo.GetQuote(ticker)
}

// FetchLatestRate returns the most recent published USD/BRL PTAX rate
// and its date.
func (m *Manager) FetchLatestRate() (decimal.Decimal, time.Time, error) {
	return m.bcb.GetLatestRate()
}

// FetchRateHistory returns PTAX rates keyed by YYYY-MM-DD for a range.
func (m *Manager) FetchRateHistory(start, end time.Time) (map[string]decimal.Decimal, error) {
	return m.bcb.GetRateHistory(start, end)
}

// FetchSelicRate returns the latest annualized SELIC rate.
func (m *Manager) FetchSelicRate() (decimal.Decimal, error) {
	return m.bcb.GetSelicRate()
}

// FetchIndexHistory returns daily closes for a market index.
func (m *Manager) FetchIndexHistory(symbol string, days int) ([]IndexPoint, error) {
	return m.yahoo.GetIndexHistory(symbol, days)
}
