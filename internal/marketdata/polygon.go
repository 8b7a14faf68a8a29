package marketdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// PolygonClient fetches previous-close aggregates from the Polygon API.
// It is the primary quote source when an API key is configured.
type PolygonClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewPolygonClient creates a Polygon client. An empty apiKey disables the
// client; callers fall back to Yahoo.
func NewPolygonClient(apiKey string) *PolygonClient {
	return &PolygonClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.polygon.io",
		apiKey:     apiKey,
	}
}

// Enabled reports whether an API key is configured.
func (c *PolygonClient) Enabled() bool {
	return c.apiKey != ""
}

type polygonPrevCloseResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Close    float64 `json:"c"`
		Open     float64 `json:"o"`
		Volume   float64 `json:"v"`
		UnixMsec int64   `json:"t"`
	} `json:"results"`
}

// GetQuote fetches the previous trading day's close for a ticker.
func (c *PolygonClient) GetQuote(ticker string) (Quote, error) {
	reqURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/prev?adjusted=true&apiKey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("polygon returned status %d for %s", resp.StatusCode, ticker)
	}

	var response polygonPrevCloseResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return Quote{}, err
	}
	if len(response.Results) == 0 {
		return Quote{}, fmt.Errorf("no results returned for ticker %s", ticker)
	}

	result := response.Results[0]
	price := decimal.NewFromFloat(result.Close)

	change := decimal.Zero
	if result.Open > 0 {
		open := decimal.NewFromFloat(result.Open)
		change = price.Sub(open).Div(open).Mul(decimal.NewFromInt(100))
	}

	return Quote{
		Ticker:           ticker,
		PriceUSD:         price,
		Volume:           int64(result.Volume),
		DayChangePercent: change,
		Timestamp:        time.UnixMilli(result.UnixMsec).UTC(),
		Source:           "polygon",
	}, nil
}
