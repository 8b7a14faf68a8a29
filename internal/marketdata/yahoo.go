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

// YahooClient fetches quotes and index history from the Yahoo Finance
// chart API. It serves as the fallback quote source and the only source
// for index closes.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooClient creates a Yahoo Finance client with default HTTP settings.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

type yahooChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		PreviousClose      float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yahooResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches the latest price for a symbol from the 5-day chart.
func (c *YahooClient) GetQuote(symbol string) (Quote, error) {
	result, err := c.queryChart(symbol, "5d")
	if err != nil {
		return Quote{}, err
	}

	if result.Meta.RegularMarketPrice == 0 {
		return Quote{}, fmt.Errorf("no market price returned for symbol %s", symbol)
	}

	var volume int64
	if len(result.Indicators.Quote) > 0 {
		volumes := result.Indicators.Quote[0].Volume
		if len(volumes) > 0 {
			volume = volumes[len(volumes)-1]
		}
	}

	change := decimal.Zero
	if result.Meta.PreviousClose > 0 {
		price := decimal.NewFromFloat(result.Meta.RegularMarketPrice)
		prev := decimal.NewFromFloat(result.Meta.PreviousClose)
		change = price.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
	}

	return Quote{
		Ticker:           symbol,
		PriceUSD:         decimal.NewFromFloat(result.Meta.RegularMarketPrice),
		Volume:           volume,
		DayChangePercent: change,
		Timestamp:        time.Now().UTC(),
		Source:           "yahoo",
	}, nil
}

// GetIndexHistory fetches daily closes for an index over the last n days.
// Null closes on non-trading days are skipped.
func (c *YahooClient) GetIndexHistory(symbol string, days int) ([]IndexPoint, error) {
	result, err := c.queryChart(symbol, fmt.Sprintf("%dd", days))
	if err != nil {
		return nil, err
	}

	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no price data returned for symbol %s", symbol)
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for symbol %s", symbol)
	}

	points := make([]IndexPoint, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == 0 {
			continue
		}
		points = append(points, IndexPoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}
	return points, nil
}

func (c *YahooClient) queryChart(symbol, rangeStr string) (*yahooChartResult, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.baseURL, url.PathEscape(symbol), rangeStr)

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response yahooResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return &response.Chart.Result[0], nil
}
