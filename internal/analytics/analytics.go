// Package analytics computes portfolio risk metrics from position values
// and daily price series. All statistics run on float64; monetary
// precision is not required here.
package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear annualizes daily volatility.
const tradingDaysPerYear = 252

// Holding is one position valued at current quotes. USD reports whether
// the asset is dollar-denominated.
type Holding struct {
	Ticker   string
	ValueUSD float64
	USD      bool
}

// Concentration describes how the portfolio's value distributes across
// its largest holdings, in percent of total value.
type Concentration struct {
	TopHolding        string  `json:"topHolding"`
	TopHoldingPercent float64 `json:"topHoldingPercent"`
	Top3Percent       float64 `json:"top3Percent"`
	Top5Percent       float64 `json:"top5Percent"`
}

// RiskReport is the analytics endpoint's payload.
type RiskReport struct {
	AnnualizedVolatility float64       `json:"annualizedVolatility"`
	Beta                 float64       `json:"beta"`
	VaR95                float64       `json:"var95"`
	ExpectedShortfall    float64       `json:"expectedShortfall"`
	DiversificationScore float64       `json:"diversificationScore"`
	USDExposurePercent   float64       `json:"usdExposurePercent"`
	Concentration        Concentration `json:"concentration"`
	Recommendations      []string      `json:"recommendations"`
}

// DailyReturns converts a close series into simple daily returns.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// AnnualizedVolatility scales the daily return standard deviation to a
// yearly horizon.
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
}

// Beta measures the portfolio's sensitivity to market returns. The two
// series must be aligned and equally long.
func Beta(portfolio, market []float64) float64 {
	if len(portfolio) < 2 || len(portfolio) != len(market) {
		return 0
	}
	marketVar := stat.Variance(market, nil)
	if marketVar == 0 {
		return 0
	}
	return stat.Covariance(portfolio, market, nil) / marketVar
}

// Correlation is the Pearson correlation of two aligned return series.
func Correlation(a, b []float64) float64 {
	if len(a) < 2 || len(a) != len(b) {
		return 0
	}
	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// VaR95 is the 5th percentile daily return, reported as a positive loss
// fraction.
func VaR95(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	q := stat.Quantile(0.05, stat.Empirical, sorted, nil)
	if q >= 0 {
		return 0
	}
	return -q
}

// ExpectedShortfall averages the returns at or below the VaR cutoff,
// reported as a positive loss fraction.
func ExpectedShortfall(returns []float64) float64 {
	v := VaR95(returns)
	if v == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, r := range returns {
		if r <= -v {
			sum += r
			n++
		}
	}
	if n == 0 {
		return v
	}
	return -sum / float64(n)
}

// DiversificationScore maps the Herfindahl-Hirschman index of position
// weights onto 0-100. A single holding scores 0; an evenly spread
// portfolio approaches 100.
func DiversificationScore(holdings []Holding) float64 {
	total := totalValue(holdings)
	if total == 0 {
		return 0
	}
	var hhi float64
	for _, h := range holdings {
		w := h.ValueUSD / total
		hhi += w * w
	}
	return (1 - hhi) * 100
}

// USDExposure is the dollar-denominated share of the portfolio in
// percent.
func USDExposure(holdings []Holding) float64 {
	total := totalValue(holdings)
	if total == 0 {
		return 0
	}
	var usd float64
	for _, h := range holdings {
		if h.USD {
			usd += h.ValueUSD
		}
	}
	return usd / total * 100
}

// Concentrate ranks holdings by value and reports the largest blocks.
func Concentrate(holdings []Holding) Concentration {
	total := totalValue(holdings)
	if total == 0 {
		return Concentration{}
	}

	ranked := append([]Holding(nil), holdings...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ValueUSD != ranked[j].ValueUSD {
			return ranked[i].ValueUSD > ranked[j].ValueUSD
		}
		return ranked[i].Ticker < ranked[j].Ticker
	})

	var c Concentration
	c.TopHolding = ranked[0].Ticker
	for i, h := range ranked {
		pct := h.ValueUSD / total * 100
		if i == 0 {
			c.TopHoldingPercent = pct
		}
		if i < 3 {
			c.Top3Percent += pct
		}
		if i < 5 {
			c.Top5Percent += pct
		}
	}
	return c
}

func totalValue(holdings []Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += h.ValueUSD
	}
	return total
}
