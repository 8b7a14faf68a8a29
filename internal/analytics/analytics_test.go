package analytics

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99})

	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}
	if !almostEqual(returns[0], 0.10) {
		t.Errorf("Expected first return 0.10, got %f", returns[0])
	}
	if !almostEqual(returns[1], -0.10) {
		t.Errorf("Expected second return -0.10, got %f", returns[1])
	}

	t.Run("too short a series yields nothing", func(t *testing.T) {
		if DailyReturns([]float64{100}) != nil {
			t.Error("Expected nil for a single close")
		}
	})
}

func TestBeta(t *testing.T) {
	market := []float64{0.01, -0.02, 0.03, -0.01, 0.02}

	t.Run("portfolio moving with the market has beta 1", func(t *testing.T) {
		if b := Beta(market, market); !almostEqual(b, 1) {
			t.Errorf("Expected beta 1, got %f", b)
		}
	})

	t.Run("levered portfolio has proportional beta", func(t *testing.T) {
		levered := make([]float64, len(market))
		for i, r := range market {
			levered[i] = 2 * r
		}
		if b := Beta(levered, market); !almostEqual(b, 2) {
			t.Errorf("Expected beta 2, got %f", b)
		}
	})

	t.Run("mismatched series yield zero", func(t *testing.T) {
		if b := Beta(market[:3], market); b != 0 {
			t.Errorf("Expected beta 0, got %f", b)
		}
	})
}

func TestCorrelation(t *testing.T) {
	a := []float64{0.01, -0.02, 0.03, -0.01, 0.02}

	if c := Correlation(a, a); !almostEqual(c, 1) {
		t.Errorf("Expected correlation 1 with itself, got %f", c)
	}

	inverse := make([]float64, len(a))
	for i, r := range a {
		inverse[i] = -r
	}
	if c := Correlation(a, inverse); !almostEqual(c, -1) {
		t.Errorf("Expected correlation -1 with the inverse, got %f", c)
	}
}

func TestVaR95AndExpectedShortfall(t *testing.T) {
	// 20 returns, exactly one at -5%: the 5th percentile lands on it.
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = 0.01
	}
	returns[7] = -0.05

	v := VaR95(returns)
	if v <= 0 {
		t.Fatalf("Expected positive VaR, got %f", v)
	}

	es := ExpectedShortfall(returns)
	if !almostEqual(es, 0.05) {
		t.Errorf("Expected shortfall 0.05, got %f", es)
	}

	t.Run("all-positive returns carry no VaR", func(t *testing.T) {
		flat := []float64{0.01, 0.02, 0.01, 0.03}
		if v := VaR95(flat); v != 0 {
			t.Errorf("Expected VaR 0, got %f", v)
		}
	})
}

func TestDiversificationScore(t *testing.T) {
	t.Run("single holding scores zero", func(t *testing.T) {
		score := DiversificationScore([]Holding{{Ticker: "VALE", ValueUSD: 1000, USD: true}})
		if score != 0 {
			t.Errorf("Expected score 0, got %f", score)
		}
	})

	t.Run("even split scores higher with more holdings", func(t *testing.T) {
		two := DiversificationScore([]Holding{
			{Ticker: "VALE", ValueUSD: 500, USD: true},
			{Ticker: "ITUB", ValueUSD: 500, USD: true},
		})
		four := DiversificationScore([]Holding{
			{Ticker: "VALE", ValueUSD: 250, USD: true},
			{Ticker: "ITUB", ValueUSD: 250, USD: true},
			{Ticker: "PBR", ValueUSD: 250, USD: true},
			{Ticker: "BBD", ValueUSD: 250, USD: true},
		})

		if !almostEqual(two, 50) {
			t.Errorf("Expected 50 for an even pair, got %f", two)
		}
		if !almostEqual(four, 75) {
			t.Errorf("Expected 75 for an even quad, got %f", four)
		}
	})
}

func TestConcentrate(t *testing.T) {
	holdings := []Holding{
		{Ticker: "VALE", ValueUSD: 600, USD: true},
		{Ticker: "ITUB", ValueUSD: 250, USD: true},
		{Ticker: "PBR", ValueUSD: 150, USD: true},
	}

	c := Concentrate(holdings)

	if c.TopHolding != "VALE" {
		t.Errorf("Expected VALE on top, got %s", c.TopHolding)
	}
	if !almostEqual(c.TopHoldingPercent, 60) {
		t.Errorf("Expected top holding 60%%, got %f", c.TopHoldingPercent)
	}
	if !almostEqual(c.Top3Percent, 100) {
		t.Errorf("Expected top-3 100%%, got %f", c.Top3Percent)
	}
}

func TestBuildReport_Recommendations(t *testing.T) {
	t.Run("concentrated dollar portfolio triggers hedge and concentration advice", func(t *testing.T) {
		holdings := []Holding{
			{Ticker: "VALE", ValueUSD: 800, USD: true},
			{Ticker: "ITUB", ValueUSD: 200, USD: true},
		}

		report := BuildReport(holdings, nil, nil)

		if report.USDExposurePercent != 100 {
			t.Fatalf("Expected 100%% USD exposure, got %f", report.USDExposurePercent)
		}

		var hedge, concentration bool
		for _, r := range report.Recommendations {
			if strings.Contains(r, "hedge cambial") {
				hedge = true
			}
			if strings.Contains(r, "VALE") {
				concentration = true
			}
		}
		if !hedge {
			t.Error("Expected hedge recommendation for >70% USD exposure")
		}
		if !concentration {
			t.Error("Expected concentration warning for an 80% top holding")
		}
	})

	t.Run("balanced portfolio falls back to the default text", func(t *testing.T) {
		holdings := []Holding{
			{Ticker: "VALE", ValueUSD: 200, USD: true},
			{Ticker: "ITUB", ValueUSD: 200, USD: false},
			{Ticker: "PBR", ValueUSD: 200, USD: true},
			{Ticker: "BBD", ValueUSD: 200, USD: false},
			{Ticker: "ABEV", ValueUSD: 200, USD: true},
		}

		report := BuildReport(holdings, nil, nil)

		if len(report.Recommendations) != 1 {
			t.Fatalf("Expected the default recommendation only, got %v", report.Recommendations)
		}
		if !strings.Contains(report.Recommendations[0], "dentro dos parâmetros") {
			t.Errorf("Unexpected default text: %s", report.Recommendations[0])
		}
	})
}
