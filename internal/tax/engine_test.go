package tax

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// tb builds a ledger entry; rate 1 and zero fee keep most scenarios readable.
func tb(id int, ticker string, typ TradeType, qty, price, rate string, date time.Time) Transaction {
	return Transaction{
		ID:           fmt.Sprintf("tx-%d", id),
		Ticker:       ticker,
		Type:         typ,
		Quantity:     dec(qty),
		PriceUSD:     dec(price),
		ExchangeRate: dec(rate),
		Date:         date,
	}
}

func TestEngine_FIFOOrdering(t *testing.T) {
	engine := NewEngine(DefaultParams())

	txs := []Transaction{
		tb(1, "VALE", Buy, "100", "10", "1", day(1)),
		tb(2, "VALE", Buy, "50", "12", "1", day(5)),
		tb(3, "VALE", Sell, "120", "15", "1", day(10)),
	}

	summary, err := engine.Calculate(2024, txs, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// Sale 120*15 = 1800 against basis 100*10 + 20*12 = 1240.
	if !summary.Gains.Equal(dec("560")) {
		t.Errorf("Expected gains 560, got %s", summary.Gains)
	}

	t.Run("remaining inventory is 30 at the second lot's price", func(t *testing.T) {
		// Selling the 30 leftover shares succeeds; one more share oversells.
		ok := append(txs, tb(4, "VALE", Sell, "30", "12", "1", day(11)))
		if _, err := engine.Calculate(2024, ok, nil); err != nil {
			t.Errorf("Expected 30 shares available, got error: %v", err)
		}

		over := append(txs, tb(4, "VALE", Sell, "31", "12", "1", day(11)))
		if _, err := engine.Calculate(2024, over, nil); err == nil {
			t.Error("Expected oversold error selling 31 of 30 remaining")
		}
	})
}

func TestEngine_DayTradeIsolation(t *testing.T) {
	engine := NewEngine(DefaultParams())

	txs := []Transaction{
		tb(1, "ITUB", Buy, "100", "10", "1", day(1)),
		tb(2, "ITUB", Buy, "100", "20", "1", day(5)),
		tb(3, "ITUB", Sell, "100", "22", "1", day(5)),
	}

	summary, err := engine.Calculate(2024, txs, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if !summary.DayTradeGains.Equal(dec("200")) {
		t.Errorf("Expected day-trade gains 200, got %s", summary.DayTradeGains)
	}
	if !summary.Gains.IsZero() || !summary.Losses.IsZero() {
		t.Errorf("Expected no normal-trade result, got gains %s losses %s", summary.Gains, summary.Losses)
	}

	t.Run("pre-existing lots are untouched by the day trade", func(t *testing.T) {
		// The day-1 lot of 100 must still be fully available afterwards.
		withSell := append(txs, tb(4, "ITUB", Sell, "100", "30", "1", day(20)))
		s, err := engine.Calculate(2024, withSell, nil)
		if err != nil {
			t.Fatalf("Expected day-1 lot intact, got: %v", err)
		}
		// 100*30 - 100*10
		if !s.Gains.Equal(dec("2000")) {
			t.Errorf("Expected later swing gain 2000, got %s", s.Gains)
		}
	})
}

func TestEngine_DayTradePartialRemainders(t *testing.T) {
	engine := NewEngine(DefaultParams())

	txs := []Transaction{
		tb(1, "BBD", Buy, "50", "10", "1", day(1)),
		tb(2, "BBD", Buy, "100", "20", "1", day(5)),
		tb(3, "BBD", Sell, "150", "22", "1", day(5)),
	}

	summary, err := engine.Calculate(2024, txs, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// 100 shares match as a day trade at +2 each; the 50-share remainder
	// settles against the day-1 lot: 50*22 - 50*10.
	if !summary.DayTradeGains.Equal(dec("200")) {
		t.Errorf("Expected day-trade gains 200, got %s", summary.DayTradeGains)
	}
	if !summary.Gains.Equal(dec("600")) {
		t.Errorf("Expected swing gains 600, got %s", summary.Gains)
	}

	// Inventory is now empty: any further sell oversells.
	over := append(txs, tb(4, "BBD", Sell, "1", "22", "1", day(6)))
	if _, err := engine.Calculate(2024, over, nil); err == nil {
		t.Error("Expected oversold error after inventory drained")
	}
}

func TestEngine_MonthlyExemptionBoundary(t *testing.T) {
	engine := NewEngine(DefaultParams())

	t.Run("sales exactly at the threshold are fully exempt", func(t *testing.T) {
		txs := []Transaction{
			tb(1, "ABEV", Buy, "1000", "10", "1", day(2)),
			tb(2, "ABEV", Sell, "1000", "20", "1", time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)),
		}

		summary, err := engine.Calculate(2024, txs, nil)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}

		feb := summary.MonthlyBreakdown[1]
		if !feb.SalesTotal.Equal(dec("20000")) {
			t.Fatalf("Expected sales 20000, got %s", feb.SalesTotal)
		}
		if !feb.ExemptedGains.Equal(dec("10000")) {
			t.Errorf("Expected exempted gains 10000, got %s", feb.ExemptedGains)
		}
		if !feb.TaxableGains.IsZero() {
			t.Errorf("Expected zero taxable gains, got %s", feb.TaxableGains)
		}
		if !feb.Exempt {
			t.Error("Expected exempt flag set")
		}
	})

	t.Run("one cent above taxes the entire net gain", func(t *testing.T) {
		txs := []Transaction{
			tb(1, "ABEV", Buy, "1000", "10", "1", day(2)),
			tb(2, "ABEV", Sell, "1000", "20.00001", "1", time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)),
		}

		summary, err := engine.Calculate(2024, txs, nil)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}

		feb := summary.MonthlyBreakdown[1]
		if !feb.SalesTotal.Equal(dec("20000.01")) {
			t.Fatalf("Expected sales 20000.01, got %s", feb.SalesTotal)
		}
		if !feb.TaxableGains.Equal(dec("10000.01")) {
			t.Errorf("Expected full net gain 10000.01 taxable, got %s", feb.TaxableGains)
		}
		if !feb.ExemptedGains.IsZero() {
			t.Errorf("Expected no exempted gains, got %s", feb.ExemptedGains)
		}
	})
}

func TestEngine_LossCarryforwardConsumption(t *testing.T) {
	engine := NewEngine(DefaultParams())

	prior := &YearlySummary{Year: 2023, CompensableLosses: dec("1000")}

	txs := []Transaction{
		tb(1, "SID", Buy, "1000", "30", "1", day(2)),
		tb(2, "SID", Sell, "1000", "31.5", "1", day(20)),
	}

	summary, err := engine.Calculate(2024, txs, prior)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	jan := summary.MonthlyBreakdown[0]

	// Gain 1500 offset by the 1000 carried loss leaves 500 taxable.
	if !jan.Gains.Equal(dec("500")) {
		t.Errorf("Expected month gains 500 after offset, got %s", jan.Gains)
	}
	if !jan.TaxableGains.Equal(dec("500")) {
		t.Errorf("Expected taxable gains 500, got %s", jan.TaxableGains)
	}
	if !jan.CompensableLossesUsed.Equal(dec("1000")) {
		t.Errorf("Expected 1000 of carryforward consumed, got %s", jan.CompensableLossesUsed)
	}
	if !jan.RemainingCompensableLosses.IsZero() {
		t.Errorf("Expected no carryforward left, got %s", jan.RemainingCompensableLosses)
	}
	if !summary.PreviousYearLossesUsed.Equal(dec("1000")) {
		t.Errorf("Expected yearly carryforward usage 1000, got %s", summary.PreviousYearLossesUsed)
	}
}

func TestEngine_DayTradeCarryforward(t *testing.T) {
	engine := NewEngine(DefaultParams())

	prior := &YearlySummary{Year: 2023, DayTradeCompensableLosses: dec("100")}

	txs := []Transaction{
		tb(1, "UGP", Buy, "100", "10", "1", day(5)),
		tb(2, "UGP", Sell, "100", "13", "1", day(5)),
	}

	summary, err := engine.Calculate(2024, txs, prior)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// 300 matched gain minus the 100 carried day-trade loss.
	if !summary.DayTradeGains.Equal(dec("200")) {
		t.Errorf("Expected day-trade gains 200, got %s", summary.DayTradeGains)
	}
	if !summary.PreviousYearDayTradeLossesUsed.Equal(dec("100")) {
		t.Errorf("Expected 100 day-trade carryforward used, got %s", summary.PreviousYearDayTradeLossesUsed)
	}
}

func TestEngine_IRRFNetting(t *testing.T) {
	engine := NewEngine(DefaultParams())

	t.Run("tax owed nets out IRRF", func(t *testing.T) {
		txs := []Transaction{
			tb(1, "ERJ", Buy, "1000", "30", "1", day(2)),
			tb(2, "ERJ", Sell, "1000", "40", "1", day(20)),
		}

		summary, err := engine.Calculate(2024, txs, nil)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}

		// 15% of 10000 minus IRRF of 0.005% of 40000.
		expected := dec("1500").Sub(dec("2"))
		if !summary.TaxOwed.Equal(expected) {
			t.Errorf("Expected tax owed %s, got %s", expected, summary.TaxOwed)
		}
	})

	t.Run("never negative when IRRF exceeds the computed tax", func(t *testing.T) {
		txs := []Transaction{
			tb(1, "PBR", Buy, "100000", "10", "1", day(2)),
			tb(2, "PBR", Sell, "100000", "10.0001", "1", day(20)),
		}

		summary, err := engine.Calculate(2024, txs, nil)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}

		// Gain 10, tax 1.5, IRRF ~50: floored at zero.
		if !summary.TaxOwed.IsZero() {
			t.Errorf("Expected tax owed 0, got %s", summary.TaxOwed)
		}
		if !summary.IRRFPaid.Equal(dec("50.0005")) {
			t.Errorf("Expected IRRF 50.0005, got %s", summary.IRRFPaid)
		}
	})
}

func TestEngine_CarryforwardOut(t *testing.T) {
	engine := NewEngine(DefaultParams())

	txs := []Transaction{
		tb(1, "GGB", Buy, "100", "50", "1", day(2)),
		tb(2, "GGB", Sell, "100", "40", "1", day(20)),
	}

	summary, err := engine.Calculate(2024, txs, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if !summary.CompensableLosses.Equal(dec("1000")) {
		t.Errorf("Expected 1000 compensable losses for next year, got %s", summary.CompensableLosses)
	}
	if !summary.TaxOwed.IsZero() {
		t.Errorf("Expected no tax on a losing year, got %s", summary.TaxOwed)
	}
}

func TestEngine_OversoldDetection(t *testing.T) {
	engine := NewEngine(DefaultParams())

	txs := []Transaction{
		tb(1, "VALE", Sell, "50", "10", "1", day(2)),
	}

	_, err := engine.Calculate(2024, txs, nil)

	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("Expected IntegrityError, got %v", err)
	}
	if integrity.Ticker != "VALE" {
		t.Errorf("Expected ticker VALE, got %s", integrity.Ticker)
	}
	if integrity.TransactionID != "tx-1" {
		t.Errorf("Expected offending transaction id tx-1, got %s", integrity.TransactionID)
	}
	if !integrity.Date.Equal(day(2)) {
		t.Errorf("Expected offending date %s, got %s", day(2), integrity.Date)
	}
}

func TestEngine_Validation(t *testing.T) {
	engine := NewEngine(DefaultParams())

	cases := []struct {
		name string
		tx   Transaction
	}{
		{"unknown type", tb(1, "VALE", TradeType("HOLD"), "10", "10", "1", day(1))},
		{"non-positive quantity", tb(1, "VALE", Buy, "0", "10", "1", day(1))},
		{"non-positive price", tb(1, "VALE", Buy, "10", "0", "1", day(1))},
		{"non-positive exchange rate", tb(1, "VALE", Buy, "10", "10", "0", day(1))},
		{"date outside year", tb(1, "VALE", Buy, "10", "10", "1", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Calculate(2024, []Transaction{tc.tx}, nil)

			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestEngine_PerLegExchangeRates(t *testing.T) {
	engine := NewEngine(DefaultParams())

	// Bought at 5.00, sold at 5.50: FX moves are part of the BRL gain.
	txs := []Transaction{
		tb(1, "ITUB", Buy, "100", "10", "5.00", day(2)),
		tb(2, "ITUB", Sell, "100", "10", "5.50", day(20)),
	}

	summary, err := engine.Calculate(2024, txs, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// 100*10*5.50 - 100*10*5.00
	if !summary.Gains.Equal(dec("500")) {
		t.Errorf("Expected FX-driven gain 500, got %s", summary.Gains)
	}
}

func TestEngine_Idempotence(t *testing.T) {
	engine := NewEngine(DefaultParams())

	prior := &YearlySummary{Year: 2023, CompensableLosses: dec("250.75")}
	txs := []Transaction{
		tb(1, "VALE", Buy, "100", "10.50", "4.95", day(2)),
		tb(2, "PBR", Buy, "200", "14.25", "5.01", day(3)),
		tb(3, "VALE", Sell, "60", "11.80", "5.10", day(3)),
		tb(4, "PBR", Buy, "50", "14.00", "5.02", day(15)),
		tb(5, "PBR", Sell, "50", "14.40", "5.02", day(15)),
		tb(6, "VALE", Sell, "40", "9.75", "5.20", time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)),
	}

	first, err := engine.Calculate(2024, txs, prior)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := engine.Calculate(2024, txs, prior)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Errorf("Expected byte-identical summaries\nfirst:  %s\nsecond: %s", a, b)
	}
}

func TestEngine_EmptyYear(t *testing.T) {
	engine := NewEngine(DefaultParams())

	summary, err := engine.Calculate(2024, nil, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if len(summary.MonthlyBreakdown) != 0 {
		t.Errorf("Expected no monthly breakdown, got %d entries", len(summary.MonthlyBreakdown))
	}
	if len(summary.Recommendations) != 1 {
		t.Fatalf("Expected the default recommendation only, got %d", len(summary.Recommendations))
	}
}

func TestEngine_RecommendationTriggers(t *testing.T) {
	engine := NewEngine(DefaultParams())

	// A losing year triggers the wash-sale warning and carryforward advice.
	txs := []Transaction{
		tb(1, "VALE", Buy, "100", "50", "1", day(2)),
		tb(2, "VALE", Sell, "100", "40", "1", day(20)),
	}

	summary, err := engine.Calculate(2024, txs, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	found := func(substr string) bool {
		for _, r := range summary.Recommendations {
			if strings.Contains(r, substr) {
				return true
			}
		}
		return false
	}

	if !found("wash sale") {
		t.Error("Expected wash-sale warning for a year with losses")
	}
	if !found("R$ 1000.00 em prejuízos acumulados") {
		t.Errorf("Expected carryforward advice, got %v", summary.Recommendations)
	}
}
