package tax

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInventory_Consume(t *testing.T) {
	t.Run("drains lots oldest first and splits the head", func(t *testing.T) {
		inv := NewInventory()
		inv.Add("VALE", Lot{Quantity: dec("100"), PriceUSD: dec("10"), ExchangeRate: dec("1"), Date: day(1)})
		inv.Add("VALE", Lot{Quantity: dec("50"), PriceUSD: dec("12"), ExchangeRate: dec("1"), Date: day(5)})

		costBRL, costUSD, err := inv.Consume("VALE", dec("120"))
		if err != nil {
			t.Fatalf("Consume failed: %v", err)
		}

		// 100 @ $10 plus 20 @ $12
		if !costUSD.Equal(dec("1240")) {
			t.Errorf("Expected USD cost basis 1240, got %s", costUSD)
		}
		if !costBRL.Equal(dec("1240")) {
			t.Errorf("Expected BRL cost basis 1240, got %s", costBRL)
		}

		if remaining := inv.Available("VALE"); !remaining.Equal(dec("30")) {
			t.Errorf("Expected 30 remaining, got %s", remaining)
		}

		lots := inv.Lots("VALE")
		if len(lots) != 1 {
			t.Fatalf("Expected 1 open lot, got %d", len(lots))
		}
		if !lots[0].PriceUSD.Equal(dec("12")) {
			t.Errorf("Expected remaining lot at $12, got %s", lots[0].PriceUSD)
		}
	})

	t.Run("uses each lot's own exchange rate for the BRL basis", func(t *testing.T) {
		inv := NewInventory()
		inv.Add("PBR", Lot{Quantity: dec("10"), PriceUSD: dec("10"), ExchangeRate: dec("5.00"), Date: day(1)})
		inv.Add("PBR", Lot{Quantity: dec("10"), PriceUSD: dec("10"), ExchangeRate: dec("5.50"), Date: day(2)})

		costBRL, _, err := inv.Consume("PBR", dec("15"))
		if err != nil {
			t.Fatalf("Consume failed: %v", err)
		}

		// 10*10*5.00 + 5*10*5.50
		if !costBRL.Equal(dec("775")) {
			t.Errorf("Expected BRL cost basis 775, got %s", costBRL)
		}
	})

	t.Run("oversold consume returns integrity error without draining", func(t *testing.T) {
		inv := NewInventory()
		inv.Add("ITUB", Lot{Quantity: dec("10"), PriceUSD: dec("5"), ExchangeRate: dec("5"), Date: day(1)})

		_, _, err := inv.Consume("ITUB", dec("11"))

		var integrity *IntegrityError
		if !errors.As(err, &integrity) {
			t.Fatalf("Expected IntegrityError, got %v", err)
		}
		if integrity.Ticker != "ITUB" {
			t.Errorf("Expected ticker ITUB in error, got %s", integrity.Ticker)
		}
		if !integrity.Requested.Equal(dec("11")) || !integrity.Available.Equal(dec("10")) {
			t.Errorf("Expected requested 11 / available 10, got %s / %s", integrity.Requested, integrity.Available)
		}

		// Failed consume must not mutate the queue.
		if remaining := inv.Available("ITUB"); !remaining.Equal(dec("10")) {
			t.Errorf("Expected inventory untouched at 10, got %s", remaining)
		}
	})

	t.Run("unknown ticker has zero availability", func(t *testing.T) {
		inv := NewInventory()
		if !inv.Available("GGB").IsZero() {
			t.Error("Expected zero availability for unknown ticker")
		}
	})
}
