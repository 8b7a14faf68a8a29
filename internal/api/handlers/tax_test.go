package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/tax"
	"github.com/financeapi-br/backend/internal/testutil"
)

func TestTaxHandler_Calculate(t *testing.T) {
	setupHandler := func(t *testing.T) (*TaxHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		return NewTaxHandler(testutil.NewTestTaxService(t, db)), db
	}

	t.Run("computes a year from the stored ledger", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		testutil.NewTransaction(user.ID).
			WithQuantity("100").WithPrice("10").WithExchangeRate("5").
			WithDate("2024-02-05").Build(t, db)
		testutil.NewTransaction(user.ID).
			WithType("SELL").WithQuantity("100").WithPrice("12").WithExchangeRate("5").
			WithDate("2024-04-10").Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/taxes/calculate", map[string]any{"year": 2024})
		w := serveAs(user, handler.Calculate, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary tax.YearlySummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&summary)

		if summary.Year != 2024 {
			t.Errorf("Expected year 2024, got %d", summary.Year)
		}
		// Gain of R$1000 on R$6000 of sales stays under the monthly
		// exemption, so nothing is owed.
		if !summary.TaxOwed.IsZero() {
			t.Errorf("Expected no tax owed, got %s", summary.TaxOwed)
		}
		if !summary.TotalExemptedGains.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("Expected R$1000 exempted, got %s", summary.TotalExemptedGains)
		}
	})

	t.Run("rejects an invalid year with 400", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/taxes/calculate", map[string]any{"year": 1999})
		w := serveAs(user, handler.Calculate, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("responds 422 when the ledger oversells", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		// Sells 100 shares with nothing bought.
		testutil.NewTransaction(user.ID).
			WithType("SELL").WithQuantity("100").WithPrice("12").WithExchangeRate("5").
			WithDate("2024-04-10").Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/taxes/calculate", map[string]any{"year": 2024})
		w := serveAs(user, handler.Calculate, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTaxHandler_Report(t *testing.T) {
	t.Run("returns 404 before any computation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTaxHandler(testutil.NewTestTaxService(t, db))
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/taxes/2024", map[string]string{"year": "2024"})
		w := serveAs(user, handler.Report, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a non-numeric year with 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTaxHandler(testutil.NewTestTaxService(t, db))
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/taxes/abc", map[string]string{"year": "abc"})
		w := serveAs(user, handler.Report, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("serves the stored report after a calculation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTaxHandler(testutil.NewTestTaxService(t, db))
		user := testutil.NewUser().Build(t, db)

		testutil.NewTransaction(user.ID).
			WithQuantity("100").WithPrice("10").WithExchangeRate("5").
			WithDate("2024-02-05").Build(t, db)

		calc := testutil.NewJSONRequest(t, http.MethodPost, "/api/taxes/calculate", map[string]any{"year": 2024})
		if w := serveAs(user, handler.Calculate, calc); w.Code != http.StatusOK {
			t.Fatalf("Calculate expected 200, got %d: %s", w.Code, w.Body.String())
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/taxes/2024", map[string]string{"year": "2024"})
		w := serveAs(user, handler.Report, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary tax.YearlySummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&summary)
		if summary.Year != 2024 {
			t.Errorf("Expected stored report for 2024, got %d", summary.Year)
		}
	})
}
