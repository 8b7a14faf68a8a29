package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/testutil"
)

// ctxAuth resolves any key to a fixed user, standing in for the real
// key middleware in handler tests.
type ctxAuth struct {
	user model.User
}

func (a ctxAuth) Authenticate(_ string) (model.User, error) {
	return a.user, nil
}

// serveAs runs a handler with the given user already in the request
// context, the way the router's middleware chain leaves it.
func serveAs(user model.User, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req.Header.Set("X-API-Key", "test")
	middleware.APIKey(ctxAuth{user: user})(handler).ServeHTTP(w, req)
	return w
}

func TestTransactionHandler_List(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		w := serveAs(user, handler.List, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.TransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("returns only the user's transactions", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)
		other := testutil.NewUser().Build(t, db)

		tx1 := testutil.NewTransaction(user.ID).Build(t, db)
		tx2 := testutil.NewTransaction(user.ID).WithTicker("ITUB").Build(t, db)
		testutil.NewTransaction(other.ID).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		w := serveAs(user, handler.List, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.TransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(response))
		}

		found := make(map[string]bool)
		for _, tx := range response {
			found[tx.ID] = true
		}
		if !found[tx1] || !found[tx2] {
			t.Error("Expected both of the user's transactions in the response")
		}
	})
}

func TestTransactionHandler_Create(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("records a valid entry", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transactions", map[string]any{
			"ticker":       "VALE",
			"type":         "BUY",
			"quantity":     "100",
			"priceUsd":     "10.50",
			"exchangeRate": "5.20",
			"date":         "2026-03-10",
		})
		w := serveAs(user, handler.Create, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&created)

		if created.Ticker != "VALE" {
			t.Errorf("Expected ticker VALE, got %s", created.Ticker)
		}
		if created.UserID != user.ID {
			t.Errorf("Expected entry owned by %s, got %s", user.ID, created.UserID)
		}
	})

	t.Run("rejects invalid JSON with 400", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
		w := serveAs(user, handler.Create, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects validation failures with field errors", func(t *testing.T) {
		handler, db := setupHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transactions", map[string]any{
			"ticker":       "",
			"type":         "SHORT",
			"quantity":     "-5",
			"priceUsd":     "10",
			"exchangeRate": "5",
			"date":         "2026-03-10",
		})
		w := serveAs(user, handler.Create, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var response struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Error != "validation failed" {
			t.Errorf("Expected 'validation failed', got %q", response.Error)
		}
		if response.Details["ticker"] == "" || response.Details["type"] == "" {
			t.Errorf("Expected field errors for ticker and type, got %v", response.Details)
		}
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	t.Run("deletes and then 404s", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)
		id := testutil.NewTransaction(user.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transactions/"+id, map[string]string{"uuid": id})
		w := serveAs(user, handler.Delete, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}

		req = testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transactions/"+id, map[string]string{"uuid": id})
		w = serveAs(user, handler.Delete, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", w.Code)
		}
	})

	t.Run("rejects a malformed id with 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/transactions/nope", map[string]string{"uuid": "nope"})
		w := serveAs(user, handler.Delete, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
