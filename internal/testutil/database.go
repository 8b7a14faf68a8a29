package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			api_key TEXT NOT NULL UNIQUE,
			plan TEXT NOT NULL DEFAULT 'free',
			request_count INTEGER NOT NULL DEFAULT 0,
			request_date TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE adr_quotes (
			id TEXT PRIMARY KEY,
			ticker TEXT NOT NULL,
			price_usd TEXT NOT NULL,
			price_brl TEXT NOT NULL,
			exchange_rate TEXT NOT NULL,
			volume INTEGER NOT NULL DEFAULT 0,
			day_change_percent TEXT NOT NULL DEFAULT '0',
			timestamp TEXT NOT NULL,
			source TEXT NOT NULL,
			delay_minutes INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX idx_adr_quotes_ticker_timestamp ON adr_quotes (ticker, timestamp DESC);

		CREATE TABLE exchange_rates (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			rate TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'bcb',
			created_at TEXT NOT NULL,
			UNIQUE (date, source)
		);

		CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users (id),
			ticker TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('BUY', 'SELL')),
			quantity TEXT NOT NULL,
			price_usd TEXT NOT NULL,
			exchange_rate TEXT NOT NULL,
			date TEXT NOT NULL,
			brokerage_fee TEXT NOT NULL DEFAULT '0',
			encrypted_data TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX idx_transactions_user_date ON transactions (user_id, date, created_at);

		CREATE TABLE price_alerts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users (id),
			ticker TEXT NOT NULL,
			condition TEXT NOT NULL CHECK (condition IN ('above', 'below', 'change_percent')),
			target_value TEXT NOT NULL,
			channel TEXT NOT NULL DEFAULT 'webhook',
			webhook_url TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			triggered_at TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX idx_price_alerts_active ON price_alerts (active, ticker);

		CREATE TABLE positions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users (id),
			ticker TEXT NOT NULL,
			quantity TEXT NOT NULL,
			avg_price_usd TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (user_id, ticker)
		);

		CREATE TABLE market_correlations (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE,
			correlation_30d TEXT NOT NULL,
			correlation_7d TEXT NOT NULL,
			sp500_return TEXT NOT NULL,
			ibovespa_return TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE tax_reports (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users (id),
			year INTEGER NOT NULL,
			tax_owed TEXT NOT NULL,
			net_gains TEXT NOT NULL,
			compensable_losses TEXT NOT NULL,
			day_trade_compensable_losses TEXT NOT NULL,
			summary_json TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE (user_id, year)
		);
	`

	_, err := db.Exec(schema)
	return err
}
