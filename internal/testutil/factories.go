package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/financeapi-br/backend/internal/model"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithPlan(model.PlanPro).
//	    WithRequestCount(50, "2026-08-29").
//	    Build(t, db)
type UserBuilder struct {
	ID           string
	Email        string
	APIKey       string
	Plan         string
	RequestCount int
	RequestDate  string
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:     MakeID(),
		Email:  MakeEmail(),
		APIKey: MakeAPIKey(),
		Plan:   model.PlanFree,
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithAPIKey sets a custom API key.
func (b *UserBuilder) WithAPIKey(key string) *UserBuilder {
	b.APIKey = key
	return b
}

// WithPlan sets the plan.
func (b *UserBuilder) WithPlan(plan string) *UserBuilder {
	b.Plan = plan
	return b
}

// WithRequestCount sets the quota counter and its window date.
func (b *UserBuilder) WithRequestCount(count int, date string) *UserBuilder {
	b.RequestCount = count
	b.RequestDate = date
	return b
}

// Build inserts the user and returns the model.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO users (id, email, api_key, plan, request_count, request_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Email, b.APIKey, b.Plan, b.RequestCount, b.RequestDate, now.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		Email:        b.Email,
		APIKey:       b.APIKey,
		Plan:         b.Plan,
		RequestCount: b.RequestCount,
		RequestDate:  b.RequestDate,
		CreatedAt:    now,
	}
}

// TransactionBuilder provides a fluent interface for creating test
// transactions. Decimal columns are stored as text.
//
// Example usage:
//
//	tx := testutil.NewTransaction(user.ID).
//	    WithTicker("VALE").
//	    WithType("SELL").
//	    WithQuantity("100").
//	    WithPrice("10.50").
//	    WithDate("2026-03-10").
//	    Build(t, db)
type TransactionBuilder struct {
	ID           string
	UserID       string
	Ticker       string
	Type         string
	Quantity     string
	PriceUSD     string
	ExchangeRate string
	Date         string
	BrokerageFee string
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:           MakeID(),
		UserID:       userID,
		Ticker:       "VALE",
		Type:         "BUY",
		Quantity:     "100",
		PriceUSD:     "10",
		ExchangeRate: "5",
		Date:         "2026-01-15",
		BrokerageFee: "0",
	}
}

// WithTicker sets the ticker.
func (b *TransactionBuilder) WithTicker(ticker string) *TransactionBuilder {
	b.Ticker = ticker
	return b
}

// WithType sets BUY or SELL.
func (b *TransactionBuilder) WithType(typ string) *TransactionBuilder {
	b.Type = typ
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the USD price per share.
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.PriceUSD = price
	return b
}

// WithExchangeRate sets the USD/BRL rate for the trade date.
func (b *TransactionBuilder) WithExchangeRate(rate string) *TransactionBuilder {
	b.ExchangeRate = rate
	return b
}

// WithDate sets the trade date (YYYY-MM-DD).
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithBrokerageFee sets the fee in USD.
func (b *TransactionBuilder) WithBrokerageFee(fee string) *TransactionBuilder {
	b.BrokerageFee = fee
	return b
}

// Build inserts the transaction and returns its ID.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) string {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO transactions (id, user_id, ticker, type, quantity, price_usd, exchange_rate, date, brokerage_fee, encrypted_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?)`,
		b.ID, b.UserID, b.Ticker, b.Type, b.Quantity, b.PriceUSD, b.ExchangeRate, b.Date, b.BrokerageFee,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test transaction: %v", err)
	}
	return b.ID
}

// AlertBuilder provides a fluent interface for creating test price alerts.
type AlertBuilder struct {
	ID          string
	UserID      string
	Ticker      string
	Condition   string
	TargetValue string
	WebhookURL  string
	Active      bool
}

// NewAlert creates an AlertBuilder with sensible defaults.
func NewAlert(userID string) *AlertBuilder {
	return &AlertBuilder{
		ID:          MakeID(),
		UserID:      userID,
		Ticker:      "VALE",
		Condition:   model.AlertAbove,
		TargetValue: "12",
		WebhookURL:  "https://example.com/hook",
		Active:      true,
	}
}

// WithCondition sets the alert condition.
func (b *AlertBuilder) WithCondition(condition string) *AlertBuilder {
	b.Condition = condition
	return b
}

// WithTarget sets the target value.
func (b *AlertBuilder) WithTarget(target string) *AlertBuilder {
	b.TargetValue = target
	return b
}

// WithTicker sets the ticker.
func (b *AlertBuilder) WithTicker(ticker string) *AlertBuilder {
	b.Ticker = ticker
	return b
}

// WithWebhook sets the delivery URL; empty disables delivery.
func (b *AlertBuilder) WithWebhook(url string) *AlertBuilder {
	b.WebhookURL = url
	return b
}

// Inactive marks the alert disabled.
func (b *AlertBuilder) Inactive() *AlertBuilder {
	b.Active = false
	return b
}

// Build inserts the alert and returns its ID.
func (b *AlertBuilder) Build(t *testing.T, db *sql.DB) string {
	t.Helper()

	active := 0
	if b.Active {
		active = 1
	}
	_, err := db.Exec(
		`INSERT INTO price_alerts (id, user_id, ticker, condition, target_value, channel, webhook_url, active, created_at)
		 VALUES (?, ?, ?, ?, ?, 'webhook', ?, ?, ?)`,
		b.ID, b.UserID, b.Ticker, b.Condition, b.TargetValue, b.WebhookURL, active,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test alert: %v", err)
	}
	return b.ID
}

// PositionBuilder provides a fluent interface for creating test positions.
type PositionBuilder struct {
	ID          string
	UserID      string
	Ticker      string
	Quantity    string
	AvgPriceUSD string
}

// NewPosition creates a PositionBuilder with sensible defaults.
func NewPosition(userID string) *PositionBuilder {
	return &PositionBuilder{
		ID:          MakeID(),
		UserID:      userID,
		Ticker:      "VALE",
		Quantity:    "100",
		AvgPriceUSD: "10",
	}
}

// WithTicker sets the ticker.
func (b *PositionBuilder) WithTicker(ticker string) *PositionBuilder {
	b.Ticker = ticker
	return b
}

// WithQuantity sets the quantity.
func (b *PositionBuilder) WithQuantity(quantity string) *PositionBuilder {
	b.Quantity = quantity
	return b
}

// WithAvgPrice sets the average USD cost.
func (b *PositionBuilder) WithAvgPrice(price string) *PositionBuilder {
	b.AvgPriceUSD = price
	return b
}

// Build inserts the position and returns its ID.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) string {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO positions (id, user_id, ticker, quantity, avg_price_usd, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Ticker, b.Quantity, b.AvgPriceUSD,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test position: %v", err)
	}
	return b.ID
}

// InsertQuote stores a quote row directly, bypassing the fetchers.
func InsertQuote(t *testing.T, db *sql.DB, ticker, priceUSD, rate string, ts time.Time) {
	t.Helper()

	priceBRL := priceUSD // callers that care pass consistent values
	_, err := db.Exec(
		`INSERT INTO adr_quotes (id, ticker, price_usd, price_brl, exchange_rate, volume, day_change_percent, timestamp, source, delay_minutes)
		 VALUES (?, ?, ?, ?, ?, 1000, '0', ?, 'test', 15)`,
		MakeID(), ticker, priceUSD, priceBRL, rate, ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test quote: %v", err)
	}
}

// InsertRate stores an exchange-rate row for a date (YYYY-MM-DD).
func InsertRate(t *testing.T, db *sql.DB, date, rate string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO exchange_rates (id, date, rate, source, created_at)
		 VALUES (?, ?, ?, 'bcb', ?)`,
		MakeID(), date, rate, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test exchange rate: %v", err)
	}
}
