package testutil

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/secrets"
	"github.com/financeapi-br/backend/internal/service"
	"github.com/financeapi-br/backend/internal/tax"
)

// TestFernetKey is a fixed 32-byte key for encrypting broker notes in
// tests. Never use it outside tests.
const TestFernetKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

// TestTickers is the ADR universe used by test services.
var TestTickers = []string{"VALE", "ITUB", "PBR"}

// DefaultPlanLimits mirrors the production defaults: free and pro are
// capped, premium has no entry and is unlimited.
func DefaultPlanLimits() map[string]int {
	return map[string]int{
		"free": 100,
		"pro":  1000,
	}
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()

	return service.NewUserService(repository.NewUserRepository(db), DefaultPlanLimits())
}

func NewTestFXService(t *testing.T, db *sql.DB, fetcher service.RateFetcher) *service.FXService {
	t.Helper()

	return service.NewFXService(repository.NewExchangeRateRepository(db), fetcher)
}

func NewTestQuoteService(t *testing.T, db *sql.DB, fetcher service.QuoteFetcher) *service.QuoteService {
	t.Helper()

	fx := NewTestFXService(t, db, NewMockMarketData())
	return service.NewQuoteService(repository.NewQuoteRepository(db), fetcher, fx, TestTickers, 15)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	encryptor, err := secrets.NewEncryptor(TestFernetKey)
	if err != nil {
		t.Fatalf("Failed to create test encryptor: %v", err)
	}
	fx := NewTestFXService(t, db, NewMockMarketData())
	return service.NewTransactionService(repository.NewTransactionRepository(db), fx, encryptor)
}

func NewTestTaxService(t *testing.T, db *sql.DB) *service.TaxService {
	t.Helper()

	return service.NewTaxService(
		repository.NewTransactionRepository(db),
		repository.NewTaxReportRepository(db),
		NewTestTransactionService(t, db),
		tax.NewEngine(tax.DefaultParams()),
	)
}

func NewTestAlertService(t *testing.T, db *sql.DB, fetcher service.QuoteFetcher) *service.AlertService {
	t.Helper()

	return service.NewAlertService(
		repository.NewAlertRepository(db),
		NewTestQuoteService(t, db, fetcher),
	)
}

func NewTestCorrelationService(t *testing.T, db *sql.DB, fetcher service.IndexFetcher) *service.CorrelationService {
	t.Helper()

	return service.NewCorrelationService(repository.NewCorrelationRepository(db), fetcher)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB, fetcher service.QuoteFetcher) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPositionRepository(db),
		repository.NewAlertRepository(db),
		NewTestQuoteService(t, db, fetcher),
		NewTestCorrelationService(t, db, NewMockMarketData()),
	)
}

func NewTestAnalyticsService(t *testing.T, db *sql.DB, mock *MockMarketData) *service.AnalyticsService {
	t.Helper()

	return service.NewAnalyticsService(
		repository.NewPositionRepository(db),
		repository.NewQuoteRepository(db),
		NewTestQuoteService(t, db, mock),
		mock,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
func MakeID() string {
	return uuid.New().String()
}

// MakeEmail generates a unique email address for testing.
func MakeEmail() string {
	return fmt.Sprintf("user-%06d@example.com", mrand.Intn(1000000)) //nolint:gosec // test data
}

// MakeAPIKey generates a key in the issued format ("fa_" + 48 hex chars).
func MakeAPIKey() string {
	raw := make([]byte, 24)
	_, _ = rand.Read(raw)
	return "fa_" + hex.EncodeToString(raw)
}
