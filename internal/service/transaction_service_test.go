package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/testutil"
)

// TestTransactionService_CreateTransaction tests ledger recording.
//
// WHY: Transactions are the raw material of the tax computation, and the
// broker notes on them are the only user-supplied secret in the system.
// This ensures notes round-trip through encryption and that a missing
// exchange rate is filled from stored rates.
func TestTransactionService_CreateTransaction(t *testing.T) {
	t.Run("encrypts notes at rest and decrypts on read", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)

		created, err := svc.CreateTransaction(user.ID, request.CreateTransactionRequest{
			Ticker:       "VALE",
			Type:         "BUY",
			Quantity:     decimal.NewFromInt(100),
			PriceUSD:     decimal.RequireFromString("10.50"),
			ExchangeRate: decimal.RequireFromString("5.20"),
			Date:         "2026-03-10",
			Notes:        "corretora XP, ordem 4411",
		})
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}

		if created.EncryptedData == "" {
			t.Fatal("Expected notes to be stored encrypted")
		}
		if created.EncryptedData == "corretora XP, ordem 4411" {
			t.Error("Expected ciphertext, found plaintext notes")
		}

		read, err := svc.GetTransaction(user.ID, created.ID)
		if err != nil {
			t.Fatalf("GetTransaction() returned unexpected error: %v", err)
		}
		if read.Notes != "corretora XP, ordem 4411" {
			t.Errorf("Expected decrypted notes, got %q", read.Notes)
		}
	})

	t.Run("fills a missing exchange rate from the stored rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)

		testutil.InsertRate(t, db, "2026-03-10", "5.0123")

		created, err := svc.CreateTransaction(user.ID, request.CreateTransactionRequest{
			Ticker:   "ITUB",
			Type:     "BUY",
			Quantity: decimal.NewFromInt(50),
			PriceUSD: decimal.NewFromInt(7),
			Date:     "2026-03-10",
		})
		if err != nil {
			t.Fatalf("CreateTransaction() returned unexpected error: %v", err)
		}

		if !created.ExchangeRate.Equal(decimal.RequireFromString("5.0123")) {
			t.Errorf("Expected rate 5.0123, got %s", created.ExchangeRate)
		}
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)

		_, err := svc.CreateTransaction(user.ID, request.CreateTransactionRequest{
			Ticker:   "VALE",
			Type:     "SHORT",
			Quantity: decimal.NewFromInt(100),
			PriceUSD: decimal.NewFromInt(10),
			Date:     "2026-03-10",
		})
		if err == nil {
			t.Error("Expected error for unknown transaction type")
		}
	})
}

// TestTransactionService_Scoping tests that users only see their own ledger.
func TestTransactionService_Scoping(t *testing.T) {
	t.Run("ledger reads are user scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		owner := testutil.NewUser().Build(t, db)
		other := testutil.NewUser().Build(t, db)

		id := testutil.NewTransaction(owner.ID).Build(t, db)

		if _, err := svc.GetTransaction(other.ID, id); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound for foreign user, got %v", err)
		}

		list, err := svc.GetTransactions(other.ID)
		if err != nil {
			t.Fatalf("GetTransactions() returned unexpected error: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Expected empty ledger for foreign user, got %d entries", len(list))
		}
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)

		id := testutil.NewTransaction(user.ID).Build(t, db)

		if err := svc.DeleteTransaction(user.ID, id); err != nil {
			t.Fatalf("DeleteTransaction() returned unexpected error: %v", err)
		}
		if _, err := svc.GetTransaction(user.ID, id); !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Errorf("Expected ErrTransactionNotFound after delete, got %v", err)
		}
	})
}
