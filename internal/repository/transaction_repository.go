package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// TransactionRepository provides data access methods for the transactions table.
// Listings are ordered by (date, created_at) ascending; the tax engine
// depends on that ordering.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTransaction inserts a ledger entry.
func (r *TransactionRepository) CreateTransaction(t model.Transaction) error {
	_, err := r.db.Exec(`
		INSERT INTO transactions (id, user_id, ticker, type, quantity, price_usd,
			exchange_rate, date, brokerage_fee, encrypted_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Ticker, t.Type, t.Quantity.String(), t.PriceUSD.String(),
		t.ExchangeRate.String(), t.Date.UTC().Format("2006-01-02"),
		t.BrokerageFee.String(), t.EncryptedData, t.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction returns one ledger entry scoped to a user.
func (r *TransactionRepository) GetTransaction(userID, id string) (model.Transaction, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, ticker, type, quantity, price_usd,
			exchange_rate, date, brokerage_fee, encrypted_data, created_at
		FROM transactions
		WHERE user_id = ? AND id = ?
	`, userID, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return t, err
}

// GetTransactions returns a user's ledger ordered by (date, created_at).
func (r *TransactionRepository) GetTransactions(userID string) ([]model.Transaction, error) {
	return r.queryTransactions(`
		SELECT id, user_id, ticker, type, quantity, price_usd,
			exchange_rate, date, brokerage_fee, encrypted_data, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY date ASC, created_at ASC
	`, userID)
}

// GetTransactionsForYear returns a user's ledger entries dated within the
// given year, ordered by (date, created_at).
func (r *TransactionRepository) GetTransactionsForYear(userID string, year int) ([]model.Transaction, error) {
	return r.queryTransactions(`
		SELECT id, user_id, ticker, type, quantity, price_usd,
			exchange_rate, date, brokerage_fee, encrypted_data, created_at
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`, userID, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
}

// GetOldestTransactionYear returns the year of the user's earliest ledger
// entry, or zero when the ledger is empty.
func (r *TransactionRepository) GetOldestTransactionYear(userID string) (int, error) {
	var oldestDateStr sql.NullString
	err := r.db.QueryRow(`
		SELECT MIN(date) FROM transactions WHERE user_id = ?
	`, userID).Scan(&oldestDateStr)
	if err != nil {
		return 0, fmt.Errorf("failed to query oldest transaction: %w", err)
	}
	if !oldestDateStr.Valid {
		return 0, nil
	}

	oldest, err := ParseTime(oldestDateStr.String)
	if err != nil {
		return 0, err
	}
	return oldest.Year(), nil
}

// DeleteTransaction removes one ledger entry scoped to a user.
func (r *TransactionRepository) DeleteTransaction(userID, id string) error {
	res, err := r.db.Exec(`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) queryTransactions(query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var qty, price, rate, fee, dateStr, createdAtStr string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Ticker,
		&t.Type,
		&qty,
		&price,
		&rate,
		&dateStr,
		&fee,
		&t.EncryptedData,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transactions table results: %w", err)
	}

	if t.Quantity, err = ParseDecimal(qty); err != nil {
		return model.Transaction{}, err
	}
	if t.PriceUSD, err = ParseDecimal(price); err != nil {
		return model.Transaction{}, err
	}
	if t.ExchangeRate, err = ParseDecimal(rate); err != nil {
		return model.Transaction{}, err
	}
	if t.BrokerageFee, err = ParseDecimal(fee); err != nil {
		return model.Transaction{}, err
	}
	if t.Date, err = ParseTime(dateStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}
