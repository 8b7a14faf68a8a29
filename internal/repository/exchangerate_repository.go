package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// ExchangeRateRepository provides data access methods for the exchange_rates table.
type ExchangeRateRepository struct {
	db *sql.DB
}

// NewExchangeRateRepository creates a new ExchangeRateRepository with the provided database connection.
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// UpsertRate stores a day's rate, replacing an existing row for the same
// (date, source).
func (r *ExchangeRateRepository) UpsertRate(rate model.ExchangeRate) error {
	_, err := r.db.Exec(`
		INSERT INTO exchange_rates (id, date, rate, source, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (date, source) DO UPDATE SET rate = excluded.rate
	`, rate.ID, rate.Date, rate.Rate.String(), rate.Source, rate.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return nil
}

// GetLatestRate returns the most recent stored rate.
func (r *ExchangeRateRepository) GetLatestRate() (model.ExchangeRate, error) {
	row := r.db.QueryRow(`
		SELECT id, date, rate, source, created_at
		FROM exchange_rates
		ORDER BY date DESC
		LIMIT 1
	`)
	return scanRate(row)
}

// GetRateForDate returns the rate stored for a specific day.
func (r *ExchangeRateRepository) GetRateForDate(date string) (model.ExchangeRate, error) {
	row := r.db.QueryRow(`
		SELECT id, date, rate, source, created_at
		FROM exchange_rates
		WHERE date = ?
	`, date)
	return scanRate(row)
}

// GetRateHistory returns stored rates between two dates inclusive, oldest first.
func (r *ExchangeRateRepository) GetRateHistory(startDate, endDate string) ([]model.ExchangeRate, error) {
	rows, err := r.db.Query(`
		SELECT id, date, rate, source, created_at
		FROM exchange_rates
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange_rates table: %w", err)
	}
	defer rows.Close()

	var rates []model.ExchangeRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange_rates table: %w", err)
	}
	return rates, nil
}

func scanRate(row rowScanner) (model.ExchangeRate, error) {
	var rate model.ExchangeRate
	var rateStr, createdAtStr string

	err := row.Scan(&rate.ID, &rate.Date, &rateStr, &rate.Source, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to scan exchange_rates table results: %w", err)
	}

	if rate.Rate, err = ParseDecimal(rateStr); err != nil {
		return model.ExchangeRate{}, err
	}
	if rate.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.ExchangeRate{}, err
	}

	return rate, nil
}
