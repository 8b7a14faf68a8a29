package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// QuoteRepository provides data access methods for the adr_quotes table.
type QuoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new QuoteRepository with the provided database connection.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// SaveQuote inserts a fetched quote.
func (r *QuoteRepository) SaveQuote(q model.ADRQuote) error {
	_, err := r.db.Exec(`
		INSERT INTO adr_quotes (id, ticker, price_usd, price_brl, exchange_rate,
			volume, day_change_percent, timestamp, source, delay_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.Ticker, q.PriceUSD.String(), q.PriceBRL.String(), q.ExchangeRate.String(),
		q.Volume, q.DayChangePercent.String(), q.Timestamp.UTC().Format(time.RFC3339),
		q.Source, q.DelayMinutes)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// GetLatestQuote returns the most recent stored quote for a ticker.
func (r *QuoteRepository) GetLatestQuote(ticker string) (model.ADRQuote, error) {
	row := r.db.QueryRow(`
		SELECT id, ticker, price_usd, price_brl, exchange_rate,
			volume, day_change_percent, timestamp, source, delay_minutes
		FROM adr_quotes
		WHERE ticker = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`, ticker)

	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ADRQuote{}, apperrors.ErrQuoteNotFound
	}
	return q, err
}

// GetQuoteHistory returns stored quotes for a ticker since the given time,
// oldest first. Used by the analytics return series.
func (r *QuoteRepository) GetQuoteHistory(ticker string, since time.Time) ([]model.ADRQuote, error) {
	rows, err := r.db.Query(`
		SELECT id, ticker, price_usd, price_brl, exchange_rate,
			volume, day_change_percent, timestamp, source, delay_minutes
		FROM adr_quotes
		WHERE ticker = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`, ticker, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query adr_quotes table: %w", err)
	}
	defer rows.Close()

	var quotes []model.ADRQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adr_quotes table: %w", err)
	}
	return quotes, nil
}

// DeleteQuotesBefore removes quotes older than the cutoff. The weekly
// cleanup job keeps the table from growing without bound.
func (r *QuoteRepository) DeleteQuotesBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM adr_quotes WHERE timestamp < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale quotes: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (model.ADRQuote, error) {
	var q model.ADRQuote
	var priceUSD, priceBRL, rate, change, timestampStr string

	err := row.Scan(
		&q.ID,
		&q.Ticker,
		&priceUSD,
		&priceBRL,
		&rate,
		&q.Volume,
		&change,
		&timestampStr,
		&q.Source,
		&q.DelayMinutes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ADRQuote{}, err
		}
		return model.ADRQuote{}, fmt.Errorf("failed to scan adr_quotes table results: %w", err)
	}

	if q.PriceUSD, err = ParseDecimal(priceUSD); err != nil {
		return model.ADRQuote{}, err
	}
	if q.PriceBRL, err = ParseDecimal(priceBRL); err != nil {
		return model.ADRQuote{}, err
	}
	if q.ExchangeRate, err = ParseDecimal(rate); err != nil {
		return model.ADRQuote{}, err
	}
	if q.DayChangePercent, err = ParseDecimal(change); err != nil {
		return model.ADRQuote{}, err
	}
	if q.Timestamp, err = ParseTime(timestampStr); err != nil {
		return model.ADRQuote{}, err
	}

	return q, nil
}
