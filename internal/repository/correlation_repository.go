package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// CorrelationRepository provides data access methods for the market_correlations table.
type CorrelationRepository struct {
	db *sql.DB
}

// NewCorrelationRepository creates a new CorrelationRepository with the provided database connection.
func NewCorrelationRepository(db *sql.DB) *CorrelationRepository {
	return &CorrelationRepository{db: db}
}

// UpsertCorrelation stores a day's correlation, replacing an existing row
// for the same date.
func (r *CorrelationRepository) UpsertCorrelation(c model.MarketCorrelation) error {
	_, err := r.db.Exec(`
		INSERT INTO market_correlations (id, date, correlation_30d, correlation_7d,
			sp500_return, ibovespa_return, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			correlation_30d = excluded.correlation_30d,
			correlation_7d = excluded.correlation_7d,
			sp500_return = excluded.sp500_return,
			ibovespa_return = excluded.ibovespa_return
	`, c.ID, c.Date, c.Correlation30D.String(), c.Correlation7D.String(),
		c.SP500Return.String(), c.IbovespaReturn.String(),
		c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert correlation: %w", err)
	}
	return nil
}

// GetLatestCorrelation returns the most recent stored correlation.
func (r *CorrelationRepository) GetLatestCorrelation() (model.MarketCorrelation, error) {
	row := r.db.QueryRow(`
		SELECT id, date, correlation_30d, correlation_7d,
			sp500_return, ibovespa_return, created_at
		FROM market_correlations
		ORDER BY date DESC
		LIMIT 1
	`)
	return scanCorrelation(row)
}

// GetPreviousCorrelation returns the stored correlation immediately before
// the given date. Trend analysis compares the two.
func (r *CorrelationRepository) GetPreviousCorrelation(date string) (model.MarketCorrelation, error) {
	row := r.db.QueryRow(`
		SELECT id, date, correlation_30d, correlation_7d,
			sp500_return, ibovespa_return, created_at
		FROM market_correlations
		WHERE date < ?
		ORDER BY date DESC
		LIMIT 1
	`, date)
	return scanCorrelation(row)
}

func scanCorrelation(row rowScanner) (model.MarketCorrelation, error) {
	var c model.MarketCorrelation
	var c30, c7, sp, ibov, createdAtStr string

	err := row.Scan(&c.ID, &c.Date, &c30, &c7, &sp, &ibov, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MarketCorrelation{}, apperrors.ErrCorrelationNotFound
	}
	if err != nil {
		return model.MarketCorrelation{}, fmt.Errorf("failed to scan market_correlations table results: %w", err)
	}

	if c.Correlation30D, err = ParseDecimal(c30); err != nil {
		return model.MarketCorrelation{}, err
	}
	if c.Correlation7D, err = ParseDecimal(c7); err != nil {
		return model.MarketCorrelation{}, err
	}
	if c.SP500Return, err = ParseDecimal(sp); err != nil {
		return model.MarketCorrelation{}, err
	}
	if c.IbovespaReturn, err = ParseDecimal(ibov); err != nil {
		return model.MarketCorrelation{}, err
	}
	if c.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.MarketCorrelation{}, err
	}

	return c, nil
}
