package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// PositionRepository provides data access methods for the positions table.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// UpsertPosition stores a holding, replacing the row for the same
// (user, ticker).
func (r *PositionRepository) UpsertPosition(p model.Position) error {
	_, err := r.db.Exec(`
		INSERT INTO positions (id, user_id, ticker, quantity, avg_price_usd, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, ticker) DO UPDATE SET
			quantity = excluded.quantity,
			avg_price_usd = excluded.avg_price_usd,
			updated_at = excluded.updated_at
	`, p.ID, p.UserID, p.Ticker, p.Quantity.String(), p.AvgPriceUSD.String(),
		p.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

// GetPosition returns a user's holding in one ticker.
func (r *PositionRepository) GetPosition(userID, ticker string) (model.Position, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, ticker, quantity, avg_price_usd, updated_at
		FROM positions
		WHERE user_id = ? AND ticker = ?
	`, userID, ticker)
	return scanPosition(row)
}

// GetPositionsForUser returns a user's holdings ordered by ticker.
func (r *PositionRepository) GetPositionsForUser(userID string) ([]model.Position, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, ticker, quantity, avg_price_usd, updated_at
		FROM positions
		WHERE user_id = ?
		ORDER BY ticker ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions table: %w", err)
	}
	return positions, nil
}

// DeletePosition removes a holding scoped to a user.
func (r *PositionRepository) DeletePosition(userID, ticker string) error {
	res, err := r.db.Exec(`DELETE FROM positions WHERE user_id = ? AND ticker = ?`, userID, ticker)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}
	return nil
}

func scanPosition(row rowScanner) (model.Position, error) {
	var p model.Position
	var qty, avgPrice, updatedAtStr string

	err := row.Scan(&p.ID, &p.UserID, &p.Ticker, &qty, &avgPrice, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to scan positions table results: %w", err)
	}

	if p.Quantity, err = ParseDecimal(qty); err != nil {
		return model.Position{}, err
	}
	if p.AvgPriceUSD, err = ParseDecimal(avgPrice); err != nil {
		return model.Position{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Position{}, err
	}

	return p, nil
}
