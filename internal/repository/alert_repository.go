package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// AlertRepository provides data access methods for the price_alerts table.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new AlertRepository with the provided database connection.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// CreateAlert inserts a new alert.
func (r *AlertRepository) CreateAlert(a model.PriceAlert) error {
	_, err := r.db.Exec(`
		INSERT INTO price_alerts (id, user_id, ticker, condition, target_value,
			channel, webhook_url, active, triggered_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
	`, a.ID, a.UserID, a.Ticker, a.Condition, a.TargetValue.String(),
		a.Channel, a.WebhookURL, a.Active, a.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// GetAlert returns one alert scoped to a user.
func (r *AlertRepository) GetAlert(userID, id string) (model.PriceAlert, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, ticker, condition, target_value,
			channel, webhook_url, active, triggered_at, created_at
		FROM price_alerts
		WHERE user_id = ? AND id = ?
	`, userID, id)
	return scanAlert(row)
}

// GetAlertsForUser returns a user's alerts, newest first.
func (r *AlertRepository) GetAlertsForUser(userID string) ([]model.PriceAlert, error) {
	return r.queryAlerts(`
		SELECT id, user_id, ticker, condition, target_value,
			channel, webhook_url, active, triggered_at, created_at
		FROM price_alerts
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
}

// GetActiveAlerts returns every active, not-yet-triggered alert. The
// scheduler sweep runs against this set.
func (r *AlertRepository) GetActiveAlerts() ([]model.PriceAlert, error) {
	return r.queryAlerts(`
		SELECT id, user_id, ticker, condition, target_value,
			channel, webhook_url, active, triggered_at, created_at
		FROM price_alerts
		WHERE active = 1 AND triggered_at IS NULL
		ORDER BY created_at ASC
	`)
}

// CountAlertsForUser returns the user's active and triggered alert counts.
func (r *AlertRepository) CountAlertsForUser(userID string) (active, triggered int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN active = 1 AND triggered_at IS NULL THEN 1 END),
			COUNT(CASE WHEN triggered_at IS NOT NULL THEN 1 END)
		FROM price_alerts
		WHERE user_id = ?
	`, userID).Scan(&active, &triggered)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return active, triggered, nil
}

// MarkTriggered stamps the alert's trigger time.
func (r *AlertRepository) MarkTriggered(id string, at time.Time) error {
	res, err := r.db.Exec(`
		UPDATE price_alerts SET triggered_at = ? WHERE id = ? AND triggered_at IS NULL
	`, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

// DeleteAlert removes one alert scoped to a user.
func (r *AlertRepository) DeleteAlert(userID, id string) error {
	res, err := r.db.Exec(`DELETE FROM price_alerts WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepository) queryAlerts(query string, args ...any) ([]model.PriceAlert, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_alerts table: %w", err)
	}
	defer rows.Close()

	alerts := []model.PriceAlert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_alerts table: %w", err)
	}
	return alerts, nil
}

func scanAlert(row rowScanner) (model.PriceAlert, error) {
	var a model.PriceAlert
	var target, createdAtStr string
	var triggeredAtStr sql.NullString

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Ticker,
		&a.Condition,
		&target,
		&a.Channel,
		&a.WebhookURL,
		&a.Active,
		&triggeredAtStr,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PriceAlert{}, apperrors.ErrAlertNotFound
	}
	if err != nil {
		return model.PriceAlert{}, fmt.Errorf("failed to scan price_alerts table results: %w", err)
	}

	if a.TargetValue, err = ParseDecimal(target); err != nil {
		return model.PriceAlert{}, err
	}
	if a.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.PriceAlert{}, err
	}
	if triggeredAtStr.Valid {
		t, err := ParseTime(triggeredAtStr.String)
		if err != nil {
			return model.PriceAlert{}, err
		}
		a.TriggeredAt = &t
	}

	return a, nil
}
