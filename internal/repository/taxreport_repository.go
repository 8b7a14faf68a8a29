package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
)

// TaxReportRepository provides data access methods for the tax_reports table.
// One report is kept per (user, year); recomputation replaces it.
type TaxReportRepository struct {
	db *sql.DB
}

// NewTaxReportRepository creates a new TaxReportRepository with the provided database connection.
func NewTaxReportRepository(db *sql.DB) *TaxReportRepository {
	return &TaxReportRepository{db: db}
}

// UpsertReport stores a computed report, replacing the row for the same
// (user, year).
func (r *TaxReportRepository) UpsertReport(report model.TaxReport) error {
	_, err := r.db.Exec(`
		INSERT INTO tax_reports (id, user_id, year, tax_owed, net_gains,
			compensable_losses, day_trade_compensable_losses, summary_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, year) DO UPDATE SET
			tax_owed = excluded.tax_owed,
			net_gains = excluded.net_gains,
			compensable_losses = excluded.compensable_losses,
			day_trade_compensable_losses = excluded.day_trade_compensable_losses,
			summary_json = excluded.summary_json,
			created_at = excluded.created_at
	`, report.ID, report.UserID, report.Year, report.TaxOwed.String(),
		report.NetGains.String(), report.CompensableLosses.String(),
		report.DayTradeCompensableLosses.String(), report.SummaryJSON,
		report.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert tax report: %w", err)
	}
	return nil
}

// GetReport returns the stored report for a (user, year).
func (r *TaxReportRepository) GetReport(userID string, year int) (model.TaxReport, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, year, tax_owed, net_gains,
			compensable_losses, day_trade_compensable_losses, summary_json, created_at
		FROM tax_reports
		WHERE user_id = ? AND year = ?
	`, userID, year)
	return scanTaxReport(row)
}

// GetReportsForUser returns a user's stored reports, oldest year first.
func (r *TaxReportRepository) GetReportsForUser(userID string) ([]model.TaxReport, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, year, tax_owed, net_gains,
			compensable_losses, day_trade_compensable_losses, summary_json, created_at
		FROM tax_reports
		WHERE user_id = ?
		ORDER BY year ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax_reports table: %w", err)
	}
	defer rows.Close()

	reports := []model.TaxReport{}
	for rows.Next() {
		report, err := scanTaxReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax_reports table: %w", err)
	}
	return reports, nil
}

func scanTaxReport(row rowScanner) (model.TaxReport, error) {
	var report model.TaxReport
	var owed, net, losses, dtLosses, createdAtStr string

	err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Year,
		&owed,
		&net,
		&losses,
		&dtLosses,
		&report.SummaryJSON,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaxReport{}, apperrors.ErrTaxReportNotFound
	}
	if err != nil {
		return model.TaxReport{}, fmt.Errorf("failed to scan tax_reports table results: %w", err)
	}

	if report.TaxOwed, err = ParseDecimal(owed); err != nil {
		return model.TaxReport{}, err
	}
	if report.NetGains, err = ParseDecimal(net); err != nil {
		return model.TaxReport{}, err
	}
	if report.CompensableLosses, err = ParseDecimal(losses); err != nil {
		return model.TaxReport{}, err
	}
	if report.DayTradeCompensableLosses, err = ParseDecimal(dtLosses); err != nil {
		return model.TaxReport{}, err
	}
	if report.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.TaxReport{}, err
	}

	return report, nil
}
