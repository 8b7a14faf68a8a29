package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/tax"
	"github.com/financeapi-br/backend/internal/validation"
)

// TaxService runs the yearly tax computation over a user's ledger and
// persists the results. Years are always computed oldest first so each
// year's compensable losses feed the next.
type TaxService struct {
	transactionRepo *repository.TransactionRepository
	reportRepo      *repository.TaxReportRepository
	transactions    *TransactionService
	engine          *tax.Engine
}

// NewTaxService creates a new TaxService with the provided dependencies.
func NewTaxService(
	transactionRepo *repository.TransactionRepository,
	reportRepo *repository.TaxReportRepository,
	transactions *TransactionService,
	engine *tax.Engine,
) *TaxService {
	return &TaxService{
		transactionRepo: transactionRepo,
		reportRepo:      reportRepo,
		transactions:    transactions,
		engine:          engine,
	}
}

// Calculate records any inline transactions, then computes every year
// from the ledger's oldest up to the requested one, persisting each
// report along the way. Returns the requested year's summary.
func (s *TaxService) Calculate(userID string, req request.TaxCalculationRequest) (*tax.YearlySummary, error) {
	if err := validation.ValidateTaxCalculation(req); err != nil {
		return nil, err
	}

	for _, txReq := range req.Transactions {
		if _, err := s.transactions.CreateTransaction(userID, txReq); err != nil {
			return nil, err
		}
	}

	return s.computeThrough(userID, req.Year)
}

// GetReport returns the stored summary for a (user, year).
func (s *TaxService) GetReport(userID string, year int) (*tax.YearlySummary, error) {
	report, err := s.reportRepo.GetReport(userID, year)
	if err != nil {
		return nil, err
	}
	return unmarshalSummary(report)
}

// computeThrough walks from the oldest ledger year to the target year.
// Stored reports for earlier years are reused as carryforward inputs;
// missing ones are computed and persisted.
func (s *TaxService) computeThrough(userID string, year int) (*tax.YearlySummary, error) {
	startYear := year
	oldest, err := s.transactionRepo.GetOldestTransactionYear(userID)
	if err != nil {
		return nil, err
	}
	if oldest != 0 && oldest < year {
		startYear = oldest
	}

	var prior *tax.YearlySummary
	for y := startYear; y < year; y++ {
		stored, err := s.reportRepo.GetReport(userID, y)
		if err == nil {
			if prior, err = unmarshalSummary(stored); err != nil {
				return nil, err
			}
			continue
		}
		if !errors.Is(err, apperrors.ErrTaxReportNotFound) {
			return nil, err
		}

		if prior, err = s.computeYear(userID, y, prior); err != nil {
			return nil, err
		}
	}

	return s.computeYear(userID, year, prior)
}

func (s *TaxService) computeYear(userID string, year int, prior *tax.YearlySummary) (*tax.YearlySummary, error) {
	ledger, err := s.transactionRepo.GetTransactionsForYear(userID, year)
	if err != nil {
		return nil, err
	}

	summary, err := s.engine.Calculate(year, toEngineTransactions(ledger), prior)
	if err != nil {
		return nil, err
	}

	if err := s.persistReport(userID, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *TaxService) persistReport(userID string, summary *tax.YearlySummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal tax summary: %w", err)
	}

	return s.reportRepo.UpsertReport(model.TaxReport{
		ID:                        uuid.New().String(),
		UserID:                    userID,
		Year:                      summary.Year,
		TaxOwed:                   summary.TaxOwed,
		NetGains:                  summary.NetGains,
		CompensableLosses:         summary.CompensableLosses,
		DayTradeCompensableLosses: summary.DayTradeCompensableLosses,
		SummaryJSON:               string(payload),
		CreatedAt:                 time.Now().UTC(),
	})
}

func toEngineTransactions(ledger []model.Transaction) []tax.Transaction {
	transactions := make([]tax.Transaction, len(ledger))
	for i, t := range ledger {
		transactions[i] = tax.Transaction{
			ID:           t.ID,
			Ticker:       t.Ticker,
			Type:         tax.TradeType(t.Type),
			Quantity:     t.Quantity,
			PriceUSD:     t.PriceUSD,
			ExchangeRate: t.ExchangeRate,
			Date:         t.Date,
			BrokerageFee: t.BrokerageFee,
		}
	}
	return transactions
}

func unmarshalSummary(report model.TaxReport) (*tax.YearlySummary, error) {
	var summary tax.YearlySummary
	if err := json.Unmarshal([]byte(report.SummaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored tax summary: %w", err)
	}
	return &summary, nil
}
