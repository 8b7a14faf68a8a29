package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
)

// RateFetcher is the slice of market data the FX service needs.
type RateFetcher interface {
	FetchLatestRate() (decimal.Decimal, time.Time, error)
	FetchRateHistory(start, end time.Time) (map[string]decimal.Decimal, error)
	FetchSelicRate() (decimal.Decimal, error)
}

// FXService serves USD/BRL rates from storage, refreshing from BCB when
// the stored rate is missing or outdated.
type FXService struct {
	rateRepo *repository.ExchangeRateRepository
	fetcher  RateFetcher
}

// NewFXService creates a new FXService.
func NewFXService(rateRepo *repository.ExchangeRateRepository, fetcher RateFetcher) *FXService {
	return &FXService{rateRepo: rateRepo, fetcher: fetcher}
}

// GetCurrentRate returns today's stored rate, refreshing from BCB when no
// rate is stored for the current day.
func (s *FXService) GetCurrentRate() (model.ExchangeRate, error) {
	stored, err := s.rateRepo.GetLatestRate()
	if err == nil && stored.Date == time.Now().UTC().Format("2006-01-02") {
		return stored, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrExchangeRateNotFound) {
		return model.ExchangeRate{}, err
	}

	refreshed, refreshErr := s.Refresh()
	if refreshErr != nil {
		// Serve the stale stored rate rather than failing when BCB is
		// unreachable.
		if err == nil {
			return stored, nil
		}
		return model.ExchangeRate{}, apperrors.ErrFailedToRetrieveExchangeRate
	}
	return refreshed, nil
}

// Refresh fetches the latest published PTAX rate and stores it.
func (s *FXService) Refresh() (model.ExchangeRate, error) {
	rate, day, err := s.fetcher.FetchLatestRate()
	if err != nil {
		return model.ExchangeRate{}, err
	}

	record := model.ExchangeRate{
		ID:        uuid.New().String(),
		Date:      day.Format("2006-01-02"),
		Rate:      rate,
		Source:    "bcb",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.rateRepo.UpsertRate(record); err != nil {
		return model.ExchangeRate{}, err
	}
	return record, nil
}

// GetRateHistory returns stored rates for a date range, backfilling from
// BCB when the range is not covered.
func (s *FXService) GetRateHistory(startDate, endDate string) ([]model.ExchangeRate, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, apperrors.ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil || end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}

	stored, err := s.rateRepo.GetRateHistory(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return stored, nil
	}

	fetched, err := s.fetcher.FetchRateHistory(start, end)
	if err != nil {
		return nil, apperrors.ErrFailedToRetrieveExchangeRate
	}
	for date, rate := range fetched {
		record := model.ExchangeRate{
			ID:        uuid.New().String(),
			Date:      date,
			Rate:      rate,
			Source:    "bcb",
			CreatedAt: time.Now().UTC(),
		}
		if err := s.rateRepo.UpsertRate(record); err != nil {
			return nil, err
		}
	}
	return s.rateRepo.GetRateHistory(startDate, endDate)
}

// GetRateForDate returns the stored rate for one day, falling back to the
// latest stored rate when that day has none.
func (s *FXService) GetRateForDate(date string) (model.ExchangeRate, error) {
	rate, err := s.rateRepo.GetRateForDate(date)
	if errors.Is(err, apperrors.ErrExchangeRateNotFound) {
		return s.rateRepo.GetLatestRate()
	}
	return rate, err
}

// GetSelicRate returns the latest annualized SELIC rate.
func (s *FXService) GetSelicRate() (decimal.Decimal, error) {
	return s.fetcher.FetchSelicRate()
}
