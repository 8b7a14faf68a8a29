package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/marketdata"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
)

// QuoteFetcher is the slice of market data the quote service needs.
type QuoteFetcher interface {
	FetchQuote(ticker string) (marketdata.Quote, error)
}

// QuoteService serves ADR quotes from storage, refreshing from upstream
// sources when the stored quote is stale or absent.
type QuoteService struct {
	quoteRepo    *repository.QuoteRepository
	fetcher      QuoteFetcher
	fx           *FXService
	supported    map[string]bool
	tickers      []string
	staleness    time.Duration
	delayMinutes int
}

// NewQuoteService creates a new QuoteService. tickers is the supported
// ADR list; delayMinutes is the published quote delay.
func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	fetcher QuoteFetcher,
	fx *FXService,
	tickers []string,
	delayMinutes int,
) *QuoteService {
	supported := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		supported[t] = true
	}
	return &QuoteService{
		quoteRepo:    quoteRepo,
		fetcher:      fetcher,
		fx:           fx,
		supported:    supported,
		tickers:      tickers,
		staleness:    time.Duration(delayMinutes) * time.Minute,
		delayMinutes: delayMinutes,
	}
}

// SupportedTickers returns the configured ADR list.
func (s *QuoteService) SupportedTickers() []string {
	return s.tickers
}

// Supported reports whether a ticker is on the ADR list.
func (s *QuoteService) Supported(ticker string) bool {
	return s.supported[ticker]
}

// GetQuote returns the latest quote for a supported ticker, refreshing
// when the stored quote is older than the delay window.
func (s *QuoteService) GetQuote(ticker string) (model.ADRQuote, error) {
	if !s.supported[ticker] {
		return model.ADRQuote{}, apperrors.ErrTickerNotSupported
	}

	stored, err := s.quoteRepo.GetLatestQuote(ticker)
	if err == nil && time.Since(stored.Timestamp) < s.staleness {
		return stored, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrQuoteNotFound) {
		return model.ADRQuote{}, err
	}

	refreshed, refreshErr := s.Refresh(ticker)
	if refreshErr != nil {
		// A stale quote beats no quote when upstream is down.
		if err == nil {
			return stored, nil
		}
		return model.ADRQuote{}, apperrors.ErrQuoteUnavailable
	}
	return refreshed, nil
}

// Refresh fetches a quote from upstream, converts it to BRL at the
// current rate and stores it.
func (s *QuoteService) Refresh(ticker string) (model.ADRQuote, error) {
	if !s.supported[ticker] {
		return model.ADRQuote{}, apperrors.ErrTickerNotSupported
	}

	fetched, err := s.fetcher.FetchQuote(ticker)
	if err != nil {
		return model.ADRQuote{}, err
	}

	rate, err := s.fx.GetCurrentRate()
	if err != nil {
		return model.ADRQuote{}, err
	}

	quote := model.ADRQuote{
		ID:               uuid.New().String(),
		Ticker:           ticker,
		PriceUSD:         fetched.PriceUSD,
		PriceBRL:         fetched.PriceUSD.Mul(rate.Rate),
		ExchangeRate:     rate.Rate,
		Volume:           fetched.Volume,
		DayChangePercent: fetched.DayChangePercent,
		Timestamp:        fetched.Timestamp,
		Source:           fetched.Source,
		DelayMinutes:     s.delayMinutes,
	}
	if err := s.quoteRepo.SaveQuote(quote); err != nil {
		return model.ADRQuote{}, err
	}
	return quote, nil
}

// CleanupBefore drops stored quotes older than the cutoff.
func (s *QuoteService) CleanupBefore(cutoff time.Time) (int64, error) {
	return s.quoteRepo.DeleteQuotesBefore(cutoff)
}
