package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
)

// QuoteHandler handles HTTP requests for ADR quote endpoints.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler with the provided service dependency.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Tickers handles GET requests for the supported ADR list.
//
// Endpoint: GET /api/quotes
// Response: 200 OK with array of tickers
func (h *QuoteHandler) Tickers(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, map[string][]string{
		"tickers": h.quoteService.SupportedTickers(),
	})
}

// Quote handles GET requests for one ticker's latest quote, refreshing
// from upstream when the stored quote is stale.
//
// Endpoint: GET /api/quotes/{ticker}
// Response: 200 OK with ADRQuote
// Error: 404 Not Found if the ticker is not supported
// Error: 502 Bad Gateway if no quote could be obtained
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	quote, err := h.quoteService.GetQuote(ticker)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTickerNotSupported):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTickerNotSupported.Error(), ticker)
		case errors.Is(err, apperrors.ErrQuoteUnavailable):
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrQuoteUnavailable.Error(), nil)
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuote.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}
