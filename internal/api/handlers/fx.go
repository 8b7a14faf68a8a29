package handlers

import (
	"errors"
	"net/http"

	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
)

// FXHandler handles HTTP requests for exchange rate endpoints.
type FXHandler struct {
	fxService *service.FXService
}

// NewFXHandler creates a new FXHandler with the provided service dependency.
func NewFXHandler(fxService *service.FXService) *FXHandler {
	return &FXHandler{fxService: fxService}
}

// CurrentRate handles GET requests for the current USD/BRL rate.
//
// Endpoint: GET /api/fx/current
// Response: 200 OK with ExchangeRate
// Error: 502 Bad Gateway if no rate is stored and BCB is unreachable
func (h *FXHandler) CurrentRate(w http.ResponseWriter, _ *http.Request) {
	rate, err := h.fxService.GetCurrentRate()
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrieveExchangeRate.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, rate)
}

// RateHistory handles GET requests for historical rates.
//
// Endpoint: GET /api/fx/history?start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with array of ExchangeRate
// Error: 400 Bad Request if the range is malformed
func (h *FXHandler) RateHistory(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	rates, err := h.fxService.GetRateHistory(start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), "start and end must be YYYY-MM-DD")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveExchangeRate.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, rates)
}

// SelicRate handles GET requests for the current SELIC rate.
//
// Endpoint: GET /api/fx/selic
// Response: 200 OK with the annualized rate
func (h *FXHandler) SelicRate(w http.ResponseWriter, _ *http.Request) {
	rate, err := h.fxService.GetSelicRate()
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, "failed to retrieve SELIC rate", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]string{"selic": rate.String()})
}
