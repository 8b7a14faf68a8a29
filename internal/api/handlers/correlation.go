package handlers

import (
	"errors"
	"net/http"

	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
)

// CorrelationHandler handles HTTP requests for the market correlation
// endpoint.
type CorrelationHandler struct {
	correlationService *service.CorrelationService
}

// NewCorrelationHandler creates a new CorrelationHandler with the provided service dependency.
func NewCorrelationHandler(correlationService *service.CorrelationService) *CorrelationHandler {
	return &CorrelationHandler{correlationService: correlationService}
}

// Correlation handles GET requests for the latest S&P 500 vs Ibovespa
// correlation with strength and trend classification.
//
// Endpoint: GET /api/market/correlation
// Response: 200 OK with CorrelationReport
// Error: 404 Not Found if no correlation has been computed yet
func (h *CorrelationHandler) Correlation(w http.ResponseWriter, _ *http.Request) {
	report, err := h.correlationService.GetReport()
	if err != nil {
		if errors.Is(err, apperrors.ErrCorrelationNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCorrelationNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCorrelation.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, report)
}
