package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
	"github.com/financeapi-br/backend/internal/tax"
	"github.com/financeapi-br/backend/internal/validation"
)

// TaxHandler handles HTTP requests for the tax calculation endpoints.
type TaxHandler struct {
	taxService *service.TaxService
}

// NewTaxHandler creates a new TaxHandler with the provided service dependency.
func NewTaxHandler(taxService *service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// Calculate handles POST requests to run the yearly tax computation.
// Inline transactions are recorded to the ledger first; every year from
// the ledger's oldest through the requested one is computed and stored.
//
// Endpoint: POST /api/taxes/calculate
// Request Body: TaxCalculationRequest (year, optional transactions)
// Response: 200 OK with YearlySummary
// Error: 400 Bad Request if validation fails
// Error: 422 Unprocessable Entity if the ledger oversells a position
func (h *TaxHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	req, err := parseJSON[request.TaxCalculationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	summary, err := h.taxService.Calculate(user.ID, req)
	if err != nil {
		var verr *validation.Error
		var integrity *tax.IntegrityError
		var engineValidation *tax.ValidationError
		switch {
		case errors.As(err, &verr):
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		case errors.As(err, &engineValidation):
			response.RespondError(w, http.StatusBadRequest, "validation failed", engineValidation.Error())
		case errors.As(err, &integrity):
			response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrDataInconsistency.Error(), integrity.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCalculateTaxes.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Report handles GET requests for a stored yearly report.
//
// Endpoint: GET /api/taxes/{year}
// Response: 200 OK with YearlySummary
// Error: 400 Bad Request if year is not a number
// Error: 404 Not Found if no report is stored for the year
func (h *TaxHandler) Report(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "year must be a number", nil)
		return
	}

	summary, err := h.taxService.GetReport(user.ID, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrTaxReportNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTaxReportNotFound.Error(), year)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCalculateTaxes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
