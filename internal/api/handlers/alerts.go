package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
	"github.com/financeapi-br/backend/internal/validation"
)

// AlertHandler handles HTTP requests for price alert endpoints.
type AlertHandler struct {
	alertService *service.AlertService
}

// NewAlertHandler creates a new AlertHandler with the provided service dependency.
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// List handles GET requests for the user's alerts.
//
// Endpoint: GET /api/alerts
// Response: 200 OK with array of PriceAlert
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	alerts, err := h.alertService.GetAlerts(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAlerts.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, alerts)
}

// Create handles POST requests to register an alert.
//
// Endpoint: POST /api/alerts
// Request Body: CreateAlertRequest
// Response: 201 Created with PriceAlert
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the ticker is not supported
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	req, err := parseJSON[request.CreateAlertRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	alert, err := h.alertService.CreateAlert(user.ID, req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		case errors.Is(err, apperrors.ErrTickerNotSupported):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTickerNotSupported.Error(), req.Ticker)
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to create alert", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, alert)
}

// Delete handles DELETE requests to remove an alert.
//
// Endpoint: DELETE /api/alerts/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if the ID is not a UUID
// Error: 404 Not Found if the alert does not exist for this user
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id := chi.URLParam(r, "uuid")

	if err := h.alertService.DeleteAlert(user.ID, id); err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidUUID):
			response.RespondError(w, http.StatusBadRequest, validation.ErrInvalidUUID.Error(), id)
		case errors.Is(err, apperrors.ErrAlertNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAlertNotFound.Error(), nil)
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to delete alert", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
