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

// PortfolioHandler handles HTTP requests for position and portfolio
// endpoints.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// Positions handles GET requests for the user's raw holdings.
//
// Endpoint: GET /api/portfolio/positions
// Response: 200 OK with array of Position
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	positions, err := h.portfolioService.GetPositions(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, positions)
}

// UpsertPosition handles PUT requests to set a holding.
//
// Endpoint: PUT /api/portfolio/positions
// Request Body: UpsertPositionRequest
// Response: 200 OK with Position
// Error: 400 Bad Request if validation fails
func (h *PortfolioHandler) UpsertPosition(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	req, err := parseJSON[request.UpsertPositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	position, err := h.portfolioService.UpsertPosition(user.ID, req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to store position", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// DeletePosition handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/portfolio/positions/{ticker}
// Response: 204 No Content
// Error: 404 Not Found if the holding does not exist
func (h *PortfolioHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	ticker := chi.URLParam(r, "ticker")

	if err := h.portfolioService.DeletePosition(user.ID, ticker); err != nil {
		if errors.Is(err, apperrors.ErrPositionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), ticker)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete position", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Summary handles GET requests for the portfolio valued at current
// quotes.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioSummary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	summary, err := h.portfolioService.GetSummary(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolioSummary.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, summary)
}

// Dashboard handles GET requests for the dollar-impact dashboard.
//
// Endpoint: GET /api/portfolio/dashboard
// Response: 200 OK with DollarImpactDashboard
func (h *PortfolioHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	dashboard, err := h.portfolioService.GetDashboard(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetDashboard.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, dashboard)
}
