package handlers

import (
	"net/http"

	"github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/service"
)

// AnalyticsHandler handles HTTP requests for the risk analytics endpoint.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler with the provided service dependency.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RiskReport handles GET requests for the portfolio risk report.
//
// Endpoint: GET /api/analytics/risk
// Response: 200 OK with RiskReport
func (h *AnalyticsHandler) RiskReport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	report, err := h.analyticsService.GetRiskReport(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to build risk report", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, report)
}
