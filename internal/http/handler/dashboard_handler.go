package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// Metrics godoc
// @Summary Dashboard metrics
// @Description Aggregated pipeline, cost sheet, and finance figures for the filtered period
// @Tags Dashboard
// @Produce json
// @Param period query string false "Relative date window" Enums(last_month, last_3_months, last_6_months, last_year, last_financial_year, custom)
// @Param startDate query string false "Custom period start (YYYY-MM-DD)"
// @Param endDate query string false "Custom period end (YYYY-MM-DD)"
// @Param status query string false "Filter by cost sheet status"
// @Param customerName query string false "Filter by customer name"
// @Success 200 {object} domain.DashboardMetricsDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.Metrics(r.Context(), costSheetFilters(r))
	if err != nil {
		h.logger.Error("failed to compute dashboard metrics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
