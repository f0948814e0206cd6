package handler

import (
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	analyticsService *service.AnalyticsService
}

func NewDashboardHandler(dashboardService *service.DashboardService, analyticsService *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		analyticsService: analyticsService,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.dashboardService.Summary(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Analytics returns monthly workout and nutrition statistics, oldest month first.
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	report, err := h.analyticsService.Monthly(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
