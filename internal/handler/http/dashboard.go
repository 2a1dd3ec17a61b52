package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns headcounts, the status summary and pending requests
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
