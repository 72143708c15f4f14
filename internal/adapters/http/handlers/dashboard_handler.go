package handlers

import (
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns statistics scoped to the caller's role
// @Summary Get dashboard
// @Description Admins see marketplace totals, employers their posted jobs, workers their assignments
// @Tags Dashboard
// @Produce json
// @Security SessionCookie
// @Success 200 {object} services.Dashboard
// @Failure 401 {object} response.ErrorBody
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	data, err := h.dashboardService.Get(c.Context(), p)
	if err != nil {
		return err
	}
	return response.OK(c, data)
}
