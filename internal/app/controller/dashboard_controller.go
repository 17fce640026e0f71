package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	apperrors "github.com/imperiopizzas/imperio-backend/internal/errors"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns counters, today's revenue and the sorted order board
// GET /api/admin/dashboard
func (ctrl *DashboardController) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to build dashboard", err)
		apperrors.InternalError(c, "Failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
