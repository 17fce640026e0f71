package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	apperrors "github.com/imperiopizzas/imperio-backend/internal/errors"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
)

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// DownloadDailyReport streams the xlsx report for one local day. Without a
// date it reports today.
// GET /api/admin/reports/daily?date=YYYY-MM-DD
func (ctrl *ReportController) DownloadDailyReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	loc := ctrl.reportService.Location()

	day := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(service.ReportDateLayout, raw, loc)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	body, err := ctrl.reportService.BuildDailyReport(c.Request.Context(), day)
	if err != nil {
		log.Error("Failed to build daily report", err, map[string]interface{}{
			"date": day.Format(service.ReportDateLayout),
		})
		apperrors.InternalError(c, "Failed to build report", err)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", day.Format(service.ReportDateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, service.ReportContentType, body)
}
