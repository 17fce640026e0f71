package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const reportTimeout = 2 * time.Minute

// ReportUploader stores a finished report. *storage.S3Storage satisfies it.
type ReportUploader interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
}

// ReportScheduler archives the daily sales workbook.
type ReportScheduler struct {
	cron          *cron.Cron
	schedule      string
	reportService service.ReportService
	uploader      ReportUploader
	now           func() time.Time
}

func NewReportScheduler(schedule string, reportService service.ReportService, uploader ReportUploader) *ReportScheduler {
	return &ReportScheduler{
		cron:          cron.New(cron.WithLocation(reportService.Location())),
		schedule:      schedule,
		reportService: reportService,
		uploader:      uploader,
		now:           time.Now,
	}
}

// ReportKey is the object key the report for day is stored under.
func ReportKey(day time.Time) string {
	return fmt.Sprintf("reports/%s.xlsx", day.Format(service.ReportDateLayout))
}

func (s *ReportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		if err := s.RunOnce(ctx); err != nil {
			logger.Error("Scheduled daily report failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for daily report", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Daily report scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce builds today's report and uploads it.
func (s *ReportScheduler) RunOnce(ctx context.Context) error {
	day := s.now().In(s.reportService.Location())

	data, err := s.reportService.BuildDailyReport(ctx, day)
	if err != nil {
		return err
	}

	key := ReportKey(day)
	if err := s.uploader.PutObject(ctx, key, service.ReportContentType, data); err != nil {
		return err
	}

	logger.Info("Daily report archived", map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	})
	return nil
}

func (s *ReportScheduler) Stop() {
	logger.Info("Stopping daily report scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Daily report scheduler stopped")
}
