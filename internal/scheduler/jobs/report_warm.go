package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wardline/medshift/backend/internal/analytics"
	"github.com/wardline/medshift/backend/internal/storage"
	"github.com/wardline/medshift/backend/pkg/config"
	"github.com/wardline/medshift/backend/pkg/logger"
)

// ReportWarmJob recomputes the current-month report for recently active
// facilities and repopulates the Redis cache, so morning dashboard loads
// hit warm entries.
// Schedule: 2:30 AM, when marketplace write traffic is lowest.
type ReportWarmJob struct {
	service *analytics.Service
	repo    *storage.Repository
	cfg     config.AnalyticsConfig
	logger  *logger.Logger
}

// NewReportWarmJob creates a new report warm job
func NewReportWarmJob(service *analytics.Service, repo *storage.Repository, cfg config.AnalyticsConfig, log *logger.Logger) *ReportWarmJob {
	return &ReportWarmJob{
		service: service,
		repo:    repo,
		cfg:     cfg,
		logger:  log,
	}
}

// Name returns the job name
func (j *ReportWarmJob) Name() string {
	return "report_warm"
}

// Schedule returns the cron schedule (2:30 AM daily, with seconds)
func (j *ReportWarmJob) Schedule() string {
	return "0 30 2 * * *"
}

// Run warms the report cache for every recently active facility. A single
// facility failure is logged and skipped; the job only fails when no
// facility could be warmed.
func (j *ReportWarmJob) Run(ctx context.Context) error {
	since := time.Now().AddDate(0, 0, -j.cfg.WarmWindowDays)

	facilities, err := j.repo.ListActiveFacilities(ctx, since)
	if err != nil {
		return fmt.Errorf("list active facilities: %w", err)
	}

	if len(facilities) == 0 {
		j.logger.Info("No recently active facilities, nothing to warm")
		return nil
	}

	var warmed, failed int
	for _, facility := range facilities {
		if _, err := j.service.CachedReport(ctx, facility.ID, nil, nil, true); err != nil {
			failed++
			j.logger.WithError(err).WithField("facility_id", facility.ID).Warn("Report warm failed for facility")
			continue
		}
		warmed++
	}

	j.logger.WithFields(map[string]interface{}{
		"facilities": len(facilities),
		"warmed":     warmed,
		"failed":     failed,
	}).Info("Report cache warm completed")

	if warmed == 0 {
		return fmt.Errorf("report warm failed for all %d facilities", failed)
	}

	return nil
}
