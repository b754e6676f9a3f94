package workflow

import (
	"context"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/robfig/cron/v3"
)

// StartDailySummaryCron schedules the daily sales roll-up. The schedule comes
// from DAILY_SUMMARY_CRON; defaults to a nightly run shortly after midnight.
func StartDailySummaryCron() (*cron.Cron, error) {
	logger := config.GetLogger()

	schedule := os.Getenv("DAILY_SUMMARY_CRON")
	if schedule == "" {
		schedule = "15 0 * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		// roll up yesterday; today's partial numbers come from on-demand rebuilds
		yesterday := time.Now().UTC().Add(-24 * time.Hour)
		if err := models.RebuildDailySummariesForAll(ctx, yesterday); err != nil {
			config.LogError(logger, "dailySummaryWorker.go", "StartDailySummaryCron", "RebuildDailySummariesForAll", yesterday, err)
			return
		}
		logger.Infof("daily summary roll-up complete for %s", yesterday.Format("2006-01-02"))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
