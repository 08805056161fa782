package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anikets94/fundraising-management-backend/config"
	"github.com/anikets94/fundraising-management-backend/internal/profitsharing"
)

// StartStatsRefresh launches the cron job that keeps the per-campaign
// profit stats cache warm. Returns the runner so main can stop it.
func StartStatsRefresh(svc profitsharing.Service, cfg *config.Config) *cron.Cron {
	c := cron.New()

	spec := fmt.Sprintf("@every %dm", cfg.StatsRefreshMinutes)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := svc.RefreshCampaignStatsCache(ctx); err != nil {
			log.Printf("⚠️ Campaign stats refresh failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("⚠️ Could not schedule stats refresh: %v", err)
		return c
	}

	c.Start()
	log.Printf("✅ Campaign stats refresher started (every %d minutes)", cfg.StatsRefreshMinutes)
	return c
}
