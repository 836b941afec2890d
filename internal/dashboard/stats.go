package dashboard

import (
	"context"

	"go-firewatch/internal/models"
)

func (c *Controller) LoadStatData(ctx context.Context) error {
	return c.loadStats(ctx, false)
}

// loadStats never raises a notice; any failure resets the statistics to empty.
func (c *Controller) loadStats(ctx context.Context, _ bool) error {
	count, err := c.client.FireCount(ctx)
	if err == nil {
		var summary models.Summary
		summary, err = c.client.Summary(ctx)
		if err == nil {
			byRisk := count.ByRisk
			if byRisk == nil {
				byRisk = map[string]int{}
			}
			recent := summary.RecentFires
			if recent == nil {
				recent = []models.FireRecord{}
			}
			c.mu.Lock()
			c.cache.RiskStats = byRisk
			c.cache.Summary = summary
			c.cache.RecentFires = recent
			c.mu.Unlock()
			return nil
		}
	}

	c.logger.Warn("statistics unavailable, showing defaults", "op", "load_stats", "error", err)
	c.mu.Lock()
	c.cache.RiskStats = map[string]int{}
	c.cache.Summary = models.Summary{}
	c.cache.RecentFires = []models.FireRecord{}
	c.mu.Unlock()
	return nil
}
