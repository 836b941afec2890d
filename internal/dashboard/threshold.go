package dashboard

import (
	"context"

	"go-firewatch/internal/forms"
)

func (c *Controller) LoadThresholdData(ctx context.Context) error {
	return c.loadThreshold(ctx, true)
}

func (c *Controller) loadThreshold(ctx context.Context, alert bool) error {
	th, err := c.client.Threshold(ctx)
	if err != nil {
		return c.fail(failed("load_threshold", "Failed to load threshold settings", err), alert)
	}
	c.mu.Lock()
	c.forms.Threshold = forms.ThresholdFrom(th)
	c.mu.Unlock()
	return nil
}

// UpdateThresholds sends the normalized buffer and keeps what was sent.
func (c *Controller) UpdateThresholds(ctx context.Context) error {
	c.mu.Lock()
	th := c.forms.Threshold.Normalize()
	c.mu.Unlock()

	if err := c.client.UpdateThreshold(ctx, th); err != nil {
		return c.fail(failed("update_threshold", "Failed to update threshold settings", err), true)
	}
	c.mu.Lock()
	c.forms.Threshold = forms.ThresholdFrom(th)
	c.mu.Unlock()
	c.succeed("Threshold settings updated")
	return nil
}
