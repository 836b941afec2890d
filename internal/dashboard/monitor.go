package dashboard

import (
	"context"

	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
	"go-firewatch/internal/notify"
)

func (c *Controller) LoadMonitorData(ctx context.Context) error {
	return c.loadMonitor(ctx, true)
}

// loadMonitor applies points and records only when both fetches succeed.
func (c *Controller) loadMonitor(ctx context.Context, alert bool) error {
	points, err := c.client.MonitorPoints(ctx)
	if err != nil {
		return c.fail(failed("load_monitor_points", "Failed to load monitor data", err), alert)
	}
	records, err := c.client.LatestRecords(ctx)
	if err != nil {
		return c.fail(failed("load_monitor_records", "Failed to load monitor data", err), alert)
	}

	c.mu.Lock()
	c.cache.MonitorPoints = points
	c.cache.MonitorRecords = records
	c.mu.Unlock()
	return nil
}

func (c *Controller) OpenAddPoint() {
	c.modals.Open(ModalAddPoint)
}

func (c *Controller) OpenAddRecord() {
	c.modals.Open(ModalAddRecord)
}

func (c *Controller) AddMonitorPoint(ctx context.Context) error {
	c.mu.Lock()
	f := c.forms.Point
	c.mu.Unlock()

	req, err := f.Parse()
	if err != nil {
		return c.reject("add_monitor_point", err)
	}
	if err := c.client.CreateMonitorPoint(ctx, req); err != nil {
		return c.fail(failedWithDetail("add_monitor_point", "Failed to add monitor point", err), true)
	}

	c.succeed("Monitor point added")
	c.mu.Lock()
	c.forms.Point = forms.DefaultPoint()
	c.mu.Unlock()
	c.modals.Close(ModalAddPoint)
	_ = c.loadMonitor(ctx, true)
	return nil
}

func (c *Controller) AddMonitorRecord(ctx context.Context) error {
	if !c.session.IsLoggedIn() {
		return c.reject("add_monitor_record", &ValidationError{Field: "session", Message: "Please log in first"})
	}

	c.mu.Lock()
	f := c.forms.Record
	c.mu.Unlock()

	req, err := f.Parse()
	if err != nil {
		return c.reject("add_monitor_record", err)
	}
	if err := c.client.CreateMonitorRecord(ctx, req); err != nil {
		return c.fail(failedWithDetail("add_monitor_record", "Failed to add monitor record", err), true)
	}

	c.succeed("Monitor record added")
	c.mu.Lock()
	c.forms.Record = forms.DefaultRecord(f.MonitorPointID)
	view := c.view
	c.mu.Unlock()
	c.modals.Close(ModalAddRecord)

	_ = c.loadMonitor(ctx, true)
	if view == ViewPrediction {
		_ = c.loadPredictions(ctx, true)
	}
	return nil
}

// MonitorDetail raises an info notice describing one reading.
func (c *Controller) MonitorDetail(r models.MonitorRecord) {
	notify.Infof(c.notifier,
		"Monitor point: %s\nTime: %s\nWind speed: %g m/s\nTemperature: %g °C\nHumidity: %g %%\nLongitude: %g\nLatitude: %g",
		r.MonitorPointName, r.Timestamp, r.WindSpeed, r.Temperature, r.Humidity, r.Longitude, r.Latitude)
}

func (c *Controller) deleteMonitorRecord(ctx context.Context, id int) error {
	if err := c.client.DeleteMonitorRecord(ctx, id); err != nil {
		return c.fail(failed("delete_monitor_record", "Failed to delete monitor record", err), true)
	}
	c.succeed("Monitor record deleted")
	_ = c.loadMonitor(ctx, true)
	return nil
}
