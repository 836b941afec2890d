package dashboard

import "context"

type View int

const (
	ViewMonitor View = iota
	ViewPrediction
	ViewFireSettings
	ViewStats
	ViewUsers
)

// Views lists every view in tab order.
var Views = []View{ViewMonitor, ViewPrediction, ViewFireSettings, ViewStats, ViewUsers}

func (v View) String() string {
	switch v {
	case ViewMonitor:
		return "monitor"
	case ViewPrediction:
		return "prediction"
	case ViewFireSettings:
		return "fireSettings"
	case ViewStats:
		return "stats"
	case ViewUsers:
		return "users"
	default:
		return "unknown"
	}
}

func (v View) Title() string {
	switch v {
	case ViewMonitor:
		return "Monitor"
	case ViewPrediction:
		return "Prediction"
	case ViewFireSettings:
		return "Fire Settings"
	case ViewStats:
		return "Statistics"
	case ViewUsers:
		return "Users"
	default:
		return "?"
	}
}

func ParseView(s string) (View, bool) {
	for _, v := range Views {
		if v.String() == s {
			return v, true
		}
	}
	return ViewMonitor, false
}

type loader func(ctx context.Context, alert bool) error

func (c *Controller) loaderFor(v View) loader {
	switch v {
	case ViewMonitor:
		return c.loadMonitor
	case ViewPrediction:
		return c.loadPredictions
	case ViewFireSettings:
		return c.loadThreshold
	case ViewStats:
		return c.loadStats
	case ViewUsers:
		return func(ctx context.Context, alert bool) error {
			if !c.session.IsAdmin() {
				c.mu.Lock()
				c.cache.Users = nil
				c.mu.Unlock()
				return nil
			}
			return c.loadUsers(ctx, alert)
		}
	}
	c.logger.Error("no loader for view", "view", int(v))
	return func(context.Context, bool) error { return nil }
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetView switches views and runs the new view's loader once.
func (c *Controller) SetView(ctx context.Context, v View) error {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
	c.logger.Debug("view changed", "view", v.String())
	return c.loaderFor(v)(ctx, true)
}

// LoadInitialData reruns the current view's loader without raising notices.
func (c *Controller) LoadInitialData(ctx context.Context) {
	v := c.View()
	if err := c.loaderFor(v)(ctx, false); err != nil {
		c.logger.Warn("initial load failed", "view", v.String(), "error", err)
	}
}

// RefreshActive reloads the monitor or prediction view after a live change signal.
// It reports whether a reload ran.
func (c *Controller) RefreshActive(ctx context.Context) bool {
	v := c.View()
	if v != ViewMonitor && v != ViewPrediction {
		return false
	}
	_ = c.loaderFor(v)(ctx, false)
	return true
}
