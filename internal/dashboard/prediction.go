package dashboard

import (
	"context"

	"go-firewatch/internal/api"
	"go-firewatch/internal/forms"
	"go-firewatch/internal/models"
)

func (c *Controller) LoadPredictionData(ctx context.Context) error {
	return c.loadPredictions(ctx, true)
}

func (c *Controller) loadPredictions(ctx context.Context, alert bool) error {
	preds, err := c.client.Predictions(ctx)
	if err != nil {
		return c.fail(failed("load_predictions", "Failed to load prediction data", err), alert)
	}
	c.mu.Lock()
	c.cache.Predictions = preds
	c.mu.Unlock()
	return nil
}

// CalculateCustomPrediction always leaves a result with a risk level in the cache.
// Inputs out of range are replaced by their defaults before sending.
func (c *Controller) CalculateCustomPrediction(ctx context.Context) models.FirePrediction {
	c.mu.Lock()
	in := c.forms.Prediction.Normalize()
	c.mu.Unlock()

	c.logger.Debug("custom prediction", "wind_speed", in.WindSpeed, "temperature", in.Temperature, "humidity", in.Humidity)
	result, err := c.client.CustomPrediction(ctx, in)
	switch {
	case err != nil:
		result = forms.FallbackPrediction(in)
		_ = c.fail(failed("custom_prediction", "Custom prediction failed, showing a default result", err), true)
	case result.RiskLevel == "":
		c.logger.Warn("custom prediction without risk level", "op", "custom_prediction")
		result = forms.FallbackPrediction(in)
	}

	c.mu.Lock()
	r := result
	c.cache.CustomResult = &r
	c.mu.Unlock()
	return result
}

// SavePrediction persists a prediction. Optional fields are sent only when set.
func (c *Controller) SavePrediction(ctx context.Context, p models.FirePrediction) error {
	req := api.SavePredictionRequest{
		WindSpeed:     p.WindSpeed,
		Temperature:   p.Temperature,
		Humidity:      p.Humidity,
		RiskLevel:     p.RiskLevel,
		PredictedArea: p.PredictedArea,
	}
	if p.MonitorPointID != nil && *p.MonitorPointID != 0 {
		req.MonitorPointID = p.MonitorPointID
	}
	if p.Latitude != nil && *p.Latitude != 0 {
		req.Latitude = p.Latitude
	}
	if p.Longitude != nil && *p.Longitude != 0 {
		req.Longitude = p.Longitude
	}

	if err := c.client.SavePrediction(ctx, req); err != nil {
		return c.fail(failed("save_prediction", "Failed to save prediction", err), true)
	}
	c.succeed("Prediction saved")
	return nil
}
