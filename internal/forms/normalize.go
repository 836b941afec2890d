package forms

import (
	"math"

	"go-firewatch/internal/api"
	"go-firewatch/internal/models"
)

// Range accepts values between Min and Max. Anything unparsable or outside the range
// is replaced by Default, never clamped to the nearest bound.
type Range struct {
	Min, Max         float64
	MinOpen, MaxOpen bool
	Default          float64
}

func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if v < r.Min || (r.MinOpen && v == r.Min) {
		return false
	}
	if v > r.Max || (r.MaxOpen && v == r.Max) {
		return false
	}
	return true
}

func (r Range) Normalize(raw string) float64 {
	v, ok := parseFloat(raw)
	if !ok || !r.Contains(v) {
		return r.Default
	}
	return v
}

var (
	PredictionWind        = Range{Min: 0, Max: 100, Default: 10}
	PredictionTemperature = Range{Min: -50, Max: 100, Default: 30}
	PredictionHumidity    = Range{Min: 0, Max: 100, Default: 60}

	ThresholdWind        = Range{Min: 0, MinOpen: true, Max: 100, Default: 10}
	ThresholdTemperature = Range{Min: 0, MinOpen: true, Max: 100, Default: 30}
	ThresholdHumidity    = Range{Min: 0, MinOpen: true, Max: 100, MaxOpen: true, Default: 30}
)

func (p Prediction) Normalize() api.PredictionInput {
	return api.PredictionInput{
		WindSpeed:   PredictionWind.Normalize(p.WindSpeed),
		Temperature: PredictionTemperature.Normalize(p.Temperature),
		Humidity:    PredictionHumidity.Normalize(p.Humidity),
	}
}

func (t Threshold) Normalize() models.ThresholdSettings {
	return models.ThresholdSettings{
		WindSpeedThreshold:   ThresholdWind.Normalize(t.WindSpeed),
		TemperatureThreshold: ThresholdTemperature.Normalize(t.Temperature),
		HumidityThreshold:    ThresholdHumidity.Normalize(t.Humidity),
	}
}

// FallbackPrediction is the result shown when the backend cannot produce one.
func FallbackPrediction(in api.PredictionInput) models.FirePrediction {
	return models.FirePrediction{
		WindSpeed:     in.WindSpeed,
		Temperature:   in.Temperature,
		Humidity:      in.Humidity,
		RiskLevel:     models.RiskMedium,
		PredictedArea: 0.5,
	}
}
