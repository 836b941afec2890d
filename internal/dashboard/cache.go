package dashboard

import (
	"maps"
	"slices"

	"go-firewatch/internal/models"
)

// Cache holds the last server snapshot of every collection. Each field is replaced
// wholesale by its loader; nothing is merged locally.
type Cache struct {
	MonitorPoints  []models.MonitorPoint
	MonitorRecords []models.MonitorRecord
	Predictions    []models.FirePrediction
	CustomResult   *models.FirePrediction
	RiskStats      map[string]int
	Summary        models.Summary
	RecentFires    []models.FireRecord
	Users          []models.User
}

func emptyCache() Cache {
	return Cache{RiskStats: map[string]int{}}
}

func (c Cache) clone() Cache {
	out := Cache{
		MonitorPoints:  slices.Clone(c.MonitorPoints),
		MonitorRecords: slices.Clone(c.MonitorRecords),
		Predictions:    slices.Clone(c.Predictions),
		RiskStats:      maps.Clone(c.RiskStats),
		Summary:        c.Summary,
		RecentFires:    slices.Clone(c.RecentFires),
		Users:          slices.Clone(c.Users),
	}
	out.Summary.RecentFires = slices.Clone(c.Summary.RecentFires)
	if c.CustomResult != nil {
		r := *c.CustomResult
		out.CustomResult = &r
	}
	return out
}

// PointName resolves a monitor point id from the cached list.
func (c Cache) PointName(id int) string {
	for _, p := range c.MonitorPoints {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
