package route

import (
	"time"

	"backend-routehub/internal/analytics"
	"backend-routehub/internal/simplify"
	"backend-routehub/internal/summary"
)

// Route is a stored processing result: the engine output plus the
// bookkeeping the web layer adds around it.
type Route struct {
	ID               string                     `json:"id"`
	Name             string                     `json:"name"`
	RawPointCount    int                        `json:"raw_point_count"`
	Summary          summary.TrackSummary       `json:"summary"`
	SimplifiedPoints []simplify.Point           `json:"simplified_points"`
	Statistics       *analytics.RouteStatistics `json:"statistics"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// ListItem is the lightweight row returned by the listing endpoint.
type ListItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	ElevationGainM  float64   `json:"elevation_gain_m"`
	RawPointCount   int       `json:"raw_point_count"`
	CreatedAt       time.Time `json:"created_at"`
}
