package analytics

import "time"

// Options is the tuning surface for speed, stop and climb heuristics.
type Options struct {
	// StopGap is the contiguous inter-point gap treated as a stop and
	// excluded from moving time.
	StopGap time.Duration
	// MaxSpeedKmh is the sanity ceiling; faster segments are GPS noise and
	// are excluded from the max-speed computation, not clamped.
	MaxSpeedKmh float64
	// TopClimbs caps how many climbs are reported, hardest first.
	TopClimbs int
	// ClimbEndDescentM ends a climb once elevation has dropped this far
	// below the climb's running maximum.
	ClimbEndDescentM float64
	// FlatRunLength ends a climb after this many consecutive near-flat
	// points.
	FlatRunLength int
	// FlatToleranceM is the absolute elevation delta still counted as flat.
	FlatToleranceM float64
}

func DefaultOptions() Options {
	return Options{
		StopGap:          5 * time.Minute,
		MaxSpeedKmh:      100,
		TopClimbs:        3,
		ClimbEndDescentM: 10,
		FlatRunLength:    3,
		FlatToleranceM:   1,
	}
}

// GradientBucket is one slice of the gradient distribution.
type GradientBucket struct {
	DistanceKm     float64 `json:"distance_km"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

// GradientDistribution splits total distance into four exhaustive buckets
// by unsigned gradient. Downhill and uphill of equal steepness land in the
// same bucket.
type GradientDistribution struct {
	Flat      GradientBucket `json:"flat"`       // 0-3%
	Moderate  GradientBucket `json:"moderate"`   // 3-6%
	Steep     GradientBucket `json:"steep"`      // 6-10%
	VerySteep GradientBucket `json:"very_steep"` // >10%
}

// ClimbSegment is a contiguous ascending stretch of the raw track. The
// reported range ends at the highest point reached, not at the point where
// the end condition fired.
type ClimbSegment struct {
	StartDistanceKm        float64 `json:"start_distance_km"`
	EndDistanceKm          float64 `json:"end_distance_km"`
	ElevationGainM         float64 `json:"elevation_gain_m"`
	AverageGradientPercent float64 `json:"average_gradient_percent"`
	DifficultyScore        float64 `json:"difficulty_score"`
}

// RouteStatistics holds the derived route metrics. Speed and time fields
// are nil when the track carries no (or incomplete) timestamps; they are
// never fabricated.
type RouteStatistics struct {
	AvgSpeedKmh          *float64             `json:"avg_speed_kmh"`
	MaxSpeedKmh          *float64             `json:"max_speed_kmh"`
	TotalTimeMinutes     *float64             `json:"total_time_minutes"`
	MovingTimeMinutes    *float64             `json:"moving_time_minutes"`
	GradientDistribution GradientDistribution `json:"gradient_distribution"`
	TopClimbs            []ClimbSegment       `json:"top_climbs"`
}
