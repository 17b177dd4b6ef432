package analytics

import (
	"math"
	"sort"

	"backend-routehub/internal/shared/geo"
	"backend-routehub/internal/track"
)

// Compute derives speed/time metrics, the gradient distribution and the
// top climbs from the raw (unsimplified) point sequence. Returns nil for
// tracks with fewer than two points; there is nothing to derive.
func Compute(points []track.Point, opts Options) *RouteStatistics {
	if len(points) < 2 {
		return nil
	}

	// Cumulative distance along the raw path, shared by every sub-pass.
	cumKm := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		cumKm[i] = cumKm[i-1] + geo.HaversineKm(prev.Lat, prev.Lon, curr.Lat, curr.Lon)
	}

	stats := &RouteStatistics{
		GradientDistribution: gradientDistribution(points, cumKm),
		TopClimbs:            detectClimbs(points, cumKm, opts),
	}
	speedAndTime(points, cumKm, opts, stats)
	return stats
}

// speedAndTime fills the timestamp-dependent fields. Without a timestamp on
// every point the fields stay nil.
func speedAndTime(points []track.Point, cumKm []float64, opts Options, stats *RouteStatistics) {
	for _, p := range points {
		if !p.HasTime() {
			return
		}
	}

	total := points[len(points)-1].Time.Sub(points[0].Time)
	moving := total
	maxSpeed := 0.0
	haveMax := false

	for i := 1; i < len(points); i++ {
		dt := points[i].Time.Sub(points[i-1].Time)
		if dt > opts.StopGap {
			moving -= dt
		}
		if dt <= 0 {
			continue
		}
		speed := (cumKm[i] - cumKm[i-1]) / dt.Hours()
		if speed > opts.MaxSpeedKmh {
			continue // GPS noise, excluded rather than clamped
		}
		if !haveMax || speed > maxSpeed {
			maxSpeed = speed
			haveMax = true
		}
	}

	totalMin := total.Minutes()
	movingMin := moving.Minutes()
	stats.TotalTimeMinutes = &totalMin
	stats.MovingTimeMinutes = &movingMin
	if total > 0 {
		avg := cumKm[len(cumKm)-1] / total.Hours()
		stats.AvgSpeedKmh = &avg
	}
	if haveMax {
		stats.MaxSpeedKmh = &maxSpeed
	}
}

// gradientDistribution buckets each segment's horizontal distance by the
// magnitude of its gradient. Segments missing elevation on either end are
// not bucketed; they still count toward the total used for percentages.
func gradientDistribution(points []track.Point, cumKm []float64) GradientDistribution {
	var dist GradientDistribution
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if !prev.HasElevation() || !curr.HasElevation() {
			continue
		}
		run := cumKm[i] - cumKm[i-1]
		if run <= 0 {
			continue
		}
		grade := math.Abs(geo.GradientPercent(*curr.Elevation-*prev.Elevation, run))
		switch {
		case grade < 3:
			dist.Flat.DistanceKm += run
		case grade < 6:
			dist.Moderate.DistanceKm += run
		case grade < 10:
			dist.Steep.DistanceKm += run
		default:
			dist.VerySteep.DistanceKm += run
		}
	}

	total := cumKm[len(cumKm)-1]
	if total > 0 {
		dist.Flat.PercentOfTotal = dist.Flat.DistanceKm / total * 100
		dist.Moderate.PercentOfTotal = dist.Moderate.DistanceKm / total * 100
		dist.Steep.PercentOfTotal = dist.Steep.DistanceKm / total * 100
		dist.VerySteep.PercentOfTotal = dist.VerySteep.DistanceKm / total * 100
	}
	return dist
}

// climbScan tracks one climb in progress.
type climbScan struct {
	startIdx int
	maxIdx   int
	maxElev  float64
	flatRun  int
}

// detectClimbs walks the raw track with a running climb state. A climb
// starts when elevation begins rising, and ends when elevation has dropped
// more than ClimbEndDescentM below the running maximum or after
// FlatRunLength consecutive near-flat points. The reported segment spans
// the climb start to the highest point reached; trailing flat or descent
// is excluded.
func detectClimbs(points []track.Point, cumKm []float64, opts Options) []ClimbSegment {
	var climbs []ClimbSegment
	var scan *climbScan

	flush := func() {
		if scan == nil {
			return
		}
		if c, ok := scan.segment(points, cumKm); ok {
			climbs = append(climbs, c)
		}
		scan = nil
	}

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if !prev.HasElevation() || !curr.HasElevation() {
			// An elevation gap ends any climb in progress.
			flush()
			continue
		}
		delta := *curr.Elevation - *prev.Elevation

		if scan == nil {
			if delta <= 0 {
				continue
			}
			scan = &climbScan{startIdx: i - 1, maxIdx: i - 1, maxElev: *prev.Elevation}
		}

		if *curr.Elevation > scan.maxElev {
			scan.maxElev = *curr.Elevation
			scan.maxIdx = i
		}
		if math.Abs(delta) <= opts.FlatToleranceM {
			scan.flatRun++
		} else {
			scan.flatRun = 0
		}

		if scan.maxElev-*curr.Elevation > opts.ClimbEndDescentM || scan.flatRun >= opts.FlatRunLength {
			flush()
		}
	}
	flush()

	// Hardest first; ties broken by the larger gain.
	sort.SliceStable(climbs, func(a, b int) bool {
		if climbs[a].DifficultyScore != climbs[b].DifficultyScore {
			return climbs[a].DifficultyScore > climbs[b].DifficultyScore
		}
		return climbs[a].ElevationGainM > climbs[b].ElevationGainM
	})
	if opts.TopClimbs > 0 && len(climbs) > opts.TopClimbs {
		climbs = climbs[:opts.TopClimbs]
	}
	return climbs
}

// segment converts the scan state into a reported climb, or reports false
// when the stretch never actually gained elevation.
func (s *climbScan) segment(points []track.Point, cumKm []float64) (ClimbSegment, bool) {
	if s.maxIdx <= s.startIdx {
		return ClimbSegment{}, false
	}
	gain := s.maxElev - *points[s.startIdx].Elevation
	run := cumKm[s.maxIdx] - cumKm[s.startIdx]
	if gain <= 0 || run <= 0 {
		return ClimbSegment{}, false
	}
	avgGrad := geo.GradientPercent(gain, run)
	return ClimbSegment{
		StartDistanceKm:        cumKm[s.startIdx],
		EndDistanceKm:          cumKm[s.maxIdx],
		ElevationGainM:         gain,
		AverageGradientPercent: avgGrad,
		DifficultyScore:        gain * (1 + avgGrad/10),
	}, true
}
