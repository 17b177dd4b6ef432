package simplify

import (
	"math"

	"backend-routehub/internal/shared/geo"
	"backend-routehub/internal/track"
)

// DefaultEpsilonDegrees is the Ramer-Douglas-Peucker tolerance in degrees,
// roughly 10 meters at the equator.
const DefaultEpsilonDegrees = 0.0001

// Point is a map-rendering point derived from a kept raw fix. Cumulative
// distance is measured along the simplified path, not the raw one, because
// the two paths have different segment lengths. GradientPercent is the
// slope to the next simplified point; nil on the last point or when either
// end lacks elevation.
type Point struct {
	Lat                  float64  `json:"lat"`
	Lon                  float64  `json:"lon"`
	Elevation            *float64 `json:"elevation,omitempty"`
	CumulativeDistanceKm float64  `json:"cumulative_distance_km"`
	SequenceIndex        int      `json:"sequence_index"`
	GradientPercent      *float64 `json:"gradient_percent,omitempty"`
}

// Simplify reduces the raw sequence with Ramer-Douglas-Peucker over the
// (lat, lon) plane. Elevation plays no part in the error metric, it is only
// carried through. The first and last input points are always kept; inputs
// with fewer than 3 points come back unchanged.
func Simplify(points []track.Point, epsilonDegrees float64) []Point {
	if len(points) == 0 {
		return nil
	}

	kept := points
	if len(points) >= 3 {
		keep := make([]bool, len(points))
		keep[0] = true
		keep[len(points)-1] = true
		douglasPeucker(points, 0, len(points)-1, epsilonDegrees, keep)

		kept = make([]track.Point, 0, len(points))
		for i, k := range keep {
			if k {
				kept = append(kept, points[i])
			}
		}
	}

	return annotate(kept)
}

// douglasPeucker marks, within (lo, hi), the interior point farthest from
// the chord lo->hi whenever its offset exceeds the tolerance, then recurses
// on both halves.
func douglasPeucker(points []track.Point, lo, hi int, epsilon float64, keep []bool) {
	if hi <= lo+1 {
		return
	}

	maxIdx := -1
	maxDist := 0.0
	for i := lo + 1; i < hi; i++ {
		d := chordOffset(points[i], points[lo], points[hi])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxIdx >= 0 && maxDist > epsilon {
		keep[maxIdx] = true
		douglasPeucker(points, lo, maxIdx, epsilon, keep)
		douglasPeucker(points, maxIdx, hi, epsilon, keep)
	}
}

// chordOffset is the perpendicular distance, in degrees, from p to the line
// through a and b. Falls back to the point distance when the chord is
// degenerate (a track that loops back onto itself exactly).
func chordOffset(p, a, b track.Point) float64 {
	dLon := b.Lon - a.Lon
	dLat := b.Lat - a.Lat
	if dLon == 0 && dLat == 0 {
		return math.Hypot(p.Lon-a.Lon, p.Lat-a.Lat)
	}
	num := math.Abs(dLat*p.Lon - dLon*p.Lat + b.Lon*a.Lat - b.Lat*a.Lon)
	return num / math.Hypot(dLon, dLat)
}

// annotate re-derives cumulative distance and per-segment gradient along
// the kept subset.
func annotate(kept []track.Point) []Point {
	out := make([]Point, len(kept))
	cumulative := 0.0
	for i, p := range kept {
		if i > 0 {
			prev := kept[i-1]
			cumulative += geo.HaversineKm(prev.Lat, prev.Lon, p.Lat, p.Lon)
		}
		out[i] = Point{
			Lat:                  p.Lat,
			Lon:                  p.Lon,
			Elevation:            p.Elevation,
			CumulativeDistanceKm: cumulative,
			SequenceIndex:        i,
		}
	}

	for i := 0; i < len(out)-1; i++ {
		curr, next := kept[i], kept[i+1]
		if !curr.HasElevation() || !next.HasElevation() {
			continue
		}
		run := out[i+1].CumulativeDistanceKm - out[i].CumulativeDistanceKm
		if run <= 0 {
			continue
		}
		g := geo.GradientPercent(*next.Elevation-*curr.Elevation, run)
		out[i].GradientPercent = &g
	}

	return out
}
