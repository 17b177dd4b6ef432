package summary

import (
	"backend-routehub/internal/shared/geo"
	"backend-routehub/internal/track"
)

// Options bounds which elevation readings are trusted. Values outside the
// range are treated as sensor anomalies: excluded from gain/loss/extrema
// but the point still contributes to distance.
type Options struct {
	MinElevationM float64
	MaxElevationM float64
}

// DefaultOptions covers everything between the Dead Sea shore and Everest.
func DefaultOptions() Options {
	return Options{MinElevationM: -420, MaxElevationM: 8850}
}

// TrackSummary aggregates geometry and elevation over the full raw track.
type TrackSummary struct {
	TotalDistanceKm float64      `json:"total_distance_km"`
	ElevationGainM  float64      `json:"elevation_gain_m"`
	ElevationLossM  float64      `json:"elevation_loss_m"`
	MaxElevationM   *float64     `json:"max_elevation_m"`
	MinElevationM   *float64     `json:"min_elevation_m"`
	StartPoint      *track.Point `json:"start_point"`
	EndPoint        *track.Point `json:"end_point"`
	HasElevation    bool         `json:"has_elevation"`
	HasTimestamps   bool         `json:"has_timestamps"`
}

// Compute walks the raw point sequence once, accumulating great-circle
// distance and the positive/negative components of consecutive elevation
// deltas. A missing or anomalous elevation skips that one pair's
// accumulation only; it never zeroes the rest of the summary.
func Compute(points []track.Point, opts Options) TrackSummary {
	s := TrackSummary{
		HasElevation:  len(points) > 0,
		HasTimestamps: len(points) > 0,
	}
	if len(points) == 0 {
		return s
	}

	start, end := points[0], points[len(points)-1]
	s.StartPoint = &start
	s.EndPoint = &end

	for i := range points {
		p := points[i]
		if !p.HasElevation() {
			s.HasElevation = false
		}
		if !p.HasTime() {
			s.HasTimestamps = false
		}

		if elev, ok := trustedElevation(p, opts); ok {
			if s.MaxElevationM == nil || elev > *s.MaxElevationM {
				v := elev
				s.MaxElevationM = &v
			}
			if s.MinElevationM == nil || elev < *s.MinElevationM {
				v := elev
				s.MinElevationM = &v
			}
		}

		if i == 0 {
			continue
		}
		prev := points[i-1]
		s.TotalDistanceKm += geo.HaversineKm(prev.Lat, prev.Lon, p.Lat, p.Lon)

		prevElev, prevOK := trustedElevation(prev, opts)
		currElev, currOK := trustedElevation(p, opts)
		if prevOK && currOK {
			delta := currElev - prevElev
			if delta > 0 {
				s.ElevationGainM += delta
			} else {
				s.ElevationLossM += -delta
			}
		}
	}

	return s
}

func trustedElevation(p track.Point, opts Options) (float64, bool) {
	if !p.HasElevation() {
		return 0, false
	}
	elev := *p.Elevation
	if elev < opts.MinElevationM || elev > opts.MaxElevationM {
		return 0, false
	}
	return elev, true
}
