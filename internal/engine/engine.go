// Package engine runs the full route processing pipeline: parse a GPX
// document, summarize geometry and elevation, simplify the track for map
// rendering and derive route analytics. It is purely computational and
// holds no state; one invocation processes one complete track.
package engine

import (
	"time"

	"backend-routehub/internal/analytics"
	"backend-routehub/internal/simplify"
	"backend-routehub/internal/summary"
	"backend-routehub/internal/track"
)

// Options is the whole configuration surface exposed to callers.
type Options struct {
	EpsilonDegrees   float64
	StopGap          time.Duration
	MinElevationM    float64
	MaxElevationM    float64
	MaxSpeedKmh      float64
	TopClimbs        int
	ClimbEndDescentM float64
	FlatRunLength    int
	FlatToleranceM   float64
}

func DefaultOptions() Options {
	s := summary.DefaultOptions()
	a := analytics.DefaultOptions()
	return Options{
		EpsilonDegrees:   simplify.DefaultEpsilonDegrees,
		StopGap:          a.StopGap,
		MinElevationM:    s.MinElevationM,
		MaxElevationM:    s.MaxElevationM,
		MaxSpeedKmh:      a.MaxSpeedKmh,
		TopClimbs:        a.TopClimbs,
		ClimbEndDescentM: a.ClimbEndDescentM,
		FlatRunLength:    a.FlatRunLength,
		FlatToleranceM:   a.FlatToleranceM,
	}
}

// Result is the assembled output of the four pipeline stages. Statistics
// is nil for tracks too short to derive anything from.
type Result struct {
	Summary          summary.TrackSummary       `json:"summary"`
	SimplifiedPoints []simplify.Point           `json:"simplified_points"`
	Statistics       *analytics.RouteStatistics `json:"statistics"`
	RawPointCount    int                        `json:"raw_point_count"`
	DroppedPoints    int                        `json:"dropped_points,omitempty"`
}

// Process decodes and analyzes one track document. The only error it
// returns is a *track.ParseError; everything downstream of a successful
// parse degrades gracefully instead of failing.
func Process(data []byte, opts Options) (*Result, error) {
	parsed, err := track.Parse(data)
	if err != nil {
		return nil, err
	}
	points := parsed.Flatten()
	return &Result{
		Summary: summary.Compute(points, summary.Options{
			MinElevationM: opts.MinElevationM,
			MaxElevationM: opts.MaxElevationM,
		}),
		SimplifiedPoints: simplify.Simplify(points, opts.EpsilonDegrees),
		Statistics: analytics.Compute(points, analytics.Options{
			StopGap:          opts.StopGap,
			MaxSpeedKmh:      opts.MaxSpeedKmh,
			TopClimbs:        opts.TopClimbs,
			ClimbEndDescentM: opts.ClimbEndDescentM,
			FlatRunLength:    opts.FlatRunLength,
			FlatToleranceM:   opts.FlatToleranceM,
		}),
		RawPointCount: len(points),
		DroppedPoints: parsed.DroppedPoints,
	}, nil
}
