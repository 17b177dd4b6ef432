package analytics

import (
	"math"
	"testing"
	"time"

	"backend-routehub/internal/shared/geo"
	"backend-routehub/internal/track"
)

func elev(v float64) *float64 { return &v }

// latKm converts a distance in km to degrees of latitude (~111.19 km each).
func latKm(km float64) float64 { return km / 111.19493 }

func TestComputeTooFewPoints(t *testing.T) {
	if got := Compute(nil, DefaultOptions()); got != nil {
		t.Fatalf("expected nil for empty track")
	}
	if got := Compute([]track.Point{{Lat: 1, Lon: 1}}, DefaultOptions()); got != nil {
		t.Fatalf("expected nil for single point")
	}
}

func TestSpeedAndTimeBasic(t *testing.T) {
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	// Two segments of ~1 km, one minute each: 60 km/h.
	points := []track.Point{
		{Lat: 0, Lon: 0, Time: base},
		{Lat: latKm(1), Lon: 0, Time: base.Add(time.Minute)},
		{Lat: latKm(2), Lon: 0, Time: base.Add(2 * time.Minute)},
	}

	stats := Compute(points, DefaultOptions())
	if stats == nil || stats.AvgSpeedKmh == nil || stats.MaxSpeedKmh == nil {
		t.Fatalf("expected speed fields, got %+v", stats)
	}
	if math.Abs(*stats.AvgSpeedKmh-60) > 1 {
		t.Fatalf("unexpected avg speed: %v", *stats.AvgSpeedKmh)
	}
	if math.Abs(*stats.MaxSpeedKmh-60) > 1 {
		t.Fatalf("unexpected max speed: %v", *stats.MaxSpeedKmh)
	}
	if *stats.TotalTimeMinutes != 2 || *stats.MovingTimeMinutes != 2 {
		t.Fatalf("unexpected times: total=%v moving=%v", *stats.TotalTimeMinutes, *stats.MovingTimeMinutes)
	}
}

func TestSpeedOmittedWithoutTimestamps(t *testing.T) {
	points := []track.Point{
		{Lat: 0, Lon: 0, Elevation: elev(100)},
		{Lat: 0.01, Lon: 0, Elevation: elev(120)},
	}
	stats := Compute(points, DefaultOptions())
	if stats == nil {
		t.Fatalf("statistics record must still exist without timestamps")
	}
	if stats.AvgSpeedKmh != nil || stats.MaxSpeedKmh != nil ||
		stats.TotalTimeMinutes != nil || stats.MovingTimeMinutes != nil {
		t.Fatalf("speed fields must be nil without timestamps: %+v", stats)
	}
}

func TestSpeedOmittedWithPartialTimestamps(t *testing.T) {
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	points := []track.Point{
		{Lat: 0, Lon: 0, Time: base},
		{Lat: 0.01, Lon: 0}, // missing timestamp
		{Lat: 0.02, Lon: 0, Time: base.Add(2 * time.Minute)},
	}
	stats := Compute(points, DefaultOptions())
	if stats.AvgSpeedKmh != nil || stats.TotalTimeMinutes != nil {
		t.Fatalf("partial timestamps must omit speed fields")
	}
}

func TestMovingTimeExcludesLongStop(t *testing.T) {
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	// 11 points, 1 minute apart, with a single 20-minute gap in the middle.
	points := make([]track.Point, 11)
	ts := base
	for i := range points {
		if i == 5 {
			ts = ts.Add(20 * time.Minute)
		} else if i > 0 {
			ts = ts.Add(time.Minute)
		}
		points[i] = track.Point{Lat: latKm(float64(i) * 0.1), Lon: 0, Time: ts}
	}

	stats := Compute(points, DefaultOptions())
	if math.Abs(*stats.TotalTimeMinutes-29) > 1e-9 {
		t.Fatalf("total time must include the stop: %v", *stats.TotalTimeMinutes)
	}
	if math.Abs(*stats.MovingTimeMinutes-9) > 1e-9 {
		t.Fatalf("moving time must exclude the 20-minute stop: %v", *stats.MovingTimeMinutes)
	}
}

func TestMaxSpeedCeilingExcludesNoise(t *testing.T) {
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	points := []track.Point{
		{Lat: 0, Lon: 0, Time: base},
		// 5 km in one minute: 300 km/h, impossible on a bike.
		{Lat: latKm(5), Lon: 0, Time: base.Add(time.Minute)},
		{Lat: latKm(5.5), Lon: 0, Time: base.Add(2 * time.Minute)},
	}
	stats := Compute(points, DefaultOptions())
	if stats.MaxSpeedKmh == nil {
		t.Fatalf("expected max speed from the sane segment")
	}
	if *stats.MaxSpeedKmh > 100 {
		t.Fatalf("noise segment leaked into max speed: %v", *stats.MaxSpeedKmh)
	}
	if math.Abs(*stats.MaxSpeedKmh-30) > 1 {
		t.Fatalf("expected ~30 km/h from second segment, got %v", *stats.MaxSpeedKmh)
	}
}

func TestGradientDistributionCompleteness(t *testing.T) {
	// Four 1 km segments, one per bucket: 0%, 5%, 8%, 15% (last one downhill).
	elevs := []float64{100, 100, 150, 230, 80}
	points := make([]track.Point, 5)
	for i := range points {
		points[i] = track.Point{Lat: latKm(float64(i)), Lon: 0, Elevation: elev(elevs[i])}
	}

	stats := Compute(points, DefaultOptions())
	d := stats.GradientDistribution

	total := d.Flat.DistanceKm + d.Moderate.DistanceKm + d.Steep.DistanceKm + d.VerySteep.DistanceKm
	if math.Abs(total-4) > 0.01 {
		t.Fatalf("buckets must sum to total distance: %v", total)
	}
	for name, b := range map[string]GradientBucket{
		"flat": d.Flat, "moderate": d.Moderate, "steep": d.Steep, "very_steep": d.VerySteep,
	} {
		if math.Abs(b.DistanceKm-1) > 0.01 {
			t.Fatalf("bucket %s expected ~1 km, got %v", name, b.DistanceKm)
		}
		if math.Abs(b.PercentOfTotal-25) > 0.5 {
			t.Fatalf("bucket %s expected ~25%%, got %v", name, b.PercentOfTotal)
		}
	}
}

func TestDetectSingleSyntheticClimb(t *testing.T) {
	// Rises linearly 100 -> 400 m over 3 km, then 1 km flat.
	elevs := []float64{100, 200, 300, 400, 400}
	points := make([]track.Point, 5)
	for i := range points {
		points[i] = track.Point{Lat: latKm(float64(i)), Lon: 0, Elevation: elev(elevs[i])}
	}

	stats := Compute(points, DefaultOptions())
	if len(stats.TopClimbs) != 1 {
		t.Fatalf("expected exactly one climb, got %d", len(stats.TopClimbs))
	}
	c := stats.TopClimbs[0]
	if math.Abs(c.ElevationGainM-300) > 1 {
		t.Fatalf("unexpected climb gain: %v", c.ElevationGainM)
	}
	if c.StartDistanceKm != 0 {
		t.Fatalf("climb must start at distance 0, got %v", c.StartDistanceKm)
	}
	// The trailing flat km is excluded: the climb ends at the highest point.
	if math.Abs(c.EndDistanceKm-3) > 0.05 {
		t.Fatalf("climb must end at the elevation maximum: %v", c.EndDistanceKm)
	}
	if c.AverageGradientPercent < 9 || c.AverageGradientPercent > 11 {
		t.Fatalf("unexpected average gradient: %v", c.AverageGradientPercent)
	}
	wantScore := c.ElevationGainM * (1 + c.AverageGradientPercent/10)
	if math.Abs(c.DifficultyScore-wantScore) > 1e-9 {
		t.Fatalf("unexpected difficulty score: %v", c.DifficultyScore)
	}
}

func TestClimbEndsOnDescent(t *testing.T) {
	// Up 200 m, down 50 m, up 300 m: two separate climbs, hardest first.
	elevs := []float64{100, 200, 300, 250, 280, 400, 600}
	points := make([]track.Point, len(elevs))
	for i := range points {
		points[i] = track.Point{Lat: latKm(float64(i)), Lon: 0, Elevation: elev(elevs[i])}
	}

	stats := Compute(points, DefaultOptions())
	if len(stats.TopClimbs) != 2 {
		t.Fatalf("expected two climbs, got %d: %+v", len(stats.TopClimbs), stats.TopClimbs)
	}
	first, second := stats.TopClimbs[0], stats.TopClimbs[1]
	if first.DifficultyScore < second.DifficultyScore {
		t.Fatalf("climbs must be ordered hardest first")
	}
	if math.Abs(first.ElevationGainM-350) > 1 {
		t.Fatalf("unexpected hardest climb gain: %v", first.ElevationGainM)
	}
	if math.Abs(second.ElevationGainM-200) > 1 {
		t.Fatalf("unexpected second climb gain: %v", second.ElevationGainM)
	}
}

func TestTopClimbsCapped(t *testing.T) {
	// Five rolling hills, each a clean 100+ m climb followed by a full descent.
	var elevs []float64
	for h := 0; h < 5; h++ {
		rise := 100 + float64(h)*20
		elevs = append(elevs, 100, 100+rise/2, 100+rise, 100+rise/2, 100)
	}
	points := make([]track.Point, len(elevs))
	for i := range points {
		points[i] = track.Point{Lat: latKm(float64(i) * 0.5), Lon: 0, Elevation: elev(elevs[i])}
	}

	stats := Compute(points, DefaultOptions())
	if len(stats.TopClimbs) != 3 {
		t.Fatalf("expected top 3 climbs, got %d", len(stats.TopClimbs))
	}
	for i := 1; i < len(stats.TopClimbs); i++ {
		if stats.TopClimbs[i].DifficultyScore > stats.TopClimbs[i-1].DifficultyScore {
			t.Fatalf("climbs not ordered by difficulty")
		}
	}
}

func TestClimbSkippedOnElevationGap(t *testing.T) {
	points := []track.Point{
		{Lat: 0, Lon: 0, Elevation: elev(100)},
		{Lat: latKm(1), Lon: 0, Elevation: elev(200)},
		{Lat: latKm(2), Lon: 0}, // elevation gap ends the climb
		{Lat: latKm(3), Lon: 0, Elevation: elev(210)},
	}
	stats := Compute(points, DefaultOptions())
	if len(stats.TopClimbs) != 1 {
		t.Fatalf("expected the pre-gap climb, got %d", len(stats.TopClimbs))
	}
	if math.Abs(stats.TopClimbs[0].ElevationGainM-100) > 1 {
		t.Fatalf("unexpected gain: %v", stats.TopClimbs[0].ElevationGainM)
	}
}

func TestGradientDistributionUsesSharedDistance(t *testing.T) {
	points := []track.Point{
		{Lat: 0, Lon: 0, Elevation: elev(100)},
		{Lat: 0.02, Lon: 0.01, Elevation: elev(150)},
	}
	stats := Compute(points, DefaultOptions())
	want := geo.HaversineKm(0, 0, 0.02, 0.01)
	got := stats.GradientDistribution.Flat.DistanceKm +
		stats.GradientDistribution.Moderate.DistanceKm +
		stats.GradientDistribution.Steep.DistanceKm +
		stats.GradientDistribution.VerySteep.DistanceKm
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("bucketed distance %v != haversine distance %v", got, want)
	}
}
