package track

import "time"

// Point is a single GPS fix. Elevation is nil when the source file carried
// no <ele> value; Time is the zero value when there is no timestamp.
type Point struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Elevation *float64  `json:"elevation,omitempty"`
	Time      time.Time `json:"time,omitempty"`
}

func (p Point) HasElevation() bool { return p.Elevation != nil }

func (p Point) HasTime() bool { return !p.Time.IsZero() }

// Segment is one contiguous run of points as recorded in the source
// document. Segment boundaries are kept so a caller can opt into
// segment-aware processing; the default pipeline flattens them.
type Segment struct {
	Points []Point `json:"points"`
}

// ParseResult holds the decoded track. DroppedPoints counts fixes that were
// rejected for out-of-range coordinates; a handful of bad fixes must not
// invalidate the whole route.
type ParseResult struct {
	Segments      []Segment
	DroppedPoints int
}

// Flatten concatenates all segments in document order into one logical path.
func (r *ParseResult) Flatten() []Point {
	var points []Point
	for _, seg := range r.Segments {
		points = append(points, seg.Points...)
	}
	return points
}
