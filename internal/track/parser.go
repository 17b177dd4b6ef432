package track

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"
)

// ParseError means the document could not be decoded into a usable track.
// It always rejects the whole upload; there is no partial result.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse track: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse track: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a GPX document into an ordered point sequence. Tracks and
// segments are kept in document order. Points with coordinates outside
// WGS84 bounds are dropped individually and counted; the parse only fails
// when the document is malformed or yields no points at all.
func Parse(data []byte) (*ParseResult, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, &ParseError{Reason: "malformed GPX document", Err: err}
	}

	result := &ParseResult{}
	total := 0
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			points := make([]Point, 0, len(seg.Points))
			for i := range seg.Points {
				gp := &seg.Points[i]
				if gp.Latitude < -90 || gp.Latitude > 90 || gp.Longitude < -180 || gp.Longitude > 180 {
					result.DroppedPoints++
					continue
				}
				p := Point{Lat: gp.Latitude, Lon: gp.Longitude}
				if gp.Elevation.NotNull() {
					elev := gp.Elevation.Value()
					p.Elevation = &elev
				}
				if !gp.Timestamp.IsZero() {
					p.Time = gp.Timestamp
				}
				points = append(points, p)
			}
			if len(points) > 0 {
				result.Segments = append(result.Segments, Segment{Points: points})
				total += len(points)
			}
		}
	}

	if total == 0 {
		if result.DroppedPoints > 0 {
			return nil, &ParseError{Reason: fmt.Sprintf("all %d track points had out-of-range coordinates", result.DroppedPoints)}
		}
		return nil, &ParseError{Reason: "no track points found"}
	}
	return result, nil
}
