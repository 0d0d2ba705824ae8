// Package segments partitions a route into a bounded number of pieces with
// a local risk score each, for client-side color-coding.
package segments

import (
	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

const (
	// maxSegments bounds the output regardless of route length.
	maxSegments = 20

	// windowDegrees is the half-width of the square window around a
	// segment midpoint used to collect nearby records, roughly 500 m.
	windowDegrees = 0.005
)

// Segment is one colored piece of a route, in traversal order.
type Segment struct {
	Start geo.Coordinate `json:"start"`
	End   geo.Coordinate `json:"end"`

	// Risk is the mean historical risk score of records near the segment
	// midpoint, 0 when no records fall in the window.
	Risk float64 `json:"risk"`
}

// Build partitions the route into at most maxSegments+1 segments and scores
// each from the record set. Routes with fewer than 2 points yield nil.
func Build(route []geo.Coordinate, records []accidents.Record) []Segment {
	if len(route) < 2 {
		return nil
	}

	step := len(route) / maxSegments
	if step < 1 {
		step = 1
	}

	var out []Segment
	for i := 0; i < len(route)-1; i += step {
		end := i + step
		if end > len(route)-1 {
			end = len(route) - 1
		}

		start, stop := route[i], route[end]
		mid := geo.Coordinate{
			Lat: (start.Lat + stop.Lat) / 2,
			Lon: (start.Lon + stop.Lon) / 2,
		}
		out = append(out, Segment{
			Start: start,
			End:   stop,
			Risk:  localRisk(mid, records),
		})
	}
	return out
}

// localRisk averages the risk scores of records inside the midpoint window.
func localRisk(mid geo.Coordinate, records []accidents.Record) float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if rec.Latitude < mid.Lat-windowDegrees || rec.Latitude > mid.Lat+windowDegrees {
			continue
		}
		if rec.Longitude < mid.Lon-windowDegrees || rec.Longitude > mid.Lon+windowDegrees {
			continue
		}
		sum += rec.RiskScore
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
