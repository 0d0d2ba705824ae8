// Package corridor selects the historical accident records that lie within
// a distance band around a route.
package corridor

import (
	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// DefaultWidthKm is the corridor half-width applied when a request does not
// specify one.
const DefaultWidthKm = 0.5

// Filter returns the records within widthKm of at least one segment of the
// route. A route with fewer than 2 points has no corridor and yields an
// empty result. widthKm <= 0 falls back to DefaultWidthKm.
//
// Filtering is two-phase: a padded bounding-box pass eliminates most of the
// dataset in O(records), then the survivors get an exact point-to-segment
// check against every route segment.
func Filter(records []accidents.Record, route []geo.Coordinate, widthKm float64) []accidents.Record {
	if len(route) < 2 {
		return nil
	}
	if widthKm <= 0 {
		widthKm = DefaultWidthKm
	}

	box, ok := geo.Bounds(route)
	if !ok {
		return nil
	}
	box = box.Pad(widthKm * geo.DegreesPerKm)

	var out []accidents.Record
	for _, rec := range records {
		point := geo.Coordinate{Lat: rec.Latitude, Lon: rec.Longitude}
		if !box.Contains(point) {
			continue
		}
		if withinCorridor(point, route, widthKm) {
			out = append(out, rec)
		}
	}
	return out
}

func withinCorridor(p geo.Coordinate, route []geo.Coordinate, widthKm float64) bool {
	for i := 0; i < len(route)-1; i++ {
		if geo.PointToSegmentKm(p, route[i], route[i+1]) <= widthKm {
			return true
		}
	}
	return false
}
