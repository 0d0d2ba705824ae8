// Package geo provides geographic distance primitives used by the corridor
// filter and route scoring pipeline. All distances are in kilometers.
package geo

import (
	"math"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DegreesPerKm approximates how many degrees of latitude correspond to one
// kilometer (1 degree of latitude ~ 111 km). Used for cheap bounding-box
// padding where geodesic accuracy is not required.
const DegreesPerKm = 1.0 / 111.0

// Coordinate represents a geographic point in decimal degrees (WGS-84).
type Coordinate struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle distance between two coordinates
// using the haversine formula. Symmetric; returns 0 for identical points.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// PointToSegmentKm returns the minimum distance from point p to the line
// segment a->b. The projection uses plain degree arithmetic, which is a
// deliberate approximation valid for short segments (tens of km), not a
// geodesic computation. The projection parameter is clamped to [0,1] so the
// nearest point never extrapolates beyond the segment endpoints.
func PointToSegmentKm(p, a, b Coordinate) float64 {
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon

	segLenSq := dLat*dLat + dLon*dLon
	if segLenSq == 0 {
		// Degenerate segment: both endpoints coincide.
		return DistanceKm(p, a)
	}

	t := ((p.Lat-a.Lat)*dLat + (p.Lon-a.Lon)*dLon) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	nearest := Coordinate{
		Lat: a.Lat + t*dLat,
		Lon: a.Lon + t*dLon,
	}
	return DistanceKm(p, nearest)
}

// BoundingBox is an axis-aligned geographic bounding box.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Bounds computes the bounding box of a coordinate sequence.
// Returns a zero box and false for an empty sequence.
func Bounds(coords []Coordinate) (BoundingBox, bool) {
	if len(coords) == 0 {
		return BoundingBox{}, false
	}

	box := BoundingBox{
		MinLat: coords[0].Lat,
		MaxLat: coords[0].Lat,
		MinLon: coords[0].Lon,
		MaxLon: coords[0].Lon,
	}
	for _, c := range coords[1:] {
		box.MinLat = math.Min(box.MinLat, c.Lat)
		box.MaxLat = math.Max(box.MaxLat, c.Lat)
		box.MinLon = math.Min(box.MinLon, c.Lon)
		box.MaxLon = math.Max(box.MaxLon, c.Lon)
	}
	return box, true
}

// Pad expands the box by the given number of degrees on every side.
func (b BoundingBox) Pad(degrees float64) BoundingBox {
	return BoundingBox{
		MinLat: b.MinLat - degrees,
		MaxLat: b.MaxLat + degrees,
		MinLon: b.MinLon - degrees,
		MaxLon: b.MaxLon + degrees,
	}
}

// Contains reports whether the coordinate lies inside the box (inclusive).
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// ValidateCoordinate checks that a coordinate is within valid WGS-84 ranges.
func ValidateCoordinate(c Coordinate) bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
