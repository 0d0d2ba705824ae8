// Package polyline encodes and decodes Google's polyline algorithm format
// (precision 5), the geometry encoding used by OSRM and Mappls directions
// responses. See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"math"

	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// Decode decodes a polyline-encoded string into a coordinate sequence.
func Decode(encoded string) []geo.Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []geo.Coordinate
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lat += latDelta

		lonDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lon += lonDelta

		coords = append(coords, geo.Coordinate{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return coords
}

// decodeValue decodes a single delta value starting at index.
// Returns the decoded value and the new index position.
func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	// Two's complement for negative values
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// Encode encodes a coordinate sequence into a polyline string.
func Encode(coords []geo.Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLon := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Lat * 1e5))
		lon := int(math.Round(coord.Lon * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

// encodeValue appends a single polyline-encoded integer to buf.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// LengthKm returns the total great-circle length of the path in kilometers.
func LengthKm(coords []geo.Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += geo.DistanceKm(coords[i-1], coords[i])
	}
	return total
}

// SampleStride returns every n-th coordinate where n = max(1, len/maxSamples).
// The first point is always included. This bounds the number of classifier
// invocations on long routes: a path with thousands of points yields roughly
// maxSamples points regardless of raw geometry density.
func SampleStride(coords []geo.Coordinate, maxSamples int) []geo.Coordinate {
	if len(coords) == 0 {
		return nil
	}
	if maxSamples <= 0 {
		return coords
	}

	stride := len(coords) / maxSamples
	if stride < 1 {
		stride = 1
	}

	sampled := make([]geo.Coordinate, 0, maxSamples+1)
	for i := 0; i < len(coords); i += stride {
		sampled = append(sampled, coords[i])
	}
	return sampled
}
