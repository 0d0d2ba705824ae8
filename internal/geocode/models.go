// Package geocode provides forward and reverse geocoding with a bounded
// cache and a bounded-concurrency batch path.
package geocode

import (
	"context"
	"errors"

	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNotFound indicates no place matched the query or coordinate.
	ErrNotFound = errors.New("no place found")
	// ErrProviderUnavailable indicates the geocoding provider is down.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// UnknownRoad is the fallback label when a reverse lookup fails. A missing
// road name degrades a step description, it never aborts a batch.
const UnknownRoad = "Unknown Road"

// Place is a resolved location.
type Place struct {
	DisplayName string         `json:"display_name"`
	Road        string         `json:"road,omitempty"`
	Suburb      string         `json:"suburb,omitempty"`
	City        string         `json:"city,omitempty"`
	State       string         `json:"state,omitempty"`
	Location    geo.Coordinate `json:"location"`
}

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Forward resolves a free-text query to a place.
	Forward(ctx context.Context, query string) (*Place, error)
	// Reverse resolves a coordinate to a place.
	Reverse(ctx context.Context, c geo.Coordinate) (*Place, error)
	// Name returns the provider identifier for logging.
	Name() string
}
