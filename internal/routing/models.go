// Package routing provides candidate driving routes between two points,
// with caching in front of the external directions provider.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the directions provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for directions providers.
type Provider interface {
	// GetDirections retrieves candidate routes between two points,
	// including alternatives when available.
	GetDirections(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// DirectionsRequest is the request for computing candidate routes.
type DirectionsRequest struct {
	Origin       geo.Coordinate
	Destination  geo.Coordinate
	Alternatives bool // request alternative routes in addition to the fastest
}

// DirectionsResponse is the response containing candidate routes.
type DirectionsResponse struct {
	Routes    []Route
	Provider  string
	FetchedAt time.Time
}

// Route is a single candidate route as returned by the provider.
type Route struct {
	GeometryPolyline string  // Encoded polyline (precision 5)
	DistanceMeters   float64 // Total distance in meters
	DurationSeconds  float64 // Total duration in seconds
	Summary          string  // Human-readable route summary
	Steps            []Step  // Turn-by-turn maneuvers
}

// Step is a single turn-by-turn maneuver.
type Step struct {
	Instruction    string  // Human-readable maneuver text
	RoadName       string  // Road the maneuver is on
	DistanceMeters float64 // Distance for this step
	DurationSecs   float64 // Duration for this step
	Maneuver       string  // Provider maneuver type ("turn", "merge", ...)
}

// Error provides detailed error information from the directions provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
