// Package osrm provides a client for the OSRM route service.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/provider/resilience"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM route service client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetDirections retrieves candidate driving routes between two points.
func (c *Client) GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	// OSRM takes coordinates as {lon},{lat} pairs in the path.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?alternatives=%t&overview=full&geometries=polyline&steps=true",
		c.baseURL,
		req.Origin.Lon, req.Origin.Lat,
		req.Destination.Lon, req.Destination.Lat,
		req.Alternatives,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Msg("requesting directions from OSRM")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	}
	if resp.StatusCode >= 500 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", resp.StatusCode),
			Message:  "directions provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	// OSRM reports domain errors through its response code field, on both
	// 200 and 400 statuses.
	var osrmResp osrmResponse
	if err := json.Unmarshal(respBody, &osrmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if osrmResp.Code != codeOK {
		return nil, c.codeError(&osrmResp)
	}
	if len(osrmResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	}

	result := c.toDirectionsResponse(&osrmResp)

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Msg("received directions from OSRM")

	return result, nil
}

// codeError maps OSRM response codes to domain errors.
func (c *Client) codeError(resp *osrmResponse) error {
	switch resp.Code {
	case codeNoRoute, codeNoSegment:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case codeInvalidQuery, codeInvalidValue:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  resp.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     resp.Code,
			Message:  resp.Message,
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toDirectionsResponse converts an OSRM response to the domain model.
func (c *Client) toDirectionsResponse(resp *osrmResponse) *routing.DirectionsResponse {
	routes := make([]routing.Route, 0, len(resp.Routes))

	for i := range resp.Routes {
		osrmRoute := &resp.Routes[i]
		route := routing.Route{
			GeometryPolyline: osrmRoute.Geometry,
			DistanceMeters:   osrmRoute.Distance,
			DurationSeconds:  osrmRoute.Duration,
		}

		for j := range osrmRoute.Legs {
			leg := &osrmRoute.Legs[j]
			if route.Summary == "" && leg.Summary != "" {
				route.Summary = leg.Summary
			}
			for k := range leg.Steps {
				step := &leg.Steps[k]
				route.Steps = append(route.Steps, routing.Step{
					Instruction:    stepInstruction(step),
					RoadName:       step.Name,
					DistanceMeters: step.Distance,
					DurationSecs:   step.Duration,
					Maneuver:       step.Maneuver.Type,
				})
			}
		}

		routes = append(routes, route)
	}

	return &routing.DirectionsResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
}

// stepInstruction builds readable maneuver text from OSRM step fields, which
// carry no prose of their own.
func stepInstruction(step *osrmStep) string {
	var b strings.Builder
	b.WriteString(capitalize(step.Maneuver.Type))
	if step.Maneuver.Modifier != "" {
		b.WriteString(" ")
		b.WriteString(step.Maneuver.Modifier)
	}
	if step.Name != "" {
		b.WriteString(" onto ")
		b.WriteString(step.Name)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
