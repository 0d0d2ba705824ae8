// Package handler provides HTTP handlers for the Suraksha-Net API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/internal/api/models"
	"github.com/Rajdeep-017/suraksha-net/internal/api/response"
	"github.com/Rajdeep-017/suraksha-net/internal/corridor"
	"github.com/Rajdeep-017/suraksha-net/internal/geocode"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
	"github.com/Rajdeep-017/suraksha-net/internal/scoring"
	"github.com/Rajdeep-017/suraksha-net/internal/segments"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// DirectionsService provides candidate routes.
type DirectionsService interface {
	GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error)
	ProviderName() string
}

// GeocodeService resolves free-text place queries.
type GeocodeService interface {
	Forward(ctx context.Context, query string) (*geocode.Place, error)
}

// RouteRanker scores and orders candidate routes.
type RouteRanker interface {
	Rank(ctx context.Context, candidates []routing.Route, rctx scoring.Context) (*scoring.Ranking, error)
}

// NavigateHandler handles the safe-navigation endpoint.
type NavigateHandler struct {
	directions DirectionsService
	geocoder   GeocodeService
	ranker     RouteRanker
	dataset    accidents.Repository
	logger     zerolog.Logger
}

// NewNavigateHandler creates a new NavigateHandler.
func NewNavigateHandler(
	directions DirectionsService,
	geocoder GeocodeService,
	ranker RouteRanker,
	dataset accidents.Repository,
	logger zerolog.Logger,
) *NavigateHandler {
	return &NavigateHandler{
		directions: directions,
		geocoder:   geocoder,
		ranker:     ranker,
		dataset:    dataset,
		logger:     logger,
	}
}

// NavigateSafe handles POST /api/navigate-safe - ranked safe routes between
// two points.
func (h *NavigateHandler) NavigateSafe(w http.ResponseWriter, r *http.Request) {
	var input models.NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	origin, city, ok := h.resolveEndpoint(w, r, input.Origin, input.OriginQuery, "origin")
	if !ok {
		return
	}
	destination, _, ok := h.resolveEndpoint(w, r, input.Destination, input.DestinationQuery, "destination")
	if !ok {
		return
	}

	if input.City == "" {
		input.City = city
	}

	directions, err := h.directions.GetDirections(r.Context(), routing.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Alternatives: true,
	})
	if err != nil {
		h.writeRoutingError(w, r, err)
		return
	}

	ranking, err := h.ranker.Rank(r.Context(), directions.Routes, scoring.Context{
		City:          input.City,
		Weather:       input.Weather,
		RoadCondition: input.RoadCondition,
		Hour:          resolveHour(input.Hour),
	})
	if err != nil {
		if errors.Is(err, scoring.ErrNoViableRoutes) {
			response.NotFound(w, r, "no viable routes between the given points")
			return
		}
		h.logger.Error().Err(err).Msg("route ranking failed")
		response.InternalError(w, r, "route scoring failed")
		return
	}

	records, err := h.dataset.All(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("loading accident dataset failed")
		records = nil
	}

	resp := models.NavigateResponse{
		RecommendedSafePath: toRouteView(&ranking.Recommended, records, input.CorridorKm),
		Alternatives:        make([]models.RouteView, 0, len(ranking.Alternatives)),
		Provider:            directions.Provider,
		GeneratedAt:         models.Timestamp(time.Now()),
	}
	for i := range ranking.Alternatives {
		// Alternatives skip segment coloring; clients render only the
		// recommended path in detail.
		resp.Alternatives = append(resp.Alternatives, toRouteView(&ranking.Alternatives[i], nil, 0))
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// resolveEndpoint turns a point-or-query input into a coordinate. On failure
// it writes the error response and returns ok=false.
func (h *NavigateHandler) resolveEndpoint(w http.ResponseWriter, r *http.Request, point *models.Point, query, field string) (geo.Coordinate, string, bool) {
	if point != nil {
		return geo.Coordinate{Lat: point.Lat, Lon: point.Lon}, "", true
	}
	if query == "" {
		response.BadRequest(w, r, "missing route endpoint", []models.FieldError{
			{Field: field, Message: "coordinates or a place query are required"},
		})
		return geo.Coordinate{}, "", false
	}

	place, err := h.geocoder.Forward(r.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			response.NotFound(w, r, "could not resolve "+field+" query")
			return geo.Coordinate{}, "", false
		}
		h.logger.Error().Err(err).Str("query", query).Msg("geocoding failed")
		response.ServiceUnavailable(w, r, "geocoding service unavailable")
		return geo.Coordinate{}, "", false
	}
	return place.Location, place.City, true
}

func (h *NavigateHandler) writeRoutingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routing.ErrNoRouteFound):
		response.NotFound(w, r, "no route found between the given points")
	case errors.Is(err, routing.ErrInvalidCoordinates):
		response.BadRequest(w, r, "invalid coordinates", nil)
	case errors.Is(err, routing.ErrRateLimitExceeded):
		response.TooManyRequests(w, r, "directions provider rate limit exceeded")
	default:
		h.logger.Error().Err(err).Msg("directions fetch failed")
		response.ServiceUnavailable(w, r, "directions provider unavailable")
	}
}

// toRouteView converts a scored route, attaching risk-colored segments when
// a record set is supplied.
func toRouteView(route *scoring.ScoredRoute, records []accidents.Record, corridorKm float64) models.RouteView {
	view := models.RouteView{
		Name:            route.Name,
		Polyline:        route.GeometryPolyline,
		DistanceKm:      route.DistanceKm,
		DurationMinutes: route.DurationMinutes,
		AverageRisk:     route.AverageRisk,
		RiskPercentage:  route.RiskPercentage,
		FinalScore:      route.FinalScore,
	}

	for _, step := range route.Steps {
		view.Steps = append(view.Steps, models.StepView{
			Instruction:    step.Instruction,
			RoadName:       step.RoadName,
			DistanceMeters: step.DistanceMeters,
			DurationSecs:   step.DurationSecs,
		})
	}

	if records != nil {
		nearby := corridor.Filter(records, route.Geometry, corridorKm)
		for _, seg := range segments.Build(route.Geometry, nearby) {
			view.Segments = append(view.Segments, models.SegmentView{
				Start: models.Point{Lat: seg.Start.Lat, Lon: seg.Start.Lon},
				End:   models.Point{Lat: seg.End.Lat, Lon: seg.End.Lon},
				Risk:  seg.Risk,
			})
		}
	}

	return view
}

// resolveHour uses the request hour when provided, wall clock otherwise.
func resolveHour(hour *int) int {
	if hour != nil && *hour >= 0 && *hour <= 23 {
		return *hour
	}
	return time.Now().Hour()
}
