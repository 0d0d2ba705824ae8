package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/internal/api/models"
	"github.com/Rajdeep-017/suraksha-net/internal/api/response"
	"github.com/Rajdeep-017/suraksha-net/internal/corridor"
	"github.com/Rajdeep-017/suraksha-net/internal/features"
	"github.com/Rajdeep-017/suraksha-net/internal/segments"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
	"github.com/Rajdeep-017/suraksha-net/pkg/polyline"
)

// AnalyzeHandler handles fixed-geometry route analysis.
type AnalyzeHandler struct {
	predictor PointPredictor
	dataset   accidents.Repository
	logger    zerolog.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(predictor PointPredictor, dataset accidents.Repository, logger zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{predictor: predictor, dataset: dataset, logger: logger}
}

// AnalyzeRoute handles POST /api/analyze-route - corridor accidents and
// risk-colored segments for a caller-supplied geometry.
func (h *AnalyzeHandler) AnalyzeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.AnalyzeRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	route := routeGeometry(&input)
	if len(route) < 2 {
		response.BadRequest(w, r, "route geometry requires at least 2 points", []models.FieldError{
			{Field: "polyline", Message: "an encoded polyline or a coordinate list is required"},
		})
		return
	}

	corridorKm := input.CorridorKm
	if corridorKm <= 0 {
		corridorKm = corridor.DefaultWidthKm
	}

	records, err := h.dataset.All(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("loading accident dataset failed")
		response.InternalError(w, r, "accident dataset unavailable")
		return
	}

	nearby := corridor.Filter(records, route, corridorKm)

	resp := models.AnalyzeRouteResponse{
		DistanceKm:      polyline.LengthKm(route),
		AverageRisk:     h.averageRisk(route, &input),
		Segments:        make([]models.SegmentView, 0),
		NearbyAccidents: make([]models.AccidentView, 0, len(nearby)),
		CorridorKm:      corridorKm,
	}
	resp.RiskPercentage = resp.AverageRisk * 100

	for _, seg := range segments.Build(route, nearby) {
		resp.Segments = append(resp.Segments, models.SegmentView{
			Start: models.Point{Lat: seg.Start.Lat, Lon: seg.Start.Lon},
			End:   models.Point{Lat: seg.End.Lat, Lon: seg.End.Lon},
			Risk:  seg.Risk,
		})
	}
	for _, rec := range nearby {
		resp.NearbyAccidents = append(resp.NearbyAccidents, models.AccidentView{
			Latitude:      rec.Latitude,
			Longitude:     rec.Longitude,
			RiskScore:     rec.RiskScore,
			City:          rec.City,
			RoadCondition: rec.RoadCondition,
			Severity:      rec.Severity,
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// averageRisk samples the geometry and averages point predictions, degrading
// to 0 when the predictor fails structurally.
func (h *AnalyzeHandler) averageRisk(route []geo.Coordinate, input *models.AnalyzeRouteRequest) float64 {
	samples := polyline.SampleStride(route, 20)
	hour := resolveHour(input.Hour)

	var sum float64
	var n int
	for _, c := range samples {
		pred, err := h.predictor.Predict(features.Input{
			Latitude:      c.Lat,
			Longitude:     c.Lon,
			City:          input.City,
			Weather:       input.Weather,
			RoadCondition: input.RoadCondition,
			Hour:          hour,
		})
		if err != nil {
			h.logger.Warn().Err(err).Msg("point prediction failed during route analysis")
			continue
		}
		sum += pred.Probability
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func routeGeometry(input *models.AnalyzeRouteRequest) []geo.Coordinate {
	if input.Polyline != "" {
		return polyline.Decode(input.Polyline)
	}
	coords := make([]geo.Coordinate, 0, len(input.Coordinates))
	for _, p := range input.Coordinates {
		coords = append(coords, geo.Coordinate{Lat: p.Lat, Lon: p.Lon})
	}
	return coords
}
