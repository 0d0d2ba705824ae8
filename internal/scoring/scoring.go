// Package scoring ranks candidate routes by blending predicted accident
// risk with distance.
package scoring

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/features"
	"github.com/Rajdeep-017/suraksha-net/internal/risk"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
	"github.com/Rajdeep-017/suraksha-net/pkg/polyline"
)

// ErrNoViableRoutes indicates every candidate was skipped and nothing could
// be ranked.
var ErrNoViableRoutes = errors.New("no viable routes")

// Ranking weights. Safety dominates distance; the split is a documented
// policy constant, tunable only through Config.
const (
	DefaultSafetyWeight   = 0.7
	DefaultDistanceWeight = 0.3

	// DefaultMaxSamples bounds predictor invocations per route.
	DefaultMaxSamples = 20
)

// RiskPredictor scores a single point.
type RiskPredictor interface {
	Predict(in features.Input) (risk.Prediction, error)
}

// Config holds configuration for the scorer.
type Config struct {
	// Predictor scores sampled route points.
	Predictor RiskPredictor

	// Logger for scoring operations.
	Logger zerolog.Logger

	// SafetyWeight scales the risk term of the final score (default: 0.7).
	SafetyWeight float64

	// DistanceWeight scales the distance term (default: 0.3).
	DistanceWeight float64

	// MaxSamples bounds predictor calls per route (default: 20).
	MaxSamples int
}

// Scorer ranks candidate routes. Safe for concurrent use.
type Scorer struct {
	predictor      RiskPredictor
	logger         zerolog.Logger
	safetyWeight   float64
	distanceWeight float64
	maxSamples     int
}

// NewScorer creates a scorer with defaults filled in.
func NewScorer(cfg Config) *Scorer {
	safety := cfg.SafetyWeight
	distance := cfg.DistanceWeight
	if safety == 0 && distance == 0 {
		safety = DefaultSafetyWeight
		distance = DefaultDistanceWeight
	}

	maxSamples := cfg.MaxSamples
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	return &Scorer{
		predictor:      cfg.Predictor,
		logger:         cfg.Logger,
		safetyWeight:   safety,
		distanceWeight: distance,
		maxSamples:     maxSamples,
	}
}

// Context is the shared situational context applied to every sampled point.
type Context struct {
	City          string
	Weather       string
	RoadCondition string
	Hour          int
}

// ScoredRoute is one ranked candidate.
type ScoredRoute struct {
	Name             string           `json:"name"`
	GeometryPolyline string           `json:"polyline"`
	Geometry         []geo.Coordinate `json:"-"`
	DistanceKm       float64          `json:"distance_km"`
	DurationMinutes  float64          `json:"duration_minutes"`
	AverageRisk      float64          `json:"average_risk"`
	RiskPercentage   float64          `json:"risk_percentage"`
	FinalScore       float64          `json:"final_score"`
	Steps            []routing.Step   `json:"steps,omitempty"`
}

// Ranking is the ordered scoring result: the recommended route plus the
// remaining candidates ascending by final score.
type Ranking struct {
	Recommended  ScoredRoute   `json:"recommended_safe_path"`
	Alternatives []ScoredRoute `json:"alternatives"`
}

// Rank scores every candidate and orders them ascending by final score
// (lower is safer). Candidates with unusable geometry are skipped; if none
// survive, Rank fails with ErrNoViableRoutes.
func (s *Scorer) Rank(ctx context.Context, candidates []routing.Route, rctx Context) (*Ranking, error) {
	scored := make([]ScoredRoute, 0, len(candidates))

	for i := range candidates {
		route, err := s.score(ctx, &candidates[i], i, rctx)
		if err != nil {
			s.logger.Warn().Err(err).
				Int("candidate", i).
				Msg("skipping unscorable candidate route")
			continue
		}
		scored = append(scored, route)
	}

	if len(scored) == 0 {
		return nil, ErrNoViableRoutes
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore < scored[j].FinalScore
	})

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("ranked", len(scored)).
		Float64("best_score", scored[0].FinalScore).
		Msg("ranked candidate routes")

	return &Ranking{
		Recommended:  scored[0],
		Alternatives: scored[1:],
	}, nil
}

// Score evaluates a single route without ranking, for route analysis
// endpoints that already have a fixed geometry.
func (s *Scorer) Score(ctx context.Context, route *routing.Route, rctx Context) (ScoredRoute, error) {
	return s.score(ctx, route, 0, rctx)
}

var errEmptyGeometry = errors.New("route has no usable geometry")

func (s *Scorer) score(ctx context.Context, route *routing.Route, index int, rctx Context) (ScoredRoute, error) {
	coords := polyline.Decode(route.GeometryPolyline)
	if len(coords) < 2 {
		return ScoredRoute{}, errEmptyGeometry
	}

	avgRisk, err := s.averageRisk(ctx, coords, rctx)
	if err != nil {
		return ScoredRoute{}, err
	}

	distanceKm := route.DistanceMeters / 1000.0
	name := route.Summary
	if name == "" {
		name = routeName(index)
	}

	return ScoredRoute{
		Name:             name,
		GeometryPolyline: route.GeometryPolyline,
		Geometry:         coords,
		DistanceKm:       distanceKm,
		DurationMinutes:  route.DurationSeconds / 60.0,
		AverageRisk:      avgRisk,
		RiskPercentage:   avgRisk * 100,
		FinalScore:       avgRisk*100*s.safetyWeight + distanceKm*s.distanceWeight,
		Steps:            route.Steps,
	}, nil
}

// averageRisk samples the geometry at a bounded stride and averages the
// predicted high-severity probability across the samples.
func (s *Scorer) averageRisk(ctx context.Context, coords []geo.Coordinate, rctx Context) (float64, error) {
	samples := polyline.SampleStride(coords, s.maxSamples)

	var sum float64
	for _, c := range samples {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		pred, err := s.predictor.Predict(features.Input{
			Latitude:      c.Lat,
			Longitude:     c.Lon,
			City:          rctx.City,
			Weather:       rctx.Weather,
			RoadCondition: rctx.RoadCondition,
			Hour:          rctx.Hour,
		})
		if err != nil {
			return 0, err
		}
		sum += pred.Probability
	}
	return sum / float64(len(samples)), nil
}

func routeName(index int) string {
	names := []string{"Route A", "Route B", "Route C", "Route D", "Route E"}
	if index < len(names) {
		return names[index]
	}
	return "Route"
}
