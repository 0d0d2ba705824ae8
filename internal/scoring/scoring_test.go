package scoring_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajdeep-017/suraksha-net/internal/features"
	"github.com/Rajdeep-017/suraksha-net/internal/risk"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
	"github.com/Rajdeep-017/suraksha-net/internal/scoring"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
	"github.com/Rajdeep-017/suraksha-net/pkg/polyline"
)

// stubPredictor returns a fixed probability per latitude band, so each test
// route can carry its own constant risk.
type stubPredictor struct {
	byLat map[int]float64
}

func (s *stubPredictor) Predict(in features.Input) (risk.Prediction, error) {
	return risk.Prediction{Probability: s.byLat[int(in.Latitude)]}, nil
}

// routeAt builds a two-point route at the given integer latitude.
func routeAt(lat int, distanceKm float64) routing.Route {
	coords := []geo.Coordinate{
		{Lat: float64(lat) + 0.1, Lon: 73.0},
		{Lat: float64(lat) + 0.2, Lon: 73.1},
	}
	return routing.Route{
		GeometryPolyline: polyline.Encode(coords),
		DistanceMeters:   distanceKm * 1000,
		DurationSeconds:  distanceKm * 120,
	}
}

func newScorer(p scoring.RiskPredictor) *scoring.Scorer {
	return scoring.NewScorer(scoring.Config{
		Predictor: p,
		Logger:    zerolog.Nop(),
	})
}

func TestScorer_Rank_ExactScores(t *testing.T) {
	// Distances [5,10,15] km with average risks [0.1,0.05,0.9].
	predictor := &stubPredictor{byLat: map[int]float64{10: 0.1, 20: 0.05, 30: 0.9}}
	scorer := newScorer(predictor)

	ranking, err := scorer.Rank(context.Background(), []routing.Route{
		routeAt(10, 5),
		routeAt(20, 10),
		routeAt(30, 15),
	}, scoring.Context{City: "Pune", Hour: 12})
	require.NoError(t, err)

	// 0.7*risk*100 + 0.3*distance:
	//   route 1: 7.0 + 1.5 = 8.5
	//   route 2: 3.5 + 3.0 = 6.5
	//   route 3: 63.0 + 4.5 = 67.5
	assert.InDelta(t, 6.5, ranking.Recommended.FinalScore, 1e-9)
	assert.InDelta(t, 10.0, ranking.Recommended.DistanceKm, 1e-9)

	require.Len(t, ranking.Alternatives, 2)
	assert.InDelta(t, 8.5, ranking.Alternatives[0].FinalScore, 1e-9)
	assert.InDelta(t, 67.5, ranking.Alternatives[1].FinalScore, 1e-9)
}

func TestScorer_Rank_SaferRouteBeatsShorterRoute(t *testing.T) {
	// 8.0 km at risk 0.2 vs 9.5 km at risk 0.05: the longer, safer route
	// must win.
	predictor := &stubPredictor{byLat: map[int]float64{10: 0.2, 20: 0.05}}
	scorer := newScorer(predictor)

	ranking, err := scorer.Rank(context.Background(), []routing.Route{
		routeAt(10, 8.0),
		routeAt(20, 9.5),
	}, scoring.Context{})
	require.NoError(t, err)

	assert.InDelta(t, 6.35, ranking.Recommended.FinalScore, 1e-9)
	assert.InDelta(t, 9.5, ranking.Recommended.DistanceKm, 1e-9)

	require.Len(t, ranking.Alternatives, 1)
	assert.InDelta(t, 16.4, ranking.Alternatives[0].FinalScore, 1e-9)
}

func TestScorer_Rank_SkipsMalformedGeometry(t *testing.T) {
	predictor := &stubPredictor{byLat: map[int]float64{10: 0.1}}
	scorer := newScorer(predictor)

	ranking, err := scorer.Rank(context.Background(), []routing.Route{
		{GeometryPolyline: "", DistanceMeters: 3000},
		routeAt(10, 5),
	}, scoring.Context{})
	require.NoError(t, err)

	assert.Empty(t, ranking.Alternatives)
	assert.InDelta(t, 5.0, ranking.Recommended.DistanceKm, 1e-9)
}

func TestScorer_Rank_NoViableRoutes(t *testing.T) {
	scorer := newScorer(&stubPredictor{})

	_, err := scorer.Rank(context.Background(), []routing.Route{
		{GeometryPolyline: ""},
	}, scoring.Context{})
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrNoViableRoutes)

	_, err = scorer.Rank(context.Background(), nil, scoring.Context{})
	assert.ErrorIs(t, err, scoring.ErrNoViableRoutes)
}

func TestScorer_Rank_BoundsPredictorCalls(t *testing.T) {
	coords := make([]geo.Coordinate, 1000)
	for i := range coords {
		coords[i] = geo.Coordinate{Lat: 10.0 + float64(i)*0.0001, Lon: 73.0}
	}

	counter := &countingPredictor{}
	scorer := newScorer(counter)

	_, err := scorer.Rank(context.Background(), []routing.Route{{
		GeometryPolyline: polyline.Encode(coords),
		DistanceMeters:   12000,
	}}, scoring.Context{})
	require.NoError(t, err)

	assert.LessOrEqual(t, counter.calls, 21, "long routes must not trigger per-point model calls")
}

type countingPredictor struct {
	calls int
}

func (c *countingPredictor) Predict(features.Input) (risk.Prediction, error) {
	c.calls++
	return risk.Prediction{Probability: 0.1}, nil
}

func TestScorer_Score_SingleRoute(t *testing.T) {
	predictor := &stubPredictor{byLat: map[int]float64{10: 0.5}}
	scorer := newScorer(predictor)

	scored, err := scorer.Score(context.Background(), &routing.Route{
		GeometryPolyline: routeAt(10, 4).GeometryPolyline,
		DistanceMeters:   4000,
		DurationSeconds:  480,
	}, scoring.Context{})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, scored.AverageRisk, 1e-9)
	assert.InDelta(t, 50.0, scored.RiskPercentage, 1e-9)
	assert.InDelta(t, 0.5*100*0.7+4*0.3, scored.FinalScore, 1e-9)
	assert.InDelta(t, 8.0, scored.DurationMinutes, 1e-9)
}
