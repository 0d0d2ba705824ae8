package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajdeep-017/suraksha-net/internal/geocode"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
	"github.com/Rajdeep-017/suraksha-net/internal/worker"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

type stubDirections struct {
	calls int64
	err   error
}

func (s *stubDirections) GetDirections(_ context.Context, _ routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &routing.DirectionsResponse{Provider: "osrm"}, nil
}

type stubGeocoder struct {
	calls int64
	err   error
}

func (s *stubGeocoder) Reverse(_ context.Context, c geo.Coordinate) (*geocode.Place, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return &geocode.Place{Road: "JM Road", City: "Pune", Location: c}, nil
}

func singleCityConfig(hubs ...geo.Coordinate) worker.WarmConfig {
	return worker.WarmConfig{
		Targets: []worker.WarmTarget{
			{Name: "Test", Hubs: hubs},
		},
		Concurrency:    1,
		Timeout:        time.Second,
		WarmDirections: true,
		WarmGeocode:    true,
	}
}

func TestDefaultWarmConfig(t *testing.T) {
	cfg := worker.DefaultWarmConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.WarmDirections)
	assert.True(t, cfg.WarmGeocode)
	assert.NotEmpty(t, cfg.Targets)
}

func TestDefaultWarmTargets(t *testing.T) {
	targets := worker.DefaultWarmTargets()

	// Should have multiple cities
	assert.GreaterOrEqual(t, len(targets), 5)

	// Find Pune
	var pune *worker.WarmTarget
	for i := range targets {
		if targets[i].Name == "Pune" {
			pune = &targets[i]
			break
		}
	}
	require.NotNil(t, pune, "Pune should be in targets")
	assert.Equal(t, 1, pune.Priority)
	assert.GreaterOrEqual(t, len(pune.Hubs), 2)
}

func TestWarmConfig_AllPairs(t *testing.T) {
	cfg := worker.WarmConfig{
		Targets: []worker.WarmTarget{
			{
				Name: "City A",
				Hubs: []geo.Coordinate{
					{Lat: 1, Lon: 1},
					{Lat: 2, Lon: 2},
					{Lat: 3, Lon: 3},
				},
			},
			{
				Name: "City B",
				Hubs: []geo.Coordinate{
					{Lat: 4, Lon: 4},
					{Lat: 5, Lon: 5},
				},
			},
		},
	}

	pairs := cfg.AllPairs()
	assert.Len(t, pairs, 3)
	assert.Equal(t, 3, cfg.TotalPairs())

	// Pairs never cross city boundaries
	assert.Equal(t, 3.0, pairs[2].Origin.Lat)
	assert.Equal(t, 4.0, pairs[2].Destination.Lat)

	assert.Len(t, cfg.AllHubs(), 5)
}

func TestWarmConfig_SingleHubCity(t *testing.T) {
	cfg := worker.WarmConfig{
		Targets: []worker.WarmTarget{
			{Name: "Solo", Hubs: []geo.Coordinate{{Lat: 1, Lon: 1}}},
		},
	}

	assert.Empty(t, cfg.AllPairs())
	assert.Equal(t, 0, cfg.TotalPairs())
}

func TestWarmJob_Run(t *testing.T) {
	directions := &stubDirections{}
	geocoder := &stubGeocoder{}

	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: singleCityConfig(
			geo.Coordinate{Lat: 18.5204, Lon: 73.8567},
			geo.Coordinate{Lat: 18.5913, Lon: 73.7389},
			geo.Coordinate{Lat: 18.5089, Lon: 73.9260},
		),
		Logger:     zerolog.Nop(),
		Directions: directions,
		Geocoder:   geocoder,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 2, result.TotalPairs)
	assert.Equal(t, 2, result.Successful)
	assert.Zero(t, result.Failed)
	assert.Equal(t, int64(2), atomic.LoadInt64(&directions.calls))
	assert.Equal(t, int64(2), atomic.LoadInt64(&geocoder.calls))
}

func TestWarmJob_Run_NoServices(t *testing.T) {
	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: singleCityConfig(
			geo.Coordinate{Lat: 18.52, Lon: 73.85},
			geo.Coordinate{Lat: 18.59, Lon: 73.73},
		),
		Logger: zerolog.Nop(),
	})

	result := job.Run(context.Background())

	// Should complete without panicking
	assert.NotNil(t, result)
	assert.Equal(t, 1, result.TotalPairs)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestWarmJob_Run_DirectionsFailure(t *testing.T) {
	directions := &stubDirections{err: errors.New("provider down")}

	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: singleCityConfig(
			geo.Coordinate{Lat: 18.52, Lon: 73.85},
			geo.Coordinate{Lat: 18.59, Lon: 73.73},
		),
		Logger:     zerolog.Nop(),
		Directions: directions,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Successful)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "directions", result.Errors[0].Stage)
}

func TestWarmJob_Run_GeocodeFailureNonFatal(t *testing.T) {
	directions := &stubDirections{}
	geocoder := &stubGeocoder{err: errors.New("nominatim unavailable")}

	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: singleCityConfig(
			geo.Coordinate{Lat: 18.52, Lon: 73.85},
			geo.Coordinate{Lat: 18.59, Lon: 73.73},
		),
		Logger:     zerolog.Nop(),
		Directions: directions,
		Geocoder:   geocoder,
	})

	result := job.Run(context.Background())

	// Geocode failures are recorded but don't fail the pair
	assert.Equal(t, 1, result.Successful)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "geocode", result.Errors[0].Stage)
}

func TestWarmJob_Run_WithConcurrency(t *testing.T) {
	hubs := make([]geo.Coordinate, 11)
	for i := range hubs {
		hubs[i] = geo.Coordinate{Lat: 18.0 + float64(i)*0.1, Lon: 73.0 + float64(i)*0.1}
	}

	directions := &stubDirections{}

	cfg := worker.WarmConfig{
		Targets: []worker.WarmTarget{
			{Name: "Test", Hubs: hubs},
		},
		Concurrency:    3,
		Timeout:        time.Second,
		WarmDirections: true,
	}

	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config:     cfg,
		Logger:     zerolog.Nop(),
		Directions: directions,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 10, result.TotalPairs)
	assert.Equal(t, 10, result.Successful)
	assert.Equal(t, int64(10), atomic.LoadInt64(&directions.calls))
}

func TestWarmJob_Run_ContextCancellation(t *testing.T) {
	hubs := make([]geo.Coordinate, 100)
	for i := range hubs {
		hubs[i] = geo.Coordinate{Lat: 18.0 + float64(i)*0.01, Lon: 73.0 + float64(i)*0.01}
	}

	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: worker.WarmConfig{
			Targets:     []worker.WarmTarget{{Name: "Test", Hubs: hubs}},
			Concurrency: 1,
			Timeout:     100 * time.Millisecond,
		},
		Logger: zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := job.Run(ctx)

	// Should complete (even if not all pairs processed)
	assert.NotNil(t, result)
}

func TestWarmJob_GetMetrics(t *testing.T) {
	directions := &stubDirections{}

	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: singleCityConfig(
			geo.Coordinate{Lat: 18.52, Lon: 73.85},
			geo.Coordinate{Lat: 18.59, Lon: 73.73},
		),
		Logger:     zerolog.Nop(),
		Directions: directions,
	})

	_ = job.Run(context.Background())

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.DirectionsWarmed)
	assert.NotZero(t, metrics.LastRunAt)
	assert.Greater(t, metrics.LastRunDuration, time.Duration(0))
}

func TestWarmJob_MetricsSnapshot(t *testing.T) {
	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: singleCityConfig(
			geo.Coordinate{Lat: 18.52, Lon: 73.85},
			geo.Coordinate{Lat: 18.59, Lon: 73.73},
		),
		Logger: zerolog.Nop(),
	})

	_ = job.Run(context.Background())

	snapshot := job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "successful_warms")
	assert.Contains(t, snapshot, "failed_warms")
	assert.Contains(t, snapshot, "directions_warmed")
	assert.Contains(t, snapshot, "last_run_at")
	assert.Contains(t, snapshot, "last_run_duration")
}

func TestNewWarmJob_DefaultConfig(t *testing.T) {
	// Create job with empty config - should use defaults
	job := worker.NewWarmJob(worker.WarmJobConfig{
		Config: worker.WarmConfig{}, // Empty
		Logger: zerolog.Nop(),
	})

	metrics := job.GetMetrics()
	assert.Equal(t, int64(0), metrics.TotalRuns) // Not run yet
}
