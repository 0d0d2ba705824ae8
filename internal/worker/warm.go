package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/geocode"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// DirectionsWarmer fetches directions, populating its cache on the way.
type DirectionsWarmer interface {
	GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error)
}

// ReverseGeocoder resolves coordinates, populating its cache on the way.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, c geo.Coordinate) (*geocode.Place, error)
}

// WarmJob pre-fetches directions and reverse geocodes for the configured
// metro hubs so the first commuter requests of the day hit warm caches.
type WarmJob struct {
	config WarmConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	directions DirectionsWarmer
	geocoder   ReverseGeocoder

	metrics *WarmMetrics
}

// WarmMetrics tracks warm job statistics.
type WarmMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns        int64
	SuccessfulWarms  int64
	FailedWarms      int64
	DirectionsWarmed int64
	GeocodesWarmed   int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmJobConfig holds configuration for creating a WarmJob.
type WarmJobConfig struct {
	Config     WarmConfig
	Logger     zerolog.Logger
	Directions DirectionsWarmer
	Geocoder   ReverseGeocoder
}

// NewWarmJob creates a new warm job processor.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultWarmConfig()
	}

	return &WarmJob{
		config:     config,
		logger:     cfg.Logger,
		directions: cfg.Directions,
		geocoder:   cfg.Geocoder,
		metrics:    &WarmMetrics{},
	}
}

// WarmResult contains the result of a warm run.
type WarmResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalPairs int
	Successful int
	Failed     int
	Errors     []WarmError
}

// WarmError represents an error during a warm run.
type WarmError struct {
	Stage  string
	Origin geo.Coordinate
	Error  string
}

// Run executes the warm job for all configured targets.
func (j *WarmJob) Run(ctx context.Context) *WarmResult {
	startTime := time.Now()
	result := &WarmResult{
		StartTime:  startTime,
		TotalPairs: j.config.TotalPairs(),
	}

	j.logger.Info().
		Int("total_pairs", result.TotalPairs).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache warm job")

	pairs := j.config.AllPairs()

	pairsChan := make(chan HubPair, len(pairs))
	resultsChan := make(chan pairResult, len(pairs))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmWorker(ctx, pairsChan, resultsChan)
		}()
	}

	for _, p := range pairs {
		pairsChan <- p
	}
	close(pairsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, pr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("cache warm job completed")

	return result
}

type pairResult struct {
	pair    HubPair
	success bool
	errors  []WarmError
}

func (j *WarmJob) warmWorker(ctx context.Context, pairs <-chan HubPair, results chan<- pairResult) {
	for pair := range pairs {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.warmPair(ctx, pair)
		}
	}
}

func (j *WarmJob) warmPair(ctx context.Context, pair HubPair) pairResult {
	result := pairResult{
		pair:    pair,
		success: true,
	}

	pairCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if j.config.WarmDirections && j.directions != nil {
		if err := j.warmDirections(pairCtx, pair); err != nil {
			result.errors = append(result.errors, WarmError{
				Stage:  "directions",
				Origin: pair.Origin,
				Error:  err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.DirectionsWarmed, 1)
		}
	}

	if j.config.WarmGeocode && j.geocoder != nil {
		if err := j.warmGeocode(pairCtx, pair.Origin); err != nil {
			// Geocode failures are non-fatal: lookups degrade to
			// Unknown Road at request time.
			result.errors = append(result.errors, WarmError{
				Stage:  "geocode",
				Origin: pair.Origin,
				Error:  err.Error(),
			})
		} else {
			atomic.AddInt64(&j.metrics.GeocodesWarmed, 1)
		}
	}

	return result
}

func (j *WarmJob) warmDirections(ctx context.Context, pair HubPair) error {
	_, err := j.directions.GetDirections(ctx, routing.DirectionsRequest{
		Origin:       pair.Origin,
		Destination:  pair.Destination,
		Alternatives: true,
	})
	return err
}

func (j *WarmJob) warmGeocode(ctx context.Context, hub geo.Coordinate) error {
	_, err := j.geocoder.Reverse(ctx, hub)
	return err
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulWarms += int64(result.Successful)
	j.metrics.FailedWarms += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:        j.metrics.TotalRuns,
		SuccessfulWarms:  j.metrics.SuccessfulWarms,
		FailedWarms:      j.metrics.FailedWarms,
		DirectionsWarmed: j.metrics.DirectionsWarmed,
		GeocodesWarmed:   j.metrics.GeocodesWarmed,
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WarmJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"successful_warms":  m.SuccessfulWarms,
		"failed_warms":      m.FailedWarms,
		"directions_warmed": m.DirectionsWarmed,
		"geocodes_warmed":   m.GeocodesWarmed,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
