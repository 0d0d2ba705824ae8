package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheSize bounds the reverse-lookup cache (default: 10000 entries).
	CacheSize int

	// Workers bounds batch concurrency (default: 5), sized to respect
	// provider rate limits while avoiding serial latency.
	Workers int
}

// Service provides geocoding with a bounded reverse-lookup cache.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	workers  int

	mu    sync.Mutex
	cache *lruCache
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 10000
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		workers:  workers,
		cache:    newLRUCache(cacheSize),
	}
}

// Forward resolves a free-text query to a place.
func (s *Service) Forward(ctx context.Context, query string) (*Place, error) {
	return s.provider.Forward(ctx, query)
}

// Reverse resolves a coordinate to a place, consulting the cache first.
// Nearby lookups share entries because keys are rounded to ~11 m.
func (s *Service) Reverse(ctx context.Context, c geo.Coordinate) (*Place, error) {
	key := cacheKey(c)

	s.mu.Lock()
	if place, ok := s.cache.get(key); ok {
		s.mu.Unlock()
		return place, nil
	}
	s.mu.Unlock()

	place, err := s.provider.Reverse(ctx, c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache.put(key, place)
	s.mu.Unlock()

	return place, nil
}

// ReverseBatch resolves many coordinates concurrently with a bounded worker
// pool. Results are positional: out[i] corresponds to coords[i]. A failed
// lookup degrades to a place with the UnknownRoad label, never an error.
func (s *Service) ReverseBatch(ctx context.Context, coords []geo.Coordinate) []*Place {
	out := make([]*Place, len(coords))
	if len(coords) == 0 {
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				place, err := s.Reverse(ctx, coords[i])
				if err != nil {
					s.logger.Debug().Err(err).
						Float64("lat", coords[i].Lat).
						Float64("lon", coords[i].Lon).
						Msg("reverse geocode failed, using fallback label")
					place = &Place{Road: UnknownRoad, Location: coords[i]}
				}
				out[i] = place
			}
		}()
	}

	for i := range coords {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// CacheLen returns the number of cached reverse lookups.
func (s *Service) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.len()
}

// cacheKey quantizes a coordinate to 4 decimal places.
func cacheKey(c geo.Coordinate) string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}
