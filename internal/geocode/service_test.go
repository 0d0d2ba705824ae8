package geocode_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajdeep-017/suraksha-net/internal/geocode"
	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// stubProvider counts lookups and can fail specific coordinates.
type stubProvider struct {
	mu       sync.Mutex
	reverses int
	failLat  float64
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Forward(_ context.Context, query string) (*geocode.Place, error) {
	return &geocode.Place{DisplayName: query}, nil
}

func (s *stubProvider) Reverse(_ context.Context, c geo.Coordinate) (*geocode.Place, error) {
	s.mu.Lock()
	s.reverses++
	s.mu.Unlock()

	if c.Lat == s.failLat {
		return nil, geocode.ErrProviderUnavailable
	}
	return &geocode.Place{
		Road:     fmt.Sprintf("Road %.4f", c.Lat),
		Location: c,
	}, nil
}

func (s *stubProvider) reverseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reverses
}

func newService(p geocode.Provider, cacheSize int) *geocode.Service {
	return geocode.NewService(geocode.ServiceConfig{
		Provider:  p,
		Logger:    zerolog.Nop(),
		CacheSize: cacheSize,
	})
}

func TestService_Reverse_CachesByRoundedCoordinate(t *testing.T) {
	provider := &stubProvider{failLat: -999}
	svc := newService(provider, 100)

	a := geo.Coordinate{Lat: 18.52041, Lon: 73.85674}
	// Within ~11m of a: rounds to the same 4-decimal key.
	b := geo.Coordinate{Lat: 18.52043, Lon: 73.85671}

	first, err := svc.Reverse(context.Background(), a)
	require.NoError(t, err)

	second, err := svc.Reverse(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.reverseCount(), "second lookup must hit the cache")
	assert.Equal(t, 1, svc.CacheLen())
}

func TestService_Reverse_CacheEviction(t *testing.T) {
	provider := &stubProvider{failLat: -999}
	svc := newService(provider, 2)

	for i := 0; i < 5; i++ {
		_, err := svc.Reverse(context.Background(), geo.Coordinate{Lat: float64(i), Lon: 0})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, svc.CacheLen(), "cache must stay at capacity")
}

func TestService_ReverseBatch_PositionalResults(t *testing.T) {
	provider := &stubProvider{failLat: -999}
	svc := newService(provider, 100)

	coords := []geo.Coordinate{
		{Lat: 18.1, Lon: 73.1},
		{Lat: 18.2, Lon: 73.2},
		{Lat: 18.3, Lon: 73.3},
	}

	places := svc.ReverseBatch(context.Background(), coords)
	require.Len(t, places, 3)
	for i, place := range places {
		require.NotNil(t, place)
		assert.Equal(t, coords[i], place.Location, "result %d must match input order", i)
	}
}

func TestService_ReverseBatch_FailureDegradesToFallback(t *testing.T) {
	provider := &stubProvider{failLat: 18.2}
	svc := newService(provider, 100)

	places := svc.ReverseBatch(context.Background(), []geo.Coordinate{
		{Lat: 18.1, Lon: 73.1},
		{Lat: 18.2, Lon: 73.2}, // fails
		{Lat: 18.3, Lon: 73.3},
	})
	require.Len(t, places, 3)

	assert.Equal(t, "Road 18.1000", places[0].Road)
	assert.Equal(t, geocode.UnknownRoad, places[1].Road, "failed lookup degrades, never aborts the batch")
	assert.Equal(t, "Road 18.3000", places[2].Road)
}

func TestService_ReverseBatch_Empty(t *testing.T) {
	svc := newService(&stubProvider{failLat: -999}, 100)
	assert.Empty(t, svc.ReverseBatch(context.Background(), nil))
}
