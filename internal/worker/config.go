// Package worker provides background job processing for Suraksha-Net.
package worker

import (
	"time"

	"github.com/Rajdeep-017/suraksha-net/pkg/geo"
)

// WarmTarget represents a metropolitan area to pre-warm.
type WarmTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Hubs are the major traffic hubs of the city. Directions are warmed
	// pairwise between consecutive hubs, reverse geocoding per hub.
	Hubs []geo.Coordinate

	// Priority determines warm order (lower = higher priority).
	Priority int
}

// WarmConfig holds configuration for the cache warm job.
type WarmConfig struct {
	// Targets are the metropolitan areas to warm.
	// If empty, uses DefaultWarmTargets.
	Targets []WarmTarget

	// Concurrency is the number of concurrent warm operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each warm operation.
	// Default: 30 seconds
	Timeout time.Duration

	// WarmDirections enables directions cache warming.
	// Default: true
	WarmDirections bool

	// WarmGeocode enables reverse-geocode cache warming.
	// Default: true
	WarmGeocode bool
}

// DefaultWarmConfig returns the default warm configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Targets:        DefaultWarmTargets(),
		Concurrency:    3,
		Timeout:        30 * time.Second,
		WarmDirections: true,
		WarmGeocode:    true,
	}
}

// DefaultWarmTargets returns the default warm targets: the metros the
// accident dataset covers, heaviest commuter corridors first.
func DefaultWarmTargets() []WarmTarget {
	return []WarmTarget{
		{
			Name:     "Pune",
			Priority: 1,
			Hubs: []geo.Coordinate{
				{Lat: 18.5204, Lon: 73.8567}, // Shivajinagar
				{Lat: 18.5913, Lon: 73.7389}, // Hinjewadi
				{Lat: 18.5089, Lon: 73.9260}, // Hadapsar
				{Lat: 18.5679, Lon: 73.9143}, // Viman Nagar
			},
		},
		{
			Name:     "Mumbai",
			Priority: 1,
			Hubs: []geo.Coordinate{
				{Lat: 18.9402, Lon: 72.8356}, // CSMT
				{Lat: 19.0596, Lon: 72.8295}, // Bandra
				{Lat: 19.1136, Lon: 72.8697}, // Andheri East
				{Lat: 19.0330, Lon: 73.0297}, // Navi Mumbai
			},
		},
		{
			Name:     "Bengaluru",
			Priority: 1,
			Hubs: []geo.Coordinate{
				{Lat: 12.9763, Lon: 77.5713}, // Majestic
				{Lat: 12.9698, Lon: 77.7500}, // Whitefield
				{Lat: 12.9352, Lon: 77.6245}, // Koramangala
				{Lat: 13.0360, Lon: 77.5970}, // Hebbal
			},
		},
		{
			Name:     "Delhi",
			Priority: 2,
			Hubs: []geo.Coordinate{
				{Lat: 28.6429, Lon: 77.2191}, // New Delhi
				{Lat: 28.5562, Lon: 77.1000}, // IGI Airport
				{Lat: 28.6304, Lon: 77.2177}, // Connaught Place
			},
		},
		{
			Name:     "Hyderabad",
			Priority: 2,
			Hubs: []geo.Coordinate{
				{Lat: 17.3850, Lon: 78.4867}, // Abids
				{Lat: 17.4435, Lon: 78.3772}, // HITEC City
			},
		},
		{
			Name:     "Chennai",
			Priority: 3,
			Hubs: []geo.Coordinate{
				{Lat: 13.0827, Lon: 80.2707}, // Chennai Central
				{Lat: 12.9941, Lon: 80.1709}, // Guindy
			},
		},
	}
}

// HubPair is a directed origin/destination pair to warm.
type HubPair struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
}

// AllPairs returns consecutive hub pairs from all targets, ordered by
// target priority.
func (c WarmConfig) AllPairs() []HubPair {
	var pairs []HubPair
	for _, target := range c.Targets {
		for i := 0; i+1 < len(target.Hubs); i++ {
			pairs = append(pairs, HubPair{
				Origin:      target.Hubs[i],
				Destination: target.Hubs[i+1],
			})
		}
	}
	return pairs
}

// AllHubs returns all hub coordinates from all targets.
func (c WarmConfig) AllHubs() []geo.Coordinate {
	var hubs []geo.Coordinate
	for _, target := range c.Targets {
		hubs = append(hubs, target.Hubs...)
	}
	return hubs
}

// TotalPairs returns the total number of hub pairs to warm.
func (c WarmConfig) TotalPairs() int {
	total := 0
	for _, target := range c.Targets {
		if len(target.Hubs) > 1 {
			total += len(target.Hubs) - 1
		}
	}
	return total
}
