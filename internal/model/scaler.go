package model

import (
	"fmt"
	"math"
)

// StandardScaler reproduces the coordinate standardization fitted at
// training time: (x - mean) / scale per dimension.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a vector. Dimensions with a zero scale pass through
// mean-centered only, matching the training library's behavior.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler dimension mismatch: input %d, mean %d, scale %d",
			len(x), len(s.Mean), len(s.Scale))
	}

	out := make([]float64, len(x))
	for i := range x {
		if s.Scale[i] == 0 {
			out[i] = x[i] - s.Mean[i]
			continue
		}
		out[i] = (x[i] - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// KMeans holds the frozen hotspot cluster centroids.
type KMeans struct {
	Centroids [][]float64 `json:"centroids"`
}

// Predict returns the index of the centroid nearest to x by squared
// Euclidean distance.
func (k *KMeans) Predict(x []float64) (int, error) {
	if len(k.Centroids) == 0 {
		return 0, fmt.Errorf("kmeans model has no centroids")
	}

	best := 0
	bestDist := math.MaxFloat64
	for i, centroid := range k.Centroids {
		if len(centroid) != len(x) {
			return 0, fmt.Errorf("centroid %d dimension mismatch: %d vs %d", i, len(centroid), len(x))
		}
		var dist float64
		for d := range x {
			diff := x[d] - centroid[d]
			dist += diff * diff
		}
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best, nil
}
