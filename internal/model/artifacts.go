// Package model loads the frozen ML artifact set produced by the offline
// training pipeline and exposes it as an immutable inference context.
//
// Five artifacts are exported from training as JSON and consumed here:
//
//	severity_model.json    random-forest severity classifier
//	encoders.json          per-feature categorical label encoders
//	severity_encoder.json  Low/Medium/High target label encoder
//	coord_scaler.json      lat/lon standard scaler
//	kmeans_hotspots.json   hotspot cluster centroids
//
// Everything is loaded once at process startup and never mutated after;
// concurrent readers need no locking.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside the model directory.
const (
	ForestFile          = "severity_model.json"
	EncodersFile        = "encoders.json"
	SeverityEncoderFile = "severity_encoder.json"
	CoordScalerFile     = "coord_scaler.json"
	HotspotsFile        = "kmeans_hotspots.json"
)

// Categorical encoder keys inside encoders.json.
const (
	EncoderWeather       = "Weather"
	EncoderRoadCondition = "Road_Condition"
	EncoderTimeBin       = "Time_Bin"
	EncoderDayNight      = "Day_Night"
	EncoderCity          = "City"
)

// ErrArtifactMissing indicates a required artifact file was not found.
// Missing artifacts are a configuration error: the service refuses to start
// rather than silently running without a predictor.
var ErrArtifactMissing = errors.New("model artifact missing")

// InferenceContext is the complete frozen artifact set. It is constructed
// once by Load and injected by reference into every scoring call; it is
// never a hidden global.
type InferenceContext struct {
	Forest          *Forest
	Encoders        map[string]*LabelEncoder
	SeverityEncoder *LabelEncoder
	CoordScaler     *StandardScaler
	Hotspots        *KMeans
}

// Load reads all artifacts from dir. Any missing or malformed artifact is
// an error; there is no degraded mode for an absent classifier.
func Load(dir string) (*InferenceContext, error) {
	var forest Forest
	if err := loadJSON(dir, ForestFile, &forest); err != nil {
		return nil, err
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", ForestFile, err)
	}

	var encoders map[string]*LabelEncoder
	if err := loadJSON(dir, EncodersFile, &encoders); err != nil {
		return nil, err
	}
	for _, key := range []string{EncoderWeather, EncoderRoadCondition, EncoderTimeBin, EncoderDayNight, EncoderCity} {
		if encoders[key] == nil {
			return nil, fmt.Errorf("%s has no %q encoder", EncodersFile, key)
		}
	}

	var severity LabelEncoder
	if err := loadJSON(dir, SeverityEncoderFile, &severity); err != nil {
		return nil, err
	}
	if severity.Len() != forest.ClassCount {
		return nil, fmt.Errorf("severity encoder has %d classes, forest expects %d",
			severity.Len(), forest.ClassCount)
	}

	var scaler StandardScaler
	if err := loadJSON(dir, CoordScalerFile, &scaler); err != nil {
		return nil, err
	}

	var hotspots KMeans
	if err := loadJSON(dir, HotspotsFile, &hotspots); err != nil {
		return nil, err
	}

	return &InferenceContext{
		Forest:          &forest,
		Encoders:        encoders,
		SeverityEncoder: &severity,
		CoordScaler:     &scaler,
		Hotspots:        &hotspots,
	}, nil
}

func loadJSON(dir, name string, v interface{}) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
