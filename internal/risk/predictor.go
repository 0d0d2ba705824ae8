// Package risk turns point context into accident-severity predictions using
// the frozen artifact set.
package risk

import (
	"fmt"

	"github.com/Rajdeep-017/suraksha-net/internal/features"
	"github.com/Rajdeep-017/suraksha-net/internal/model"
)

// HighSeverityLabel is the class whose probability mass drives route scoring.
const HighSeverityLabel = "High"

// NeutralProbability is returned when the loaded label set has no
// high-severity class. A degraded-but-available prediction beats a hard
// failure on every inference call.
const NeutralProbability = 0.5

// Prediction is the outcome of scoring a single point.
type Prediction struct {
	// Probability is the model's estimated likelihood of a high-severity
	// accident at this point, in [0,1].
	Probability float64 `json:"probability"`

	// Severity is the most likely class label.
	Severity string `json:"severity"`

	// HotspotID is the historical accident cluster this point falls into,
	// or -1 when cluster assignment was unavailable.
	HotspotID int `json:"hotspot_id"`

	// NeutralFallback is set when the label set lacked the high-severity
	// class and Probability is the neutral default.
	NeutralFallback bool `json:"neutral_fallback,omitempty"`

	// Diagnostics carries the feature builder's fallback flags.
	Diagnostics features.Diagnostics `json:"diagnostics,omitempty"`
}

// Predictor scores points against the frozen classifier. Safe for concurrent
// use; all referenced artifacts are read-only.
type Predictor struct {
	artifacts *model.InferenceContext
	builder   *features.Builder
}

// NewPredictor wires a predictor to a loaded artifact set.
func NewPredictor(artifacts *model.InferenceContext) *Predictor {
	return &Predictor{
		artifacts: artifacts,
		builder:   features.NewBuilder(artifacts.Encoders),
	}
}

// Predict scores one point. Unknown categories and a missing high-severity
// label degrade to documented fallbacks; only a structural mismatch between
// builder output and classifier input surfaces as an error.
func (p *Predictor) Predict(in features.Input) (Prediction, error) {
	vector, diag := p.builder.Build(in)

	probs, err := p.artifacts.Forest.PredictProba(vector)
	if err != nil {
		return Prediction{}, fmt.Errorf("scoring feature vector: %w", err)
	}

	pred := Prediction{
		Severity:    p.argmaxLabel(probs),
		HotspotID:   p.hotspot(in.Latitude, in.Longitude),
		Diagnostics: diag,
	}

	// The label ordering comes from the encoder fitted at training time,
	// so the high-severity index is looked up per call, never hard-coded.
	idx := p.artifacts.SeverityEncoder.IndexOf(HighSeverityLabel)
	if idx < 0 || idx >= len(probs) {
		pred.Probability = NeutralProbability
		pred.NeutralFallback = true
		return pred, nil
	}
	pred.Probability = probs[idx]
	return pred, nil
}

// Probability is a convenience wrapper returning only P(high severity).
func (p *Predictor) Probability(in features.Input) (float64, error) {
	pred, err := p.Predict(in)
	if err != nil {
		return 0, err
	}
	return pred.Probability, nil
}

func (p *Predictor) argmaxLabel(probs []float64) string {
	classes := p.artifacts.SeverityEncoder.Classes()
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	if best < len(classes) {
		return classes[best]
	}
	return ""
}

// hotspot assigns the point to its nearest historical accident cluster.
// Assignment is response metadata only; failures degrade to -1.
func (p *Predictor) hotspot(lat, lon float64) int {
	scaled, err := p.artifacts.CoordScaler.Transform([]float64{lat, lon})
	if err != nil {
		return -1
	}
	cluster, err := p.artifacts.Hotspots.Predict(scaled)
	if err != nil {
		return -1
	}
	return cluster
}
