package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/api/models"
	"github.com/Rajdeep-017/suraksha-net/internal/api/response"
	"github.com/Rajdeep-017/suraksha-net/internal/features"
	"github.com/Rajdeep-017/suraksha-net/internal/risk"
)

// PointPredictor scores a single point.
type PointPredictor interface {
	Predict(in features.Input) (risk.Prediction, error)
}

// RiskHandler handles single-point risk predictions.
type RiskHandler struct {
	predictor PointPredictor
	logger    zerolog.Logger
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(predictor PointPredictor, logger zerolog.Logger) *RiskHandler {
	return &RiskHandler{predictor: predictor, logger: logger}
}

// PredictRisk handles POST /api/predict-risk - severity prediction for one
// coordinate and context.
func (h *RiskHandler) PredictRisk(w http.ResponseWriter, r *http.Request) {
	var input models.PredictRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		response.BadRequest(w, r, "coordinates out of range", []models.FieldError{
			{Field: "latitude", Message: "must be within [-90, 90]"},
			{Field: "longitude", Message: "must be within [-180, 180]"},
		})
		return
	}

	pred, err := h.predictor.Predict(features.Input{
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		City:          input.City,
		Weather:       input.Weather,
		RoadCondition: input.RoadCondition,
		Hour:          resolveHour(input.Hour),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("risk prediction failed")
		response.InternalError(w, r, "risk prediction failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.PredictRiskResponse{
		Probability:     pred.Probability,
		RiskPercentage:  pred.Probability * 100,
		Severity:        pred.Severity,
		HotspotID:       pred.HotspotID,
		NeutralFallback: pred.NeutralFallback,
		UsedFallbacks:   pred.Diagnostics.Fallback(),
	})
}
