package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/internal/api/models"
	"github.com/Rajdeep-017/suraksha-net/internal/api/response"
)

const defaultAccidentLimit = 100

// AccidentsHandler serves the historical accident dataset.
type AccidentsHandler struct {
	dataset accidents.Repository
	logger  zerolog.Logger
}

// NewAccidentsHandler creates a new AccidentsHandler.
func NewAccidentsHandler(dataset accidents.Repository, logger zerolog.Logger) *AccidentsHandler {
	return &AccidentsHandler{dataset: dataset, logger: logger}
}

// ListAccidents handles GET /api/accidents - list records, optionally
// filtered by city.
func (h *AccidentsHandler) ListAccidents(w http.ResponseWriter, r *http.Request) {
	limit := defaultAccidentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "limit must be a positive integer", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer"},
			})
			return
		}
		limit = parsed
	}

	var records []accidents.Record
	var err error
	if city := r.URL.Query().Get("city"); city != "" {
		records, err = h.dataset.ByCity(r.Context(), city)
	} else {
		records, err = h.dataset.All(r.Context())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("loading accident dataset failed")
		response.InternalError(w, r, "accident dataset unavailable")
		return
	}

	total := len(records)
	if len(records) > limit {
		records = records[:limit]
	}

	resp := models.AccidentsResponse{
		Items: make([]models.AccidentView, 0, len(records)),
		Total: total,
	}
	for _, rec := range records {
		resp.Items = append(resp.Items, models.AccidentView{
			Latitude:      rec.Latitude,
			Longitude:     rec.Longitude,
			RiskScore:     rec.RiskScore,
			City:          rec.City,
			RoadCondition: rec.RoadCondition,
			Severity:      rec.Severity,
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	response.JSON(w, r, http.StatusOK, resp)
}
