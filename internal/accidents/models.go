// Package accidents holds the historical accident dataset: immutable
// reference data loaded once per process lifetime and read concurrently by
// the corridor filter and segment builder.
package accidents

import "errors"

// Repository errors.
var (
	ErrMissingColumn = errors.New("accident dataset missing required column")
	ErrNoRecords     = errors.New("accident dataset has no records")
)

// Record is a single historical accident observation.
type Record struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RiskScore     float64 `json:"risk_score"`
	City          string  `json:"city"`
	RoadCondition string  `json:"road_condition"`
	Weather       string  `json:"weather,omitempty"`
	Severity      string  `json:"severity,omitempty"`

	TotalCasualties int `json:"total_casualties"`
	Fatalities      int `json:"fatalities"`
	SeriousInjuries int `json:"serious_injuries"`
	MinorInjuries   int `json:"minor_injuries"`
}
