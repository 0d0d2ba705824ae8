package models

// NavigateRequest is the request body for computing ranked safe routes.
// Endpoints accept either explicit coordinates or free-text place queries;
// queries are geocoded server-side.
type NavigateRequest struct {
	Origin           *Point `json:"origin,omitempty"`
	Destination      *Point `json:"destination,omitempty"`
	OriginQuery      string `json:"originQuery,omitempty"`
	DestinationQuery string `json:"destinationQuery,omitempty"`

	City          string  `json:"city,omitempty"`
	Weather       string  `json:"weather,omitempty"`
	RoadCondition string  `json:"roadCondition,omitempty"`
	Hour          *int    `json:"hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	CorridorKm    float64 `json:"corridorKm,omitempty" validate:"omitempty,gt=0,lte=10"`
}

// NavigateResponse is the ranked routing result.
type NavigateResponse struct {
	RecommendedSafePath RouteView   `json:"recommended_safe_path"`
	Alternatives        []RouteView `json:"alternatives"`
	Provider            string      `json:"provider"`
	GeneratedAt         Timestamp   `json:"generatedAt"`
}

// RouteView is one scored candidate route.
type RouteView struct {
	Name            string        `json:"name"`
	Polyline        string        `json:"polyline"`
	DistanceKm      float64       `json:"distance_km"`
	DurationMinutes float64       `json:"duration_minutes"`
	AverageRisk     float64       `json:"average_risk"`
	RiskPercentage  float64       `json:"risk_percentage"`
	FinalScore      float64       `json:"final_score"`
	Steps           []StepView    `json:"steps,omitempty"`
	Segments        []SegmentView `json:"segments,omitempty"`
}

// StepView is one turn-by-turn maneuver.
type StepView struct {
	Instruction    string  `json:"instruction"`
	RoadName       string  `json:"road_name,omitempty"`
	DistanceMeters float64 `json:"distance_m"`
	DurationSecs   float64 `json:"duration_s"`
}

// SegmentView is one risk-colored route segment for map rendering.
type SegmentView struct {
	Start Point   `json:"start"`
	End   Point   `json:"end"`
	Risk  float64 `json:"risk"`
}

// PredictRiskRequest is the request body for a single-point prediction.
type PredictRiskRequest struct {
	Latitude      float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude     float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	City          string  `json:"city,omitempty"`
	Weather       string  `json:"weather,omitempty"`
	RoadCondition string  `json:"roadCondition,omitempty"`
	Hour          *int    `json:"hour,omitempty" validate:"omitempty,gte=0,lte=23"`
}

// PredictRiskResponse is a single-point prediction result.
type PredictRiskResponse struct {
	Probability     float64 `json:"probability"`
	RiskPercentage  float64 `json:"risk_percentage"`
	Severity        string  `json:"severity"`
	HotspotID       int     `json:"hotspot_id"`
	NeutralFallback bool    `json:"neutral_fallback,omitempty"`
	UsedFallbacks   bool    `json:"used_fallbacks,omitempty"`
}

// AnalyzeRouteRequest is the request body for analyzing a fixed geometry.
// The geometry arrives either as an encoded polyline or a coordinate list.
type AnalyzeRouteRequest struct {
	Polyline    string  `json:"polyline,omitempty"`
	Coordinates []Point `json:"coordinates,omitempty"`

	City          string  `json:"city,omitempty"`
	Weather       string  `json:"weather,omitempty"`
	RoadCondition string  `json:"roadCondition,omitempty"`
	Hour          *int    `json:"hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	CorridorKm    float64 `json:"corridorKm,omitempty" validate:"omitempty,gt=0,lte=10"`
}

// AnalyzeRouteResponse is the corridor and segment analysis of one route.
type AnalyzeRouteResponse struct {
	DistanceKm      float64        `json:"distance_km"`
	AverageRisk     float64        `json:"average_risk"`
	RiskPercentage  float64        `json:"risk_percentage"`
	Segments        []SegmentView  `json:"segments"`
	NearbyAccidents []AccidentView `json:"nearby_accidents"`
	CorridorKm      float64        `json:"corridor_km"`
}

// AccidentView is one historical accident record.
type AccidentView struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RiskScore     float64 `json:"risk_score"`
	City          string  `json:"city"`
	RoadCondition string  `json:"road_condition"`
	Severity      string  `json:"severity,omitempty"`
}

// AccidentsResponse is the paged accident listing.
type AccidentsResponse struct {
	Items []AccidentView `json:"items"`
	Total int            `json:"total"`
}
