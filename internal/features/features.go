// Package features builds the fixed-order numeric vector consumed by the
// frozen severity classifier. Field order is the contract with the trained
// model: tree splits are bound to positions, so reordering fields corrupts
// predictions silently. Change nothing here without retraining.
package features

import (
	"github.com/Rajdeep-017/suraksha-net/internal/model"
)

// VectorSize is the classifier's expected input width.
const VectorSize = 15

// Defaults applied when a request omits context.
const (
	DefaultWeather       = "Clear"
	DefaultRoadCondition = "Dry"

	// Traffic density is unknown at inference time; the training pipeline
	// used a 1-10 scale, 5 is the documented neutral midpoint.
	defaultTrafficDensity = 5.0
)

// Input is the per-point context for one prediction.
type Input struct {
	Latitude      float64
	Longitude     float64
	City          string
	Weather       string
	RoadCondition string
	Hour          int // 0-23, injected by the caller so tests control the clock
}

// Diagnostics reports which categorical lookups missed the fitted vocabulary
// and fell back to code 0. A fallback is never an error, but callers and
// tests need to tell a genuine code 0 from a fallback 0.
type Diagnostics struct {
	WeatherFallback       bool `json:"weather_fallback,omitempty"`
	RoadConditionFallback bool `json:"road_condition_fallback,omitempty"`
	TimeBinFallback       bool `json:"time_bin_fallback,omitempty"`
	DayNightFallback      bool `json:"day_night_fallback,omitempty"`
}

// Fallback reports whether any lookup fell back.
func (d Diagnostics) Fallback() bool {
	return d.WeatherFallback || d.RoadConditionFallback || d.TimeBinFallback || d.DayNightFallback
}

// Builder derives feature vectors using the categorical encoders fitted at
// training time. Safe for concurrent use; encoders are read-only.
type Builder struct {
	weather       *model.LabelEncoder
	roadCondition *model.LabelEncoder
	timeBin       *model.LabelEncoder
	dayNight      *model.LabelEncoder
}

// NewBuilder wires a builder to the loaded encoder set.
func NewBuilder(encoders map[string]*model.LabelEncoder) *Builder {
	return &Builder{
		weather:       encoders[model.EncoderWeather],
		roadCondition: encoders[model.EncoderRoadCondition],
		timeBin:       encoders[model.EncoderTimeBin],
		dayNight:      encoders[model.EncoderDayNight],
	}
}

// Build derives the 15-field vector for one input. Unknown categories encode
// as 0 and are flagged in Diagnostics; Build never fails.
func (b *Builder) Build(in Input) ([]float64, Diagnostics) {
	weather := in.Weather
	if weather == "" {
		weather = DefaultWeather
	}
	road := in.RoadCondition
	if road == "" {
		road = DefaultRoadCondition
	}

	timeBin := TimeBin(in.Hour)
	dayNight := DayNight(in.Hour)

	var diag Diagnostics
	weatherEnc := encode(b.weather, weather, &diag.WeatherFallback)
	roadEnc := encode(b.roadCondition, road, &diag.RoadConditionFallback)
	timeBinEnc := encode(b.timeBin, timeBin, &diag.TimeBinFallback)
	dayNightEnc := encode(b.dayNight, dayNight, &diag.DayNightFallback)

	weatherSeverity := WeatherSeverity(weather)
	roadRisk := RoadRisk(road)
	timeRisk := TimeRisk(timeBin)

	isNight := 0.0
	if dayNight == dayNightNighttime {
		isNight = 1.0
	}

	// Casualty-derived fields are training-time outcome labels, always 0
	// for a future prediction.
	vector := []float64{
		weatherEnc,
		roadEnc,
		timeBinEnc,
		dayNightEnc,
		weatherSeverity,
		defaultTrafficDensity,
		roadRisk,
		timeRisk,
		isNight,
		weatherSeverity * roadRisk, // weather_road_risk interaction
		0,                          // casualty_severity_idx
		0,                          // total_casualties
		0,                          // fatalities
		0,                          // serious_injuries
		0,                          // minor_injuries
	}
	return vector, diag
}

func encode(enc *model.LabelEncoder, name string, fallback *bool) float64 {
	code, ok := enc.Transform(name)
	if !ok {
		*fallback = true
		return 0
	}
	return float64(code)
}

// Time-of-day bins as named at training time.
const (
	timeBinMorningRush = "Morning Rush"
	timeBinMidday      = "Midday"
	timeBinAfternoon   = "Afternoon"
	timeBinEveningRush = "Evening Rush"
	timeBinNight       = "Night"
	timeBinLateNight   = "Late Night"

	dayNightDaytime   = "Daytime"
	dayNightNighttime = "Nighttime"
)

// TimeBin maps an hour of day to its training-time bucket.
func TimeBin(hour int) string {
	switch {
	case hour >= 6 && hour < 10:
		return timeBinMorningRush
	case hour >= 10 && hour < 12:
		return timeBinMidday
	case hour >= 12 && hour < 16:
		return timeBinAfternoon
	case hour >= 16 && hour < 20:
		return timeBinEveningRush
	case hour >= 20 && hour < 23:
		return timeBinNight
	default:
		return timeBinLateNight
	}
}

// DayNight maps an hour of day to the training-time day/night label.
func DayNight(hour int) string {
	if hour >= 20 || hour < 6 {
		return dayNightNighttime
	}
	return dayNightDaytime
}

// Ordinal risk lookups fitted by hand during training. Unrecognized values
// take the documented mid/low defaults, never an error.
var (
	roadRiskLevels = map[string]float64{
		"Slippery":           4,
		"Potholed":           3,
		"Under Construction": 3,
		"Wet":                2,
		"Dry":                1,
		"Good":               1,
	}
	timeRiskLevels = map[string]float64{
		timeBinLateNight:   3,
		timeBinNight:       2,
		timeBinMorningRush: 2,
		timeBinEveningRush: 2,
		timeBinAfternoon:   1,
		timeBinMidday:      1,
	}
	weatherSeverityLevels = map[string]float64{
		"Clear":  1,
		"Cloudy": 1,
		"Rainy":  3,
		"Foggy":  2,
		"Stormy": 4,
		"Hail":   4,
		"Snowy":  3,
	}
)

// RoadRisk returns the ordinal risk for a road condition, defaulting to 2.
func RoadRisk(condition string) float64 {
	if v, ok := roadRiskLevels[condition]; ok {
		return v
	}
	return 2
}

// TimeRisk returns the ordinal risk for a time bin, defaulting to 1.
func TimeRisk(bin string) float64 {
	if v, ok := timeRiskLevels[bin]; ok {
		return v
	}
	return 1
}

// WeatherSeverity returns the ordinal severity for a weather label,
// defaulting to 2.
func WeatherSeverity(weather string) float64 {
	if v, ok := weatherSeverityLevels[weather]; ok {
		return v
	}
	return 2
}
