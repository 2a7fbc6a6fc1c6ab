package models

import "time"

// FeatureKind names the single model input.
type FeatureKind string

const (
	FeatureDate FeatureKind = "date" // calendar date as proleptic Gregorian ordinal
	FeatureOpen FeatureKind = "open" // opening price
)

// Trend classifies a prediction against the reference price.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// ClassifyTrend maps a signed delta onto a trend. Zero is compared exactly.
func ClassifyTrend(delta float64) Trend {
	switch {
	case delta > 0:
		return TrendUp
	case delta < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// PredictionResult is one request's computed answer. It is never stored between requests.
type PredictionResult struct {
	Input      string
	Kind       FeatureKind
	Feature    float64
	TargetDate time.Time // zero unless Kind == FeatureDate
	Predicted  float64
	Reference  float64
	Delta      float64
	Trend      Trend
	Intercept  float64
	Slope      float64
}

// PredictionEvent is the journal record of a successful prediction.
type PredictionEvent struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Kind      FeatureKind `json:"feature_kind"`
	Input     string      `json:"input"`
	Feature   float64     `json:"feature"`
	Predicted float64     `json:"predicted"`
	Reference float64     `json:"reference"`
	Delta     float64     `json:"delta"`
	Trend     Trend       `json:"trend"`
}

// ModelInfo describes the loaded regression for display.
type ModelInfo struct {
	Ready     bool
	Feature   FeatureKind
	Intercept float64
	Slope     float64
	Source    string
}
