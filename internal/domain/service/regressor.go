package service

import (
	"time"

	"StockSight/internal/domain/models"
)

// Regressor is a fitted single-feature linear model. Implementations are immutable
// and safe for concurrent use.
type Regressor interface {
	Predict(x float64) (float64, error)
	Intercept() float64
	Slope() float64
}

// Feature is a parsed model input.
type Feature struct {
	Value float64
	Date  time.Time // set for date features only
}

// FeatureParser turns raw user input into the model's feature value.
type FeatureParser interface {
	Kind() models.FeatureKind
	Parse(raw string) (Feature, error)
}
