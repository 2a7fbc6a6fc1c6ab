package model

import (
	"fmt"
	"math"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
)

// LinearModel is y = intercept + coef[0]*x. It is never mutated after loading.
type LinearModel struct {
	intercept float64
	coef      []float64
	feature   models.FeatureKind
	source    string
}

// NewLinearModel builds a model from raw coefficients.
func NewLinearModel(intercept float64, coef []float64, feature models.FeatureKind) *LinearModel {
	c := make([]float64, len(coef))
	copy(c, coef)
	return &LinearModel{intercept: intercept, coef: c, feature: feature}
}

// Predict evaluates the model for a single feature value.
func (m *LinearModel) Predict(x float64) (float64, error) {
	if len(m.coef) != 1 {
		return 0, fmt.Errorf("shape mismatch: model expects %d features, got 1", len(m.coef))
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("feature is not finite: %v", x)
	}
	y := m.intercept + m.coef[0]*x
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("prediction is not finite for x=%v", x)
	}
	return y, nil
}

func (m *LinearModel) Intercept() float64 { return m.intercept }

// Slope returns the first coefficient, or 0 for a model without coefficients.
func (m *LinearModel) Slope() float64 {
	if len(m.coef) == 0 {
		return 0
	}
	return m.coef[0]
}

// Feature is the input the artifact declares it was trained on; empty when undeclared.
func (m *LinearModel) Feature() models.FeatureKind { return m.feature }

// Source is the path the model was loaded from.
func (m *LinearModel) Source() string { return m.source }

var _ domsvc.Regressor = (*LinearModel)(nil)
