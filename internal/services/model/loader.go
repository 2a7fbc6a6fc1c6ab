package model

import (
	"fmt"
	"math"
	"os"

	"StockSight/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// artifact is the on-disk model. JSON exports load unchanged since JSON is valid YAML;
// scikit-learn style keys (intercept_, coef_) are accepted as aliases.
type artifact struct {
	Intercept    *float64  `yaml:"intercept"`
	Coef         []float64 `yaml:"coef"`
	InterceptAlt *float64  `yaml:"intercept_"`
	CoefAlt      []float64 `yaml:"coef_"`
	Feature      string    `yaml:"feature"`
}

// Load reads a model artifact from path. Any failure wraps models.ErrModelUnavailable.
func Load(path string) (*LinearModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w: %w", models.ErrModelUnavailable, err)
	}

	var a artifact
	if err := yaml.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("load model: %w: decode %s: %w", models.ErrModelUnavailable, path, err)
	}

	intercept := a.Intercept
	if intercept == nil {
		intercept = a.InterceptAlt
	}
	coef := a.Coef
	if len(coef) == 0 {
		coef = a.CoefAlt
	}
	if intercept == nil {
		return nil, fmt.Errorf("load model: %w: %s has no intercept", models.ErrModelUnavailable, path)
	}
	if len(coef) == 0 {
		return nil, fmt.Errorf("load model: %w: %s has no coefficients", models.ErrModelUnavailable, path)
	}
	if !finite(*intercept) {
		return nil, fmt.Errorf("load model: %w: intercept is not finite", models.ErrModelUnavailable)
	}
	for i, c := range coef {
		if !finite(c) {
			return nil, fmt.Errorf("load model: %w: coef[%d] is not finite", models.ErrModelUnavailable, i)
		}
	}

	var feature models.FeatureKind
	switch a.Feature {
	case "":
	case string(models.FeatureDate), string(models.FeatureOpen):
		feature = models.FeatureKind(a.Feature)
	default:
		return nil, fmt.Errorf("load model: %w: unknown feature %q", models.ErrModelUnavailable, a.Feature)
	}

	m := NewLinearModel(*intercept, coef, feature)
	m.source = path
	return m, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
