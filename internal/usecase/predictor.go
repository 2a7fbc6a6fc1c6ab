package usecase

import (
	"context"
	"fmt"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
)

const reasonModelMissing = "Model belum dimuat."

// PredictorUseCase turns raw user input into a classified prediction.
type PredictorUseCase struct {
	model  domsvc.Regressor
	parser domsvc.FeatureParser
}

// NewPredictorUseCase accepts a nil model; every prediction then fails with ModelUnavailable.
func NewPredictorUseCase(model domsvc.Regressor, parser domsvc.FeatureParser) *PredictorUseCase {
	return &PredictorUseCase{model: model, parser: parser}
}

// Kind is the feature the configured parser expects.
func (uc *PredictorUseCase) Kind() models.FeatureKind { return uc.parser.Kind() }

// Ready reports whether a model is loaded.
func (uc *PredictorUseCase) Ready() bool { return uc.model != nil }

// Info describes the loaded model.
func (uc *PredictorUseCase) Info() models.ModelInfo {
	info := models.ModelInfo{Ready: uc.model != nil, Feature: uc.parser.Kind()}
	if uc.model == nil {
		return info
	}
	info.Intercept = uc.model.Intercept()
	info.Slope = uc.model.Slope()
	if s, ok := uc.model.(interface{ Source() string }); ok {
		info.Source = s.Source()
	}
	return info
}

// Predict validates raw, evaluates the model and compares against reference.
// The model check comes before input validation; invalid input never reaches the model.
func (uc *PredictorUseCase) Predict(ctx context.Context, raw string, reference float64) (*models.PredictionResult, error) {
	if uc.model == nil {
		return nil, models.NewPredictionError(models.KindModelUnavailable, reasonModelMissing, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, models.NewPredictionError(models.KindPredictionFailure, err.Error(), err)
	}

	feat, err := uc.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	predicted, err := uc.evaluate(feat.Value)
	if err != nil {
		return nil, models.NewPredictionError(models.KindPredictionFailure, err.Error(), err)
	}

	delta := predicted - reference
	return &models.PredictionResult{
		Input:      raw,
		Kind:       uc.parser.Kind(),
		Feature:    feat.Value,
		TargetDate: feat.Date,
		Predicted:  predicted,
		Reference:  reference,
		Delta:      delta,
		Trend:      models.ClassifyTrend(delta),
		Intercept:  uc.model.Intercept(),
		Slope:      uc.model.Slope(),
	}, nil
}

func (uc *PredictorUseCase) evaluate(x float64) (y float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return uc.model.Predict(x)
}
