package api

import (
	"errors"
	"net/http"

	"StockSight/internal/domain/models"
	"StockSight/internal/usecase"
	xhttp "StockSight/pkg/http"
	xutil "StockSight/pkg/util"
)

// PredictionPayload is the JSON shape of a successful prediction.
type PredictionPayload struct {
	Input         string  `json:"input"`
	FeatureKind   string  `json:"feature_kind"`
	Feature       float64 `json:"feature"`
	TargetDate    string  `json:"target_date,omitempty"`
	Predicted     float64 `json:"predicted"`
	PredictedText string  `json:"predicted_text"`
	Reference     float64 `json:"reference"`
	Delta         float64 `json:"delta"`
	Trend         string  `json:"trend"`
	Intercept     float64 `json:"intercept"`
	Slope         float64 `json:"slope"`
	SeriesPoints  int     `json:"series_points"`
	DataAvailable bool    `json:"data_available"`
}

// SeriesPayload is the chart series with its overlay.
type SeriesPayload struct {
	Labels        []string   `json:"labels"`
	Values        []float64  `json:"values"`
	MA            []*float64 `json:"ma,omitempty"`
	MAPeriod      int        `json:"ma_period,omitempty"`
	LastPrice     float64    `json:"last_price"`
	DataAvailable bool       `json:"data_available"`
}

// ModelPayload describes the loaded model.
type ModelPayload struct {
	Ready     bool    `json:"ready"`
	Feature   string  `json:"feature"`
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Source    string  `json:"source,omitempty"`
}

func predictionPayload(out usecase.Outcome) *PredictionPayload {
	r := out.Result
	p := &PredictionPayload{
		Input:         r.Input,
		FeatureKind:   string(r.Kind),
		Feature:       r.Feature,
		Predicted:     r.Predicted,
		PredictedText: "Rp " + xutil.FormatThousands(r.Predicted),
		Reference:     r.Reference,
		Delta:         r.Delta,
		Trend:         string(r.Trend),
		Intercept:     r.Intercept,
		Slope:         r.Slope,
		SeriesPoints:  out.Chart.Series.Len(),
		DataAvailable: out.Chart.Err == nil,
	}
	if !r.TargetDate.IsZero() {
		p.TargetDate = r.TargetDate.Format(xutil.DateLayout)
	}
	return p
}

func seriesPayload(c usecase.Chart) *SeriesPayload {
	return &SeriesPayload{
		Labels:        c.Series.Labels,
		Values:        c.Series.Values,
		MA:            c.MA,
		MAPeriod:      c.MAPeriod,
		LastPrice:     c.LastPrice,
		DataAvailable: c.Err == nil,
	}
}

func modelPayload(info models.ModelInfo) *ModelPayload {
	return &ModelPayload{
		Ready:     info.Ready,
		Feature:   string(info.Feature),
		Intercept: info.Intercept,
		Slope:     info.Slope,
		Source:    info.Source,
	}
}

var kindStatus = map[models.ErrorKind]struct {
	status int
	code   string
}{
	models.KindInvalidInput:      {http.StatusBadRequest, "ERR_INVALID_INPUT"},
	models.KindModelUnavailable:  {http.StatusServiceUnavailable, "ERR_MODEL_UNAVAILABLE"},
	models.KindDataUnavailable:   {http.StatusServiceUnavailable, "ERR_DATA_UNAVAILABLE"},
	models.KindPredictionFailure: {http.StatusInternalServerError, "ERR_PREDICTION_FAILURE"},
}

// predictionAppError maps a domain error onto the envelope's inner status.
func predictionAppError(err error) *xhttp.AppError {
	if errors.Is(err, usecase.ErrRecentUnsupported) {
		return xhttp.NewAppError(http.StatusNotImplemented, "ERR_NOT_SUPPORTED", err.Error()).WithError(err)
	}
	kind := models.KindOf(err)
	k := kindStatus[kind]
	return xhttp.NewAppError(k.status, k.code, models.ReasonOf(err)).
		WithParam("kind", string(kind)).
		WithError(err)
}
