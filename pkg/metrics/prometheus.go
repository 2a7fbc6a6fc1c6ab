package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    prometheus.Gauge
	seriesPoints prometheus.Gauge
	latency      *prometheus.HistogramVec
}

// New creates a recorder on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder whose collectors are registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksight_predictions_total",
				Help: "Successful predictions by feature and trend",
			},
			[]string{"feature", "trend"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksight_prediction_errors_total",
				Help: "Prediction and data errors by kind",
			},
			[]string{"kind"},
		),
		lastPrice: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "stocksight_last_price",
				Help: "Last close price of the chart series",
			},
		),
		seriesPoints: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "stocksight_series_points",
				Help: "Number of points in the chart series",
			},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
	}
}

// RecordPrediction counts a successful prediction.
func (r *Recorder) RecordPrediction(feature, trend string) {
	r.predictions.WithLabelValues(feature, trend).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(price float64) {
	r.lastPrice.Set(price)
}

func (r *Recorder) RecordSeriesPoints(n int) {
	r.seriesPoints.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordPrediction(string, string) {}
func (Nop) RecordError(string)              {}
func (Nop) RecordLastPrice(float64)         {}
func (Nop) RecordSeriesPoints(int)          {}
func (Nop) RecordLatency(string, float64)   {}
