package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordPrediction("date", "up")
	r.RecordPrediction("date", "up")
	r.RecordError("InvalidInput")
	r.RecordLastPrice(4850)
	r.RecordSeriesPoints(3)
	r.RecordLatency("predict", 0.002)

	if got := testutil.ToFloat64(r.predictions.WithLabelValues("date", "up")); got != 2 {
		t.Fatalf("predictions = %v", got)
	}
	if got := testutil.ToFloat64(r.errorsTotal.WithLabelValues("InvalidInput")); got != 1 {
		t.Fatalf("errors = %v", got)
	}
	if got := testutil.ToFloat64(r.lastPrice); got != 4850 {
		t.Fatalf("last price = %v", got)
	}
	if got := testutil.ToFloat64(r.seriesPoints); got != 3 {
		t.Fatalf("series points = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "stocksight_operation_duration_seconds"); err != nil || n != 1 {
		t.Fatalf("latency series = %d, %v", n, err)
	}
}
