package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	JournalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stocksight",
			Subsystem: "journal",
			Name:      "write_seconds",
			Help:      "Latency of prediction journal writes by backend",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	JournalErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stocksight",
			Subsystem: "journal",
			Name:      "errors_total",
			Help:      "Failed prediction journal writes by backend",
		},
		[]string{"backend"},
	)

	SeriesRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stocksight",
			Subsystem: "series",
			Name:      "refresh_total",
			Help:      "Startup snapshot refreshes by result",
		},
		[]string{"result"},
	)
)

// Register adds the collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(JournalLatency, JournalErrors, SeriesRefreshes)
	})
}
