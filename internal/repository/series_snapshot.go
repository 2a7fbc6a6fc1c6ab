package repository

import (
	"context"
	"sync/atomic"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	svcmetrics "StockSight/internal/service/metrics"
	applogger "StockSight/pkg/logger"
)

type snapshot struct {
	series models.TimeSeries
	err    error
}

// SnapshotSeries serves a series loaded once, swapped wholesale by Refresh.
type SnapshotSeries struct {
	src domrepo.SeriesSource
	cur atomic.Pointer[snapshot]
	l   *applogger.Logger
}

// NewSnapshotSeries loads src once. A failed load is kept and served until a refresh succeeds.
func NewSnapshotSeries(ctx context.Context, src domrepo.SeriesSource, l *applogger.Logger) *SnapshotSeries {
	if l == nil {
		l = applogger.Nop()
	}
	s := &SnapshotSeries{src: src, l: l}
	s.Refresh(ctx)
	return s
}

// Read returns the current snapshot. The slices are shared and must not be modified.
func (s *SnapshotSeries) Read(context.Context) (models.TimeSeries, error) {
	cur := s.cur.Load()
	return cur.series, cur.err
}

// Refresh re-reads the source. A failed refresh keeps a previously good snapshot.
func (s *SnapshotSeries) Refresh(ctx context.Context) {
	series, err := s.src.Read(ctx)
	prev := s.cur.Load()
	if err != nil && prev != nil && prev.err == nil {
		svcmetrics.SeriesRefreshes.WithLabelValues("error").Inc()
		s.l.Warn("series refresh failed, keeping previous snapshot",
			applogger.Int("points", prev.series.Len()),
			applogger.Error(err),
		)
		return
	}
	s.cur.Store(&snapshot{series: series, err: err})
	if err != nil {
		svcmetrics.SeriesRefreshes.WithLabelValues("error").Inc()
		return
	}
	svcmetrics.SeriesRefreshes.WithLabelValues("ok").Inc()
	s.l.Info("series snapshot loaded", applogger.Int("points", series.Len()))
}

var _ domrepo.SeriesSource = (*SnapshotSeries)(nil)
