package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	"StockSight/internal/services/features"
	applogger "StockSight/pkg/logger"

	"github.com/google/uuid"
)

// Chart is the series shown on every page, with its optional moving-average overlay.
type Chart struct {
	Series    models.TimeSeries
	MA        []*float64
	MAPeriod  int
	LastPrice float64
	Err       error // wraps models.ErrDataUnavailable when the series could not be read
}

// Outcome is one prediction attempt together with the chart it was made against.
type Outcome struct {
	Chart  Chart
	Input  string
	Result *models.PredictionResult
	Err    error
}

// DashboardUseCase joins the series, the predictor and the journal.
type DashboardUseCase struct {
	series    domrepo.SeriesSource
	predictor *PredictorUseCase
	journal   domrepo.Journal
	metrics   domrepo.Metrics
	maPeriod  int
	l         *applogger.Logger

	now   func() time.Time
	newID func() string
}

func NewDashboardUseCase(
	series domrepo.SeriesSource,
	predictor *PredictorUseCase,
	journal domrepo.Journal,
	metrics domrepo.Metrics,
	maPeriod int,
	l *applogger.Logger,
) *DashboardUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	return &DashboardUseCase{
		series:    series,
		predictor: predictor,
		journal:   journal,
		metrics:   metrics,
		maPeriod:  maPeriod,
		l:         l,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Kind is the configured feature.
func (uc *DashboardUseCase) Kind() models.FeatureKind { return uc.predictor.Kind() }

// Model describes the loaded regression.
func (uc *DashboardUseCase) Model() models.ModelInfo { return uc.predictor.Info() }

// Ready reports whether predictions can be served.
func (uc *DashboardUseCase) Ready() bool { return uc.predictor.Ready() }

// Chart reads the series. maPeriod < 0 selects the configured overlay period; 0 disables it.
// A read failure is logged and reported in Chart.Err; the chart is then empty.
func (uc *DashboardUseCase) Chart(ctx context.Context, maPeriod int) Chart {
	start := time.Now()
	s, err := uc.series.Read(ctx)
	uc.metrics.RecordLatency("series_read", time.Since(start).Seconds())
	if err != nil {
		uc.metrics.RecordError(string(models.KindDataUnavailable))
		uc.l.Warn("chart data unavailable", applogger.Error(err))
		s = models.EmptySeries()
	}
	uc.metrics.RecordSeriesPoints(s.Len())
	uc.metrics.RecordLastPrice(s.Last())

	if maPeriod < 0 {
		maPeriod = uc.maPeriod
	}
	c := Chart{Series: s, LastPrice: s.Last(), Err: err}
	if ma := features.MovingAverage(s.Values, maPeriod); ma != nil {
		c.MA, c.MAPeriod = ma, maPeriod
	}
	return c
}

// Predict reads the chart, predicts raw against its last price and journals a success.
func (uc *DashboardUseCase) Predict(ctx context.Context, raw string) Outcome {
	raw = strings.TrimSpace(raw)
	out := Outcome{Chart: uc.Chart(ctx, -1), Input: raw}

	start := time.Now()
	res, err := uc.predictor.Predict(ctx, raw, out.Chart.LastPrice)
	uc.metrics.RecordLatency("predict", time.Since(start).Seconds())
	if err != nil {
		kind := models.KindOf(err)
		uc.metrics.RecordError(string(kind))
		if kind == models.KindInvalidInput {
			uc.l.Debug("prediction rejected", applogger.String("input", raw), applogger.Error(err))
		} else {
			uc.l.Error("prediction failed",
				applogger.String("input", raw),
				applogger.String("kind", string(kind)),
				applogger.Error(err),
			)
		}
		out.Err = err
		return out
	}

	out.Result = res
	uc.metrics.RecordPrediction(string(res.Kind), string(res.Trend))
	uc.record(ctx, res)
	return out
}

func (uc *DashboardUseCase) record(ctx context.Context, res *models.PredictionResult) {
	if uc.journal == nil {
		return
	}
	ev := models.PredictionEvent{
		ID:        uc.newID(),
		CreatedAt: uc.now().UTC(),
		Kind:      res.Kind,
		Input:     res.Input,
		Feature:   res.Feature,
		Predicted: res.Predicted,
		Reference: res.Reference,
		Delta:     res.Delta,
		Trend:     res.Trend,
	}
	start := time.Now()
	err := uc.journal.Record(ctx, ev)
	uc.metrics.RecordLatency("journal", time.Since(start).Seconds())
	if err != nil {
		uc.l.Warn("journal record failed", applogger.String("id", ev.ID), applogger.Error(err))
	}
}

// ErrRecentUnsupported is returned when no journal backend can list events.
var ErrRecentUnsupported = errors.New("recent predictions unavailable")

// Recent lists the newest journaled predictions.
func (uc *DashboardUseCase) Recent(ctx context.Context, n int) ([]models.PredictionEvent, error) {
	r, ok := uc.journal.(domrepo.JournalReader)
	if !ok {
		return nil, ErrRecentUnsupported
	}
	if m, ok := uc.journal.(interface{ Readable() bool }); ok && !m.Readable() {
		return nil, ErrRecentUnsupported
	}
	return r.Recent(ctx, n)
}
