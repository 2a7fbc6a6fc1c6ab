package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockSight/internal/domain/models"
	"StockSight/internal/services/features"
	"StockSight/internal/services/model"
	"StockSight/pkg/metrics"
)

type fixedSeries struct {
	s     models.TimeSeries
	err   error
	reads int
}

func (f *fixedSeries) Read(context.Context) (models.TimeSeries, error) {
	f.reads++
	return f.s, f.err
}

type recordingJournal struct {
	events []models.PredictionEvent
	err    error
}

func (r *recordingJournal) Record(_ context.Context, ev models.PredictionEvent) error {
	r.events = append(r.events, ev)
	return r.err
}
func (r *recordingJournal) Close() error { return nil }

func newDashboard(src *fixedSeries, j *recordingJournal, m *model.LinearModel) *DashboardUseCase {
	var pred *PredictorUseCase
	if m == nil {
		pred = NewPredictorUseCase(nil, features.OpenPriceParser{})
	} else {
		pred = NewPredictorUseCase(m, features.OpenPriceParser{})
	}
	uc := NewDashboardUseCase(src, pred, j, metrics.Nop{}, 3, nil)
	uc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	uc.newID = func() string { return "fixed-id" }
	return uc
}

func series(vals ...float64) models.TimeSeries {
	s := models.EmptySeries()
	for i, v := range vals {
		s.Append(time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), v)
	}
	return s
}

func TestDashboardPredictJournalsSuccess(t *testing.T) {
	src := &fixedSeries{s: series(100, 105, 110)}
	j := &recordingJournal{}
	uc := newDashboard(src, j, model.NewLinearModel(10, []float64{1}, models.FeatureOpen))

	out := uc.Predict(context.Background(), " 95 ")
	if out.Err != nil {
		t.Fatalf("predict: %v", out.Err)
	}
	if out.Result.Predicted != 105 || out.Result.Reference != 110 || out.Result.Trend != models.TrendDown {
		t.Fatalf("unexpected result %+v", out.Result)
	}
	if out.Input != "95" {
		t.Fatalf("input should be trimmed, got %q", out.Input)
	}
	if len(out.Chart.MA) != 3 || out.Chart.MA[2] == nil || *out.Chart.MA[2] != 105 {
		t.Fatalf("unexpected overlay %v", out.Chart.MA)
	}
	if len(j.events) != 1 || j.events[0].ID != "fixed-id" || j.events[0].Delta != -5 {
		t.Fatalf("unexpected journal %+v", j.events)
	}
}

func TestDashboardJournalFailureIsNotSurfaced(t *testing.T) {
	src := &fixedSeries{s: series(100)}
	j := &recordingJournal{err: errors.New("db down")}
	uc := newDashboard(src, j, model.NewLinearModel(0, []float64{1}, models.FeatureOpen))
	if out := uc.Predict(context.Background(), "100"); out.Err != nil || out.Result.Trend != models.TrendFlat {
		t.Fatalf("journal failure leaked: %+v", out)
	}
}

func TestDashboardNilModelKeepsChart(t *testing.T) {
	src := &fixedSeries{s: series(100, 110)}
	j := &recordingJournal{}
	uc := newDashboard(src, j, nil)

	out := uc.Predict(context.Background(), "100")
	if !errors.Is(out.Err, models.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", out.Err)
	}
	if out.Chart.Series.Len() != 2 || out.Chart.LastPrice != 110 {
		t.Fatalf("chart should still be populated: %+v", out.Chart)
	}
	if len(j.events) != 0 {
		t.Fatalf("failures must not be journaled")
	}
}

func TestDashboardMissingDataUsesZeroReference(t *testing.T) {
	src := &fixedSeries{s: models.EmptySeries(), err: models.ErrDataUnavailable}
	uc := newDashboard(src, &recordingJournal{}, model.NewLinearModel(0, []float64{1}, models.FeatureOpen))

	out := uc.Predict(context.Background(), "5")
	if out.Err != nil {
		t.Fatalf("missing data should not fail prediction: %v", out.Err)
	}
	if out.Result.Reference != 0 || out.Result.Delta != 5 || out.Result.Trend != models.TrendUp {
		t.Fatalf("unexpected result %+v", out.Result)
	}
	if !errors.Is(out.Chart.Err, models.ErrDataUnavailable) || out.Chart.MA != nil {
		t.Fatalf("unexpected chart %+v", out.Chart)
	}
}

func TestDashboardChartOverlayPeriod(t *testing.T) {
	uc := newDashboard(&fixedSeries{s: series(1, 2, 3, 4)}, &recordingJournal{}, nil)
	if c := uc.Chart(context.Background(), 0); c.MA != nil || c.MAPeriod != 0 {
		t.Fatalf("period 0 should disable overlay")
	}
	if c := uc.Chart(context.Background(), 2); c.MAPeriod != 2 || c.MA[1] == nil || *c.MA[1] != 1.5 {
		t.Fatalf("unexpected overlay %+v", c)
	}
}

func TestDashboardRecentUnsupported(t *testing.T) {
	uc := newDashboard(&fixedSeries{s: series(1)}, &recordingJournal{}, nil)
	if _, err := uc.Recent(context.Background(), 5); !errors.Is(err, ErrRecentUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
