package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"StockSight/internal/domain/models"
	"StockSight/internal/services/features"
	"StockSight/internal/services/model"
	"StockSight/internal/usecase"
	xlogger "StockSight/pkg/logger"
	"StockSight/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type staticSeries struct{ s models.TimeSeries }

func (s staticSeries) Read(context.Context) (models.TimeSeries, error) { return s.s, nil }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func newEcho(t *testing.T, withModel bool, limiter interface{ Allow(string) bool }) *echo.Echo {
	t.Helper()
	series := staticSeries{s: models.TimeSeries{
		Labels: []string{"2024-01-01", "2024-01-03"},
		Values: []float64{100, 110},
	}}
	var pred *usecase.PredictorUseCase
	if withModel {
		pred = usecase.NewPredictorUseCase(model.NewLinearModel(-738776, []float64{1}, models.FeatureDate), features.DateParser{})
	} else {
		pred = usecase.NewPredictorUseCase(nil, features.DateParser{})
	}
	uc := usecase.NewDashboardUseCase(series, pred, nil, metrics.Nop{}, 0, nil)

	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	NewPageHandler(xlogger.Nop(), uc, limiter).RegisterRoutes(e)
	return e
}

func postForm(e *echo.Echo, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersChart(t *testing.T) {
	e := newEcho(t, true, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"2024-01-03"`) || !strings.Contains(body, "[100,110]") {
		t.Fatalf("chart data missing from page")
	}
	if !strings.Contains(body, `name="tanggal_target"`) {
		t.Fatalf("date field missing")
	}
}

func TestPredictFormSuccess(t *testing.T) {
	e := newEcho(t, true, nil)
	// ordinal(2024-01-01) = 738886, so predicted = 110 and delta = 0
	rec := postForm(e, url.Values{"tanggal_target": {"2024-01-01"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Rp 110.00", "01 January 2024", "STABIL ➖", "text-muted", "x = 738886"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPredictFormErrorsStay200(t *testing.T) {
	e := newEcho(t, true, nil)
	rec := postForm(e, url.Values{"tanggal_target": {""}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Terjadi Kesalahan: Tanggal belum dipilih.") {
		t.Fatalf("missing empty-date message")
	}

	e = newEcho(t, false, nil)
	rec = postForm(e, url.Values{"tanggal_target": {"2024-01-01"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Error: Model belum dimuat.") {
		t.Fatalf("missing model message")
	}
	if !strings.Contains(body, "[100,110]") {
		t.Fatalf("chart should still render without a model")
	}
}

func TestPredictFormRateLimitedRendersPage(t *testing.T) {
	e := newEcho(t, true, denyAll{})
	rec := postForm(e, url.Values{"tanggal_target": {"2024-01-01"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Terjadi Kesalahan: terlalu banyak permintaan.") {
		t.Fatalf("missing rate limit message")
	}
	if !strings.Contains(body, "[100,110]") {
		t.Fatalf("chart should still render when rate limited")
	}
	if strings.Contains(body, "Rp 110.00") {
		t.Fatalf("no prediction should run when rate limited")
	}
}
