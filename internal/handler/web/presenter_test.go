package web

import (
	"errors"
	"testing"
	"time"

	"StockSight/internal/domain/models"
	"StockSight/internal/usecase"
)

func TestTrendPresentation(t *testing.T) {
	cases := map[models.Trend][2]string{
		models.TrendUp:   {"NAIK (Bullish) 🚀", "text-success"},
		models.TrendDown: {"TURUN (Bearish) 🔻", "text-danger"},
		models.TrendFlat: {"STABIL ➖", "text-muted"},
		"sideways":       {"Error", "text-muted"},
	}
	for trend, want := range cases {
		s, c := TrendPresentation(trend)
		if s != want[0] || c != want[1] {
			t.Errorf("%s: got %q/%q", trend, s, c)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := FormatRupiah(1234.5); got != "Rp 1,234.50" {
		t.Fatalf("got %q", got)
	}
	if got := FormatRupiah(-1234567.891); got != "Rp -1,234,567.89" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorText(t *testing.T) {
	missing := models.NewPredictionError(models.KindModelUnavailable, "Model belum dimuat.", nil)
	if got := ErrorText(missing); got != "Error: Model belum dimuat." {
		t.Fatalf("got %q", got)
	}
	empty := models.NewPredictionError(models.KindInvalidInput, "Tanggal belum dipilih.", nil)
	if got := ErrorText(empty); got != "Terjadi Kesalahan: Tanggal belum dipilih." {
		t.Fatalf("got %q", got)
	}
	if got := ErrorText(errors.New("boom")); got != "Terjadi Kesalahan: boom" {
		t.Fatalf("got %q", got)
	}
}

func TestOutcomePageSuccess(t *testing.T) {
	out := usecase.Outcome{
		Chart: usecase.Chart{Series: models.TimeSeries{Labels: []string{"2024-01-01"}, Values: []float64{4800}}, LastPrice: 4800},
		Input: "2024-06-01",
		Result: &models.PredictionResult{
			Kind: models.FeatureDate, Feature: 739038, TargetDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Predicted: 4900.256, Reference: 4800, Delta: 100.256, Trend: models.TrendUp, Intercept: -1, Slope: 0.5,
		},
	}
	p := OutcomePage(models.FeatureDate, true, out)
	if p.PredictionText != "Rp 4,900.26" || p.TanggalHasil != "01 June 2024" {
		t.Fatalf("unexpected text %q / %q", p.PredictionText, p.TanggalHasil)
	}
	if !p.ShowCalc || p.TrendColor != "text-success" || p.FeatureVal != "739038" || p.FieldName != "tanggal_target" {
		t.Fatalf("unexpected page %+v", p)
	}
}

func TestOutcomePageError(t *testing.T) {
	out := usecase.Outcome{
		Chart: usecase.Chart{Series: models.EmptySeries()},
		Input: "",
		Err:   models.NewPredictionError(models.KindInvalidInput, "Harga open belum diisi.", nil),
	}
	p := OutcomePage(models.FeatureOpen, true, out)
	if p.ShowCalc || p.TrendStatus != "Error" || p.TrendColor != "text-muted" || p.Selisih != 0 {
		t.Fatalf("unexpected error page %+v", p)
	}
	if p.PredictionText != "Terjadi Kesalahan: Harga open belum diisi." || p.FieldName != "harga_open" {
		t.Fatalf("unexpected error page %+v", p)
	}
}
