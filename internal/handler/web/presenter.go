package web

import (
	"errors"
	"strconv"

	"StockSight/internal/domain/models"
	"StockSight/internal/usecase"
	xutil "StockSight/pkg/util"
)

// trendStyle is the label and Bootstrap text class for each trend.
var trendStyle = map[models.Trend][2]string{
	models.TrendUp:   {"NAIK (Bullish) 🚀", "text-success"},
	models.TrendDown: {"TURUN (Bearish) 🔻", "text-danger"},
	models.TrendFlat: {"STABIL ➖", "text-muted"},
}

// PageData is everything index.html reads.
type PageData struct {
	Labels   []string
	Values   []float64
	MA       []*float64
	MAPeriod int

	Feature    string
	FieldName  string
	InputType  string
	FieldLabel string
	ModelReady bool
	DataError  bool

	PredictionText string
	TanggalHasil   string
	InputVal       string
	ShowCalc       bool
	NilaiA         float64
	NilaiB         float64
	TrendStatus    string
	TrendColor     string
	Selisih        float64
	FeatureVal     string
	LastPrice      float64
}

// TrendPresentation returns the label and colour class for t.
func TrendPresentation(t models.Trend) (string, string) {
	s, ok := trendStyle[t]
	if !ok {
		return "Error", "text-muted"
	}
	return s[0], s[1]
}

// FormatRupiah renders v as "Rp 1,234.56".
func FormatRupiah(v float64) string {
	return "Rp " + xutil.FormatThousands(v)
}

// ErrorText is the inline message for a failed prediction.
func ErrorText(err error) string {
	if errors.Is(err, models.ErrModelUnavailable) {
		return "Error: " + models.ReasonOf(err)
	}
	return "Terjadi Kesalahan: " + models.ReasonOf(err)
}

func basePage(kind models.FeatureKind, ready bool, c usecase.Chart) PageData {
	p := PageData{
		Labels:     c.Series.Labels,
		Values:     c.Series.Values,
		MA:         c.MA,
		MAPeriod:   c.MAPeriod,
		Feature:    string(kind),
		ModelReady: ready,
		DataError:  c.Err != nil,
		LastPrice:  c.LastPrice,
	}
	if p.Labels == nil {
		p.Labels = []string{}
	}
	if p.Values == nil {
		p.Values = []float64{}
	}
	switch kind {
	case models.FeatureOpen:
		p.FieldName, p.InputType, p.FieldLabel = "harga_open", "number", "Harga Open (Rp)"
	default:
		p.FieldName, p.InputType, p.FieldLabel = "tanggal_target", "date", "Tanggal Target"
	}
	return p
}

// ChartPage is the view before any prediction.
func ChartPage(kind models.FeatureKind, ready bool, c usecase.Chart) PageData {
	return basePage(kind, ready, c)
}

// OutcomePage maps a prediction outcome onto the page.
func OutcomePage(kind models.FeatureKind, ready bool, out usecase.Outcome) PageData {
	p := basePage(kind, ready, out.Chart)
	p.InputVal = out.Input

	if out.Err != nil {
		p.PredictionText = ErrorText(out.Err)
		p.TrendStatus, p.TrendColor = "Error", "text-muted"
		return p
	}

	r := out.Result
	p.PredictionText = FormatRupiah(r.Predicted)
	if !r.TargetDate.IsZero() {
		p.TanggalHasil = xutil.FormatLongDate(r.TargetDate)
	}
	p.ShowCalc = true
	p.NilaiA = r.Intercept
	p.NilaiB = r.Slope
	p.TrendStatus, p.TrendColor = TrendPresentation(r.Trend)
	p.Selisih = r.Delta
	p.LastPrice = r.Reference
	if r.Kind == models.FeatureDate {
		p.FeatureVal = strconv.FormatInt(int64(r.Feature), 10)
	} else {
		p.FeatureVal = strconv.FormatFloat(r.Feature, 'f', -1, 64)
	}
	return p
}
