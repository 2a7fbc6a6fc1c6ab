package features

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
	xutil "StockSight/pkg/util"
)

// DateParser reads YYYY-MM-DD input and yields its day ordinal.
type DateParser struct{}

func (DateParser) Kind() models.FeatureKind { return models.FeatureDate }

func (DateParser) Parse(raw string) (domsvc.Feature, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domsvc.Feature{}, models.NewPredictionError(models.KindInvalidInput, "Tanggal belum dipilih.", nil)
	}
	d, err := xutil.ParseDate(raw)
	if err != nil {
		return domsvc.Feature{}, models.NewPredictionError(models.KindInvalidInput,
			fmt.Sprintf("Format tanggal '%s' tidak sesuai YYYY-MM-DD.", raw), err)
	}
	return domsvc.Feature{Value: float64(xutil.DateOrdinal(d)), Date: d}, nil
}

// OpenPriceParser reads a decimal opening price. Hex literals and digit separators are refused.
type OpenPriceParser struct{}

func (OpenPriceParser) Kind() models.FeatureKind { return models.FeatureOpen }

func (OpenPriceParser) Parse(raw string) (domsvc.Feature, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domsvc.Feature{}, models.NewPredictionError(models.KindInvalidInput, "Harga open belum diisi.", nil)
	}
	if strings.ContainsAny(raw, "xX_") {
		return domsvc.Feature{}, models.NewPredictionError(models.KindInvalidInput,
			fmt.Sprintf("Harga open '%s' bukan angka yang valid.", raw), nil)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domsvc.Feature{}, models.NewPredictionError(models.KindInvalidInput,
			fmt.Sprintf("Harga open '%s' bukan angka yang valid.", raw), err)
	}
	return domsvc.Feature{Value: v}, nil
}

// NewParser returns the parser for kind.
func NewParser(kind models.FeatureKind) (domsvc.FeatureParser, error) {
	switch kind {
	case models.FeatureDate:
		return DateParser{}, nil
	case models.FeatureOpen:
		return OpenPriceParser{}, nil
	default:
		return nil, fmt.Errorf("unknown feature kind %q", kind)
	}
}

var (
	_ domsvc.FeatureParser = DateParser{}
	_ domsvc.FeatureParser = OpenPriceParser{}
)
