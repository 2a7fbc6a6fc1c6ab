package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	applogger "StockSight/pkg/logger"
)

// CSVSeries reads the chart series from a CSV file on every call.
type CSVSeries struct {
	path     string
	labelCol string
	valueCol string
	l        *applogger.Logger
}

// NewCSVSeries builds a reader for path using the named label and value columns.
func NewCSVSeries(path, labelCol, valueCol string, l *applogger.Logger) *CSVSeries {
	if l == nil {
		l = applogger.Nop()
	}
	return &CSVSeries{path: path, labelCol: labelCol, valueCol: valueCol, l: l}
}

// Path returns the resolved file path.
func (s *CSVSeries) Path() string { return s.path }

// Read returns the series in file order. Rows whose value is empty, non-numeric or
// non-finite are dropped together with their label. Any failure yields an empty series
// and an error wrapping models.ErrDataUnavailable.
func (s *CSVSeries) Read(ctx context.Context) (models.TimeSeries, error) {
	start := time.Now()
	series, dropped, err := s.read(ctx)
	if err != nil {
		s.l.Warn("series read failed",
			applogger.String("path", s.path),
			applogger.Error(err),
		)
		return models.EmptySeries(), fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	s.l.Debug("series read",
		applogger.String("path", s.path),
		applogger.Int("points", series.Len()),
		applogger.Int("dropped", dropped),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return series, nil
}

func (s *CSVSeries) read(ctx context.Context) (models.TimeSeries, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return models.TimeSeries{}, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	r.TrimLeadingSpace = true
	// a stray quote inside a price must only cost that row
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.TimeSeries{}, 0, fmt.Errorf("empty file")
		}
		return models.TimeSeries{}, 0, fmt.Errorf("read header: %w", err)
	}
	li, vi := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case s.labelCol:
			li = i
		case s.valueCol:
			vi = i
		}
	}
	if li < 0 || vi < 0 {
		return models.TimeSeries{}, 0, fmt.Errorf("columns %q and %q required", s.labelCol, s.valueCol)
	}
	need := li
	if vi > need {
		need = vi
	}

	out := models.EmptySeries()
	dropped := 0
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return models.TimeSeries{}, 0, err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.TimeSeries{}, 0, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= need {
			dropped++
			continue
		}
		v, ok := parseValue(rec[vi])
		if !ok {
			dropped++
			continue
		}
		out.Append(strings.TrimSpace(rec[li]), v)
	}
	return out, dropped, nil
}

func parseValue(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var _ domrepo.SeriesSource = (*CSVSeries)(nil)
