package repository

import (
	"context"

	"StockSight/internal/domain/models"
)

// SeriesSource yields the chart series. On failure it returns an empty series together
// with an error wrapping models.ErrDataUnavailable; callers degrade rather than fail.
type SeriesSource interface {
	Read(ctx context.Context) (models.TimeSeries, error)
}

// Journal records successful predictions. Recording is best effort.
type Journal interface {
	Record(ctx context.Context, ev models.PredictionEvent) error
	Close() error
}

// JournalReader is implemented by journal backends that can list what they stored, newest first.
type JournalReader interface {
	Recent(ctx context.Context, n int) ([]models.PredictionEvent, error)
}

type Metrics interface {
	RecordPrediction(feature, trend string)
	RecordError(kind string)
	RecordLastPrice(price float64)
	RecordSeriesPoints(n int)
	RecordLatency(op string, seconds float64)
}
