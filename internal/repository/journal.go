package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	svcmetrics "StockSight/internal/service/metrics"
)

// NoopJournal drops every event.
type NoopJournal struct{}

func (NoopJournal) Record(context.Context, models.PredictionEvent) error { return nil }
func (NoopJournal) Close() error                                         { return nil }

// NamedJournal pairs a backend with the name used in logs and metrics.
type NamedJournal struct {
	Name    string
	Journal domrepo.Journal
}

// MultiJournal fans each event out to every backend in order.
type MultiJournal struct {
	backends []NamedJournal
	reader   domrepo.JournalReader
}

// NewMultiJournal wraps backends. The first backend that can list events serves Recent.
func NewMultiJournal(backends ...NamedJournal) *MultiJournal {
	m := &MultiJournal{backends: backends}
	for _, b := range backends {
		if r, ok := b.Journal.(domrepo.JournalReader); ok {
			m.reader = r
			break
		}
	}
	return m
}

// Backends returns the configured backend names.
func (m *MultiJournal) Backends() []string {
	out := make([]string, len(m.backends))
	for i, b := range m.backends {
		out[i] = b.Name
	}
	return out
}

// Record writes ev to all backends. One failing backend does not stop the others.
func (m *MultiJournal) Record(ctx context.Context, ev models.PredictionEvent) error {
	var errs []error
	for _, b := range m.backends {
		start := time.Now()
		err := b.Journal.Record(ctx, ev)
		svcmetrics.JournalLatency.WithLabelValues(b.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			svcmetrics.JournalErrors.WithLabelValues(b.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Readable reports whether some backend can serve Recent.
func (m *MultiJournal) Readable() bool { return m.reader != nil }

// Recent lists up to n newest events from the reading backend.
func (m *MultiJournal) Recent(ctx context.Context, n int) ([]models.PredictionEvent, error) {
	if m.reader == nil {
		return nil, ErrJournalNotReadable
	}
	return m.reader.Recent(ctx, n)
}

// Close closes every backend and joins the errors.
func (m *MultiJournal) Close() error {
	var errs []error
	for _, b := range m.backends {
		if err := b.Journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ErrJournalNotReadable is returned by Recent when no backend supports reads.
var ErrJournalNotReadable = errors.New("no journal backend supports reads")

var (
	_ domrepo.Journal       = NoopJournal{}
	_ domrepo.Journal       = (*MultiJournal)(nil)
	_ domrepo.JournalReader = (*MultiJournal)(nil)
)
