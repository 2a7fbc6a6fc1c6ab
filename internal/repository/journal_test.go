package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"StockSight/internal/domain/models"
	"StockSight/pkg/cache"
)

type memJournal struct {
	events []models.PredictionEvent
	err    error
	closed bool
}

func (m *memJournal) Record(_ context.Context, ev models.PredictionEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memJournal) Close() error { m.closed = true; return nil }

type memReader struct{ memJournal }

func (m *memReader) Recent(_ context.Context, n int) ([]models.PredictionEvent, error) {
	out := []models.PredictionEvent{}
	for i := len(m.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func event(id string, at time.Time) models.PredictionEvent {
	return models.PredictionEvent{
		ID: id, CreatedAt: at, Kind: models.FeatureDate, Input: "2024-06-01",
		Feature: 739038, Predicted: 4900, Reference: 4850, Delta: 50, Trend: models.TrendUp,
	}
}

func TestMultiJournalFanOut(t *testing.T) {
	broken := &memJournal{err: errors.New("down")}
	ok := &memJournal{}
	reader := &memReader{}
	m := NewMultiJournal(
		NamedJournal{Name: "broken", Journal: broken},
		NamedJournal{Name: "ok", Journal: ok},
		NamedJournal{Name: "reader", Journal: reader},
	)

	err := m.Record(context.Background(), event("e1", time.Now()))
	if err == nil {
		t.Fatalf("expected joined error from broken backend")
	}
	if len(ok.events) != 1 || len(reader.events) != 1 {
		t.Fatalf("healthy backends should still record")
	}
	if !m.Readable() {
		t.Fatalf("reader backend should make the journal readable")
	}
	got, err := m.Recent(context.Background(), 5)
	if err != nil || len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("unexpected recent %v %v", got, err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !broken.closed || !ok.closed || !reader.closed {
		t.Fatalf("all backends should be closed")
	}
}

func TestMultiJournalNotReadable(t *testing.T) {
	m := NewMultiJournal(NamedJournal{Name: "noop", Journal: NoopJournal{}})
	if _, err := m.Recent(context.Background(), 1); !errors.Is(err, ErrJournalNotReadable) {
		t.Fatalf("expected not readable, got %v", err)
	}
}

func TestSQLiteJournal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "predictions.db")
	j, err := OpenSQLJournal(ctx, DialectSQLite, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := j.Record(ctx, event(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected order %+v", got)
	}
	if !got[0].CreatedAt.Equal(base.Add(2*time.Minute)) || got[0].Trend != models.TrendUp || got[0].Delta != 50 {
		t.Fatalf("fields not round-tripped: %+v", got[0])
	}

	// reopening must not fail on the existing schema
	j2, err := OpenSQLJournal(ctx, DialectSQLite, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	j2.Close()
}

func TestPostgresBind(t *testing.T) {
	got := DialectPostgres.bind("INSERT INTO t (a, b) VALUES (?, ?)")
	if got != "INSERT INTO t (a, b) VALUES ($1, $2)" {
		t.Fatalf("unexpected bind %q", got)
	}
	if DialectMySQL.bind("?") != "?" {
		t.Fatalf("mysql should keep ? placeholders")
	}
}

type memList struct {
	items  [][]byte
	closed bool
}

func (m *memList) PushCapped(_ context.Context, _ string, v interface{}, max int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.items = append([][]byte{b}, m.items...)
	if len(m.items) > max {
		m.items = m.items[:max]
	}
	return nil
}

func (m *memList) Range(_ context.Context, _ string, n int) ([][]byte, error) {
	if len(m.items) == 0 {
		return nil, cache.ErrCacheMiss
	}
	if n > len(m.items) {
		n = len(m.items)
	}
	return m.items[:n], nil
}

func (m *memList) Close() error { m.closed = true; return nil }

func TestRedisJournalCapsAndOrders(t *testing.T) {
	ctx := context.Background()
	store := &memList{}
	j := NewRedisJournal(store, 2)

	if got, err := j.Recent(ctx, 5); err != nil || len(got) != 0 {
		t.Fatalf("empty journal: %v %v", got, err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := j.Record(ctx, event(id, time.Now())); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected events %+v", got)
	}
}

type capturePublisher struct {
	topic string
	key   []byte
	value interface{}
}

func (c *capturePublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	c.topic, c.key, c.value = topic, key, value
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func TestKafkaJournalKeysByID(t *testing.T) {
	p := &capturePublisher{}
	j := NewKafkaJournal(p, "stocksight.predictions")
	if err := j.Record(context.Background(), event("evt-1", time.Now())); err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.topic != "stocksight.predictions" || string(p.key) != "evt-1" {
		t.Fatalf("unexpected publish %s/%s", p.topic, p.key)
	}
	if ev, ok := p.value.(models.PredictionEvent); !ok || ev.ID != "evt-1" {
		t.Fatalf("unexpected payload %#v", p.value)
	}
}
