package repository

import (
	"context"
	"database/sql"
	"fmt"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	pkgch "StockSight/pkg/clickhouse"
)

// CHJournal appends prediction events to a ClickHouse MergeTree table.
type CHJournal struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
}

// NewCHJournal creates the table if needed.
func NewCHJournal(ctx context.Context, ch *pkgch.Client) (*CHJournal, error) {
	table := fmt.Sprintf("%s.predictions", ch.Database())
	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id           String,
			created_at   DateTime64(3, 'UTC'),
			feature_kind LowCardinality(String),
			input        String,
			feature      Float64,
			predicted    Float64,
			reference    Float64,
			delta        Float64,
			trend        LowCardinality(String)
		) ENGINE = MergeTree
		ORDER BY (created_at, id)`, table),
	}
	if err := ch.InitSchema(ctx, ddl); err != nil {
		return nil, err
	}
	return &CHJournal{ch: ch, db: ch.DB(), table: table}, nil
}

func (j *CHJournal) Record(ctx context.Context, ev models.PredictionEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (id, created_at, feature_kind, input, feature, predicted, reference, delta, trend) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", j.table)
	_, err := j.db.ExecContext(ctx, q,
		ev.ID,
		ev.CreatedAt.UTC(),
		string(ev.Kind),
		ev.Input,
		ev.Feature,
		ev.Predicted,
		ev.Reference,
		ev.Delta,
		string(ev.Trend),
	)
	if err != nil {
		return fmt.Errorf("clickhouse insert prediction: %w", err)
	}
	return nil
}

func (j *CHJournal) Recent(ctx context.Context, n int) ([]models.PredictionEvent, error) {
	q := fmt.Sprintf(`
		SELECT id, created_at, feature_kind, input, feature, predicted, reference, delta, trend
		FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, j.table)
	rows, err := j.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("clickhouse recent predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionEvent, 0, n)
	for rows.Next() {
		var (
			ev        models.PredictionEvent
			kind, trd string
		)
		if err := rows.Scan(&ev.ID, &ev.CreatedAt, &kind, &ev.Input, &ev.Feature, &ev.Predicted, &ev.Reference, &ev.Delta, &trd); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		ev.Kind = models.FeatureKind(kind)
		ev.Trend = models.Trend(trd)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (j *CHJournal) Close() error {
	return j.ch.Close()
}

var (
	_ domrepo.Journal       = (*CHJournal)(nil)
	_ domrepo.JournalReader = (*CHJournal)(nil)
)
