package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
)

// Dialect selects driver name, placeholders and DDL for a SQL journal.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

func (d Dialect) driver() string { return string(d) }

// bind rewrites ? placeholders to $n for Postgres.
func (d Dialect) bind(q string) string {
	if d != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() []string {
	text, num, inlineIndex := "TEXT", "DOUBLE PRECISION", ""
	switch d {
	case DialectSQLite:
		num = "REAL"
	case DialectMySQL:
		// MySQL has no CREATE INDEX IF NOT EXISTS, so the index is declared with the table.
		text = "VARCHAR(64)"
		inlineIndex = ",\n\t\t\tINDEX idx_predictions_created (created_ms)"
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS predictions (
			id           VARCHAR(36) PRIMARY KEY,
			created_ms   BIGINT NOT NULL,
			feature_kind VARCHAR(8) NOT NULL,
			input        %[1]s NOT NULL,
			feature      %[2]s NOT NULL,
			predicted    %[2]s NOT NULL,
			reference    %[2]s NOT NULL,
			delta        %[2]s NOT NULL,
			trend        VARCHAR(8) NOT NULL%[3]s
		)`, text, num, inlineIndex),
	}
	if d != DialectMySQL {
		stmts = append(stmts, `CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_ms)`)
	}
	return stmts
}

// SQLJournal stores prediction events in a database/sql table.
type SQLJournal struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLJournal opens dsn with the dialect's driver, pings it and creates the table.
func OpenSQLJournal(ctx context.Context, d Dialect, dsn string) (*SQLJournal, error) {
	db, err := sql.Open(d.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if d == DialectSQLite {
		// one writer at a time; WAL keeps readers unblocked
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	j, err := NewSQLJournal(ctx, db, d)
	if err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// NewSQLJournal uses an existing pool and migrates the schema.
func NewSQLJournal(ctx context.Context, db *sql.DB, d Dialect) (*SQLJournal, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	for _, stmt := range d.schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", d, err)
		}
	}
	return &SQLJournal{db: db, dialect: d}, nil
}

func (j *SQLJournal) Record(ctx context.Context, ev models.PredictionEvent) error {
	q := j.dialect.bind(`INSERT INTO predictions
		(id, created_ms, feature_kind, input, feature, predicted, reference, delta, trend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := j.db.ExecContext(ctx, q,
		ev.ID,
		ev.CreatedAt.UnixMilli(),
		string(ev.Kind),
		ev.Input,
		ev.Feature,
		ev.Predicted,
		ev.Reference,
		ev.Delta,
		string(ev.Trend),
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (j *SQLJournal) Recent(ctx context.Context, n int) ([]models.PredictionEvent, error) {
	q := j.dialect.bind(`SELECT id, created_ms, feature_kind, input, feature, predicted, reference, delta, trend
		FROM predictions
		ORDER BY created_ms DESC, id DESC
		LIMIT ?`)
	rows, err := j.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionEvent, 0, n)
	for rows.Next() {
		var (
			ev        models.PredictionEvent
			ms        int64
			kind, trd string
		)
		if err := rows.Scan(&ev.ID, &ms, &kind, &ev.Input, &ev.Feature, &ev.Predicted, &ev.Reference, &ev.Delta, &trd); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(ms).UTC()
		ev.Kind = models.FeatureKind(kind)
		ev.Trend = models.Trend(trd)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (j *SQLJournal) Close() error {
	return j.db.Close()
}

var (
	_ domrepo.Journal       = (*SQLJournal)(nil)
	_ domrepo.JournalReader = (*SQLJournal)(nil)
)
