package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bill_outcomes (
	id           TEXT PRIMARY KEY,
	file_name    TEXT NOT NULL,
	region       TEXT NOT NULL,
	status       TEXT NOT NULL,
	message      TEXT NOT NULL DEFAULT '',
	record       TEXT,
	processed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS bill_outcomes_processed_at_idx ON bill_outcomes (processed_at);
`

// SQLiteStore keeps outcomes in a local file (or ":memory:"), for the batch
// CLI and tests.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		dsn = ":memory:"
	}
	logger.Info("connecting to database", "driver", "sqlite", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	// one connection: an in-memory database exists per connection, and
	// sqlite serializes writers anyway
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("%w: create schema: %w", common.ErrDatabase, err)
	}
	return nil
}

func (s *SQLiteStore) SaveOutcome(ctx context.Context, out entity.Outcome) error {
	row, err := toRow(out)
	if err != nil {
		return err
	}
	var record any
	if row.Record != nil {
		record = string(row.Record)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bill_outcomes (id, file_name, region, status, message, record, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			message = excluded.message,
			record = excluded.record,
			processed_at = excluded.processed_at`,
		row.ID, row.FileName, row.Region, row.Status, row.Message, record,
		row.ProcessedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		s.logger.Error("failed to save outcome", "file", out.FileName, "error", err)
		return fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	return nil
}

func (s *SQLiteStore) ListOutcomes(ctx context.Context, limit int) ([]entity.Outcome, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, region, status, message, record, processed_at
		FROM bill_outcomes ORDER BY processed_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.Outcome
	for rows.Next() {
		var (
			r      outcomeRow
			record sql.NullString
			at     string
		)
		if err := rows.Scan(&r.ID, &r.FileName, &r.Region, &r.Status, &r.Message, &record, &at); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
		}
		if record.Valid {
			r.Record = []byte(record.String)
		}
		if r.ProcessedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse processed_at %q: %w", at, err)
		}
		o, err := r.toOutcome()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close database", "error", err)
	}
}
