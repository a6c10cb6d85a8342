package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS bill_outcomes (
	id           UUID PRIMARY KEY,
	file_name    TEXT        NOT NULL,
	region       TEXT        NOT NULL,
	status       TEXT        NOT NULL,
	message      TEXT        NOT NULL DEFAULT '',
	record       JSONB,
	processed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS bill_outcomes_processed_at_idx ON bill_outcomes (processed_at DESC);
`

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool from cfg.
func OpenPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*PostgresStore, error) {
	logger.Info("connecting to database", "driver", "postgres")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database url", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "waterbills"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("%w: create schema: %w", common.ErrDatabase, err)
	}
	return nil
}

func (s *PostgresStore) SaveOutcome(ctx context.Context, out entity.Outcome) error {
	row, err := toRow(out)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO bill_outcomes (id, file_name, region, status, message, record, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			message = EXCLUDED.message,
			record = EXCLUDED.record,
			processed_at = EXCLUDED.processed_at`,
		row.ID, row.FileName, row.Region, row.Status, row.Message, row.Record, row.ProcessedAt)
	if err != nil {
		s.logger.Error("failed to save outcome", "file", out.FileName, "error", err)
		return fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	return nil
}

func (s *PostgresStore) ListOutcomes(ctx context.Context, limit int) ([]entity.Outcome, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, file_name, region, status, message, record, processed_at
		FROM bill_outcomes ORDER BY processed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.Outcome
	for rows.Next() {
		var r outcomeRow
		if err := rows.Scan(&r.ID, &r.FileName, &r.Region, &r.Status, &r.Message, &r.Record, &r.ProcessedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
		}
		o, err := r.toOutcome()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() {
	s.logger.Info("closing database connections")
	s.pool.Close()
}
