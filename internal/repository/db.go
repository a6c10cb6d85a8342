package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

// OutcomeStore persists per-document processing outcomes.
type OutcomeStore interface {
	Init(ctx context.Context) error
	SaveOutcome(ctx context.Context, out entity.Outcome) error
	ListOutcomes(ctx context.Context, limit int) ([]entity.Outcome, error)
	Ping(ctx context.Context) error
	Close()
}

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ConfigFrom adapts the environment database settings.
func ConfigFrom(c common.DatabaseConfig) Config {
	return Config{
		DSN:              c.DSN,
		MaxConns:         c.MaxConns,
		MinConns:         c.MinConns,
		MaxConnLifetime:  c.MaxConnLifetime,
		MaxConnIdleTime:  c.MaxConnIdleTime,
		DialTimeout:      c.DialTimeout,
		StatementTimeout: c.StatementTimeout,
	}
}

// Open connects the store for driver ("postgres" or "sqlite") and creates
// its table.
func Open(ctx context.Context, driver string, cfg Config, logger *slog.Logger) (OutcomeStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		store OutcomeStore
		err   error
	)
	switch driver {
	case "postgres":
		store, err = OpenPostgres(ctx, cfg, logger)
	case "sqlite":
		store, err = OpenSQLite(ctx, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", common.ErrInvalidInput, driver)
	}
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// HealthCheck pings the store, bounded by timeout when positive.
func HealthCheck(ctx context.Context, store OutcomeStore, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := store.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		return fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	logger.Debug("database ping successful")
	return nil
}

// outcomeRow is the storage shape shared by both drivers.
type outcomeRow struct {
	ID          string
	FileName    string
	Region      string
	Status      string
	Message     string
	Record      []byte
	ProcessedAt time.Time
}

func toRow(out entity.Outcome) (outcomeRow, error) {
	id := out.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	at := out.ProcessedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	row := outcomeRow{
		ID:          id.String(),
		FileName:    out.FileName,
		Region:      out.Region.String(),
		Status:      string(out.Status),
		Message:     out.Message,
		ProcessedAt: at,
	}
	if out.Record != nil {
		b, err := json.Marshal(out.Record)
		if err != nil {
			return outcomeRow{}, fmt.Errorf("marshal record: %w", err)
		}
		row.Record = b
	}
	return row, nil
}

// storedRegion reads back a region column; rows written by older builds may
// carry a loose spelling.
func storedRegion(s string) constants.Region {
	if r, ok := constants.Canonicalize(s); ok {
		return r
	}
	return constants.Unknown
}

func (r outcomeRow) toOutcome() (entity.Outcome, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return entity.Outcome{}, fmt.Errorf("parse id %q: %w", r.ID, err)
	}
	out := entity.Outcome{
		ID:          id,
		Status:      constants.OutcomeStatus(r.Status),
		OK:          constants.OutcomeStatus(r.Status) == constants.StatusExtracted,
		FileName:    r.FileName,
		Region:      storedRegion(r.Region),
		Message:     r.Message,
		ProcessedAt: r.ProcessedAt,
	}
	if len(r.Record) > 0 {
		var rec entity.CanonicalRecord
		if err := json.Unmarshal(r.Record, &rec); err != nil {
			return entity.Outcome{}, fmt.Errorf("decode record %s: %w", r.ID, err)
		}
		out.Record = &rec
	}
	return out, nil
}
