package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access operations for the usage audit log.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveUsage inserts one audit row.
	SaveUsage(ctx context.Context, rec *UsageRecord) error

	// GetUsageStats aggregates rows created at or after 'since', per intent.
	GetUsageStats(ctx context.Context, since time.Time) ([]UsageStat, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveUsage(ctx context.Context, rec *UsageRecord) error {
	if rec == nil {
		return fmt.Errorf("cannot save nil usage record")
	}
	if rec.ChatID == 0 {
		return fmt.Errorf("usage record must have a non-zero chat_id")
	}
	if rec.Intent == "" {
		return fmt.Errorf("usage record must have an intent")
	}

	rec.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO usage_log (created_at, chat_id, intent, success, duration_ms)
		VALUES (:created_at, :chat_id, :intent, :success, :duration_ms)`

	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert usage record", "chat_id", rec.ChatID, "error", err)
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	return nil
}

func (s *sqlxStore) GetUsageStats(ctx context.Context, since time.Time) ([]UsageStat, error) {
	const query = `
		SELECT intent,
		       COUNT(*) AS total,
		       SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failed
		FROM usage_log
		WHERE created_at >= ?
		GROUP BY intent
		ORDER BY total DESC`

	var stats []UsageStat
	if err := s.db.SelectContext(ctx, &stats, query, since.UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to query usage stats", "error", err)
		return nil, fmt.Errorf("failed to query usage stats: %w", err)
	}

	return stats, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	startTime := time.Now()

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(startTime))
	return nil
}
