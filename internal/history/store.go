// Package history records completed CSV exports in PostgreSQL for later
// review. The store is optional: when no database is configured, callers
// hold a nil *Store and every method is a no-op. The parse pipeline itself
// never touches this package; only the web layer writes records after an
// export succeeds.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one completed export.
type Record struct {
	ID        uuid.UUID     `json:"id"`
	Filename  string        `json:"filename"`
	FeedID    string        `json:"feedId"`
	FeedTitle string        `json:"feedTitle"`
	Rows      int           `json:"rows"`
	Bytes     int           `json:"bytes"`
	Duration  time.Duration `json:"-"`
	ClientIP  string        `json:"clientIp,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Store persists export records.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS export_history (
	id          UUID PRIMARY KEY,
	filename    TEXT NOT NULL,
	feed_id     TEXT NOT NULL DEFAULT '',
	feed_title  TEXT NOT NULL DEFAULT '',
	row_count   INTEGER NOT NULL,
	byte_size   INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	client_ip   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_export_history_created_at
	ON export_history (created_at DESC);
`

// Init creates the export_history table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init export history schema: %w", err)
	}
	return nil
}

// Insert stores one export record. A zero ID is assigned a new UUID.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	if s == nil {
		return nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO export_history
			(id, filename, feed_id, feed_title, row_count, byte_size, duration_ms, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Filename, rec.FeedID, rec.FeedTitle,
		rec.Rows, rec.Bytes, rec.Duration.Milliseconds(), rec.ClientIP, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert export record: %w", err)
	}
	return nil
}

// Recent returns the most recent export records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil {
		return []Record{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, feed_id, feed_title, row_count, byte_size, duration_ms, client_ip, created_at
		FROM export_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export history: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		var durationMs int64
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.FeedID, &rec.FeedTitle,
			&rec.Rows, &rec.Bytes, &durationMs, &rec.ClientIP, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export record: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
