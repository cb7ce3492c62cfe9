// Package postgres persists captured event logs in PostgreSQL for shared
// capture stores that outlive a single host.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rayokota/declarative-dataflow/internal/adapters/capture/memory"
	"github.com/rayokota/declarative-dataflow/internal/core/event"
	"github.com/rayokota/declarative-dataflow/internal/core/replay"
	"github.com/rayokota/declarative-dataflow/pkg/serialization"
)

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrInvalidRunID = errors.New("invalid capture run ID")
)

// Store implements a capture log over PostgreSQL
type Store struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewStore creates a new PostgreSQL capture store
func NewStore(pool *pgxpool.Pool, serializer *serialization.Serializer) *Store {
	return &Store{
		pool:       pool,
		serializer: serializer,
		tableName:  "capture_batches",
	}
}

// CreateTables creates the necessary database tables
func (s *Store) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT NOT NULL,
			seq BIGINT NOT NULL,
			time_ns BIGINT NOT NULL,
			events BYTEA NOT NULL,
			PRIMARY KEY (run_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_capture_batches_run_id ON %s (run_id);
	`, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Append stores one captured batch under a run id at the given sequence
// position.
func (s *Store) Append(ctx context.Context, runID string, seq int, b replay.Batch) error {
	if runID == "" {
		return ErrInvalidRunID
	}

	envelopes := make([]event.Envelope, 0, len(b.Events))
	for _, ts := range b.Events {
		env, err := event.Wrap(ts)
		if err != nil {
			continue // unrepresentable record: skip, do not poison the capture
		}
		envelopes = append(envelopes, env)
	}

	data, err := s.serializer.Serialize(envelopes)
	if err != nil {
		return fmt.Errorf("failed to serialize batch events: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, seq, time_ns, events)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, seq) DO UPDATE SET
			time_ns = EXCLUDED.time_ns,
			events = EXCLUDED.events
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query, runID, seq, int64(b.Time), data)
	if err != nil {
		return fmt.Errorf("failed to append batch: %w", err)
	}

	return nil
}

// Batches loads every batch recorded under a run id, in sequence order.
func (s *Store) Batches(ctx context.Context, runID string) ([]replay.Batch, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}

	query := fmt.Sprintf(`
		SELECT time_ns, events
		FROM %s
		WHERE run_id = $1
		ORDER BY seq ASC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []replay.Batch
	for rows.Next() {
		var timeNs int64
		var data []byte

		if err := rows.Scan(&timeNs, &data); err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}

		var envelopes []event.Envelope
		if err := s.serializer.Deserialize(data, &envelopes); err != nil {
			return nil, fmt.Errorf("failed to deserialize batch events: %w", err)
		}

		b := replay.Batch{Time: time.Duration(timeNs), Events: make([]event.Timestamped, 0, len(envelopes))}
		for _, env := range envelopes {
			ts, err := env.Unwrap()
			if err != nil {
				continue // unrecognized shape: drop, not an error
			}
			b.Events = append(b.Events, ts)
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batch rows: %w", err)
	}

	return batches, nil
}

// Source loads a run into memory and returns it as a replayable batch source.
func (s *Store) Source(ctx context.Context, runID string) (replay.BatchSource, error) {
	batches, err := s.Batches(ctx, runID)
	if err != nil {
		return nil, err
	}
	return memory.NewSource(batches...), nil
}

// Close releases the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
