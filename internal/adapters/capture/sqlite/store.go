// Package sqlite persists captured event logs in SQLite so runs can be
// replayed into the demux after the instrumented process exits.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rayokota/declarative-dataflow/internal/adapters/capture/memory"
	"github.com/rayokota/declarative-dataflow/internal/core/event"
	"github.com/rayokota/declarative-dataflow/internal/core/replay"
	"github.com/rayokota/declarative-dataflow/pkg/serialization"
)

// Store implements a capture log over SQLite
type Store struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewStore creates a new SQLite capture store
func NewStore(db *sql.DB, serializer *serialization.Serializer) *Store {
	return &Store{
		db:         db,
		serializer: serializer,
		tableName:  "capture_batches",
	}
}

// WithTableName allows overriding the default table name with validation.
// Only alphanumeric and underscore are permitted to prevent SQL injection via identifiers.
func (s *Store) WithTableName(name string) *Store {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// CreateTables creates the necessary database tables
func (s *Store) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			time_ns INTEGER NOT NULL,
			events BLOB NOT NULL,
			PRIMARY KEY (run_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_%s_run_id ON %s (run_id);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Append stores one captured batch under a run id at the given sequence
// position. Replays deliver batches in ascending sequence order.
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
		INSERT OR REPLACE INTO %s (run_id, seq, time_ns, events)
		VALUES (?, ?, ?, ?)
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, runID, seq, int64(b.Time), data)
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
		WHERE run_id = ?
		ORDER BY seq ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, runID)
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

// Source loads a run into memory and returns it as a replayable batch
// source. Loading up front keeps the replay loop free of database calls.
func (s *Store) Source(ctx context.Context, runID string) (replay.BatchSource, error) {
	batches, err := s.Batches(ctx, runID)
	if err != nil {
		return nil, err
	}
	return memory.NewSource(batches...), nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
