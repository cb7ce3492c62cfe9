// Package memory provides an in-memory capture source for tests and for
// bridging a live logger into the demux without going through a transport.
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/rayokota/declarative-dataflow/internal/core/replay"
)

// Source replays a recorded sequence of batches from memory.
// PRINCIPLES:
// - KISS: A slice and a cursor
// - DIP: Implements replay.BatchSource
// - Thread-safe: Uses proper synchronization
type Source struct {
	batches []replay.Batch
	pos     int
	mu      sync.Mutex
}

// NewSource creates a source over the given batches, delivered in order.
func NewSource(batches ...replay.Batch) *Source {
	return &Source{batches: batches}
}

// Append records another batch at the end of the sequence. Appending after
// the cursor passed the end makes the new batch the next delivery.
func (s *Source) Append(b replay.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b)
}

// Next returns the next recorded batch, or io.EOF once exhausted.
func (s *Source) Next(ctx context.Context) (replay.Batch, error) {
	if err := ctx.Err(); err != nil {
		return replay.Batch{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.batches) {
		return replay.Batch{}, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}

// Reset rewinds the cursor so the same capture can be replayed again.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = 0
}

// Len returns the total number of recorded batches
func (s *Source) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}
