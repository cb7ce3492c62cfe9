// Package file reads and writes framed capture streams of runtime log
// events, the on-disk transport for offline replay into the demux.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rayokota/declarative-dataflow/internal/core/event"
	"github.com/rayokota/declarative-dataflow/internal/core/replay"
	"github.com/rayokota/declarative-dataflow/pkg/serialization"
)

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrNilSerializer  = errors.New("capture requires a serializer")
	ErrTruncatedBatch = errors.New("capture stream ends mid-record")
)

// Header opens every capture stream and identifies the run that produced it.
type Header struct {
	RunID     string    `json:"run_id" msgpack:"run_id"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
	Workers   int       `json:"workers,omitempty" msgpack:"workers,omitempty"`
}

// batchRecord is the wire form of one replay.Batch.
type batchRecord struct {
	Time   time.Duration    `json:"time" msgpack:"time"`
	Events []event.Envelope `json:"events" msgpack:"events"`
}

// Writer appends framed event batches to a capture stream. The writer and
// any future reader must share the serializer configuration.
type Writer struct {
	w     io.Writer
	s     *serialization.Serializer
	runID string
}

// NewWriter stamps a fresh run id into the stream header and returns a
// writer for the capture body.
func NewWriter(w io.Writer, s *serialization.Serializer) (*Writer, error) {
	if s == nil {
		return nil, ErrNilSerializer
	}

	header := Header{RunID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := s.WriteRecord(w, header); err != nil {
		return nil, fmt.Errorf("failed to write capture header: %w", err)
	}

	return &Writer{w: w, s: s, runID: header.RunID}, nil
}

// RunID returns the run id stamped into the header.
func (w *Writer) RunID() string { return w.runID }

// Append writes one batch to the capture stream.
func (w *Writer) Append(b replay.Batch) error {
	rec := batchRecord{Time: b.Time, Events: make([]event.Envelope, 0, len(b.Events))}
	for _, ts := range b.Events {
		env, err := event.Wrap(ts)
		if err != nil {
			// Records this build cannot name are not representable on
			// the wire; skip rather than poison the capture.
			continue
		}
		rec.Events = append(rec.Events, env)
	}
	return w.s.WriteRecord(w.w, rec)
}

// Reader replays a capture stream as a replay.BatchSource. Records whose
// kind this build does not recognize are dropped silently, matching the
// core's treatment of unhandled events.
type Reader struct {
	r      io.Reader
	s      *serialization.Serializer
	header Header
}

// NewReader consumes the stream header and positions the reader at the
// first batch.
func NewReader(r io.Reader, s *serialization.Serializer) (*Reader, error) {
	if s == nil {
		return nil, ErrNilSerializer
	}

	var header Header
	if err := s.ReadRecord(r, &header); err != nil {
		return nil, fmt.Errorf("failed to read capture header: %w", err)
	}

	return &Reader{r: r, s: s, header: header}, nil
}

// Header returns the capture stream header.
func (r *Reader) Header() Header { return r.header }

// Next returns the next batch from the stream, or io.EOF at a clean end.
func (r *Reader) Next(ctx context.Context) (replay.Batch, error) {
	if err := ctx.Err(); err != nil {
		return replay.Batch{}, err
	}

	var rec batchRecord
	if err := r.s.ReadRecord(r.r, &rec); err != nil {
		if errors.Is(err, io.EOF) {
			return replay.Batch{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return replay.Batch{}, ErrTruncatedBatch
		}
		return replay.Batch{}, err
	}

	b := replay.Batch{Time: rec.Time, Events: make([]event.Timestamped, 0, len(rec.Events))}
	for _, env := range rec.Events {
		ts, err := env.Unwrap()
		if err != nil {
			continue // unrecognized shape: drop, not an error
		}
		b.Events = append(b.Events, ts)
	}
	return b, nil
}
