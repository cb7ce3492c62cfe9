package replay

import (
	"context"
	"errors"
	"io"
)

import imetrics "github.com/rayokota/declarative-dataflow/internal/infrastructure/metrics"

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrNilSource  = errors.New("replayer requires a batch source")
	ErrNilHandler = errors.New("replayer requires a batch handler")
)

// Replayer pumps a batch source into a handler until the source is
// exhausted. It never blocks beyond the source's own delivery and returns
// promptly after draining the available input.
type Replayer struct {
	source  BatchSource
	handler BatchHandler
}

// NewReplayer wires a source to a handler.
func NewReplayer(source BatchSource, handler BatchHandler) (*Replayer, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	return &Replayer{source: source, handler: handler}, nil
}

// Run replays every remaining batch from the source into the handler, in
// delivery order. A nil return means the source was drained to exhaustion;
// context cancellation surfaces as the context's error.
func (r *Replayer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := r.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := r.handler.ProcessBatch(batch.Time, batch.Events); err != nil {
			return err
		}
		imetrics.IncBatchesReplayed()
	}
}
