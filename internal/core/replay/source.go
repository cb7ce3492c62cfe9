// Package replay adapts a previously captured (or live-bridged) sequence of
// timestamped event batches into live input for the demux router. Pure
// adaptation: no filtering, reordering, or buffering beyond what the
// transport itself provides.
package replay

import (
	"context"
	"time"

	"github.com/rayokota/declarative-dataflow/internal/core/event"
)

// Batch is one delivery of captured events sharing a progress notification.
// The events inside carry their own logical times, which are not required
// to equal the notification time.
type Batch struct {
	Time   time.Duration       `json:"time"`
	Events []event.Timestamped `json:"events"`
}

// BatchSource produces captured event batches in the order the upstream
// transport delivers them. Exhaustion is signalled with io.EOF and is not
// an error condition for the core; an exhausted source simply stops
// producing input.
// PRINCIPLES:
// - ISP: Interface segregation with a single method
// - DIP: Core depends on this interface, adapters implement it
type BatchSource interface {
	// Next returns the next batch, or io.EOF when the source is exhausted
	Next(ctx context.Context) (Batch, error)
}

// BatchHandler consumes one delivered batch at a notification time. The
// demux router satisfies this; tests inject recording handlers so replay
// correctness is independent of the real scheduler.
type BatchHandler interface {
	// ProcessBatch drains one delivery of raw events
	ProcessBatch(at time.Duration, events []event.Timestamped) error
}
