package demux

import (
	"time"

	"github.com/rayokota/declarative-dataflow/internal/core/event"
	"github.com/rayokota/declarative-dataflow/internal/core/stream"
)

import imetrics "github.com/rayokota/declarative-dataflow/internal/infrastructure/metrics"

// Drop reasons reported to self-metrics. Every drop is a normal filtering
// decision, never an error.
const (
	dropIncompleteMerge = "incomplete_merge"
	dropUnhandledKind   = "unhandled_kind"
	dropUnrequested     = "unrequested_attribute"
)

// Router is the demultiplexing core. For each delivered batch of raw events
// it opens one session per registered channel at the notification's time,
// classifies every event in arrival order, and forwards at most one tuple
// per event to the channel owning the derived metric's attribute.
//
// The router runs on a single worker shard: no locks, no shared mutable
// state, never blocks. Partitioning and progress coordination across
// workers belong to the surrounding engine.
type Router struct {
	registry *Registry
}

// NewRouter creates a router over a fixed attribute registry.
func NewRouter(registry *Registry) (*Router, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	return &Router{registry: registry}, nil
}

// Registry returns the attribute registry the router resolves against.
func (r *Router) Registry() *Registry { return r.registry }

// ProcessBatch routes one delivery of raw events scoped to the given
// notification time. The deferred close guarantees every session is flushed
// and released even if the loop body panics partway through.
func (r *Router) ProcessBatch(at time.Duration, events []event.Timestamped) error {
	sessions, err := OpenSessions(r.registry, at)
	if err != nil {
		return err
	}
	defer sessions.Close()

	for _, ev := range events {
		if err := r.route(sessions, ev); err != nil {
			return err
		}
	}
	return nil
}

// route classifies one event and writes its derived tuple, if any. The
// variant switch is the single place a new recognized kind is added.
func (r *Router) route(sessions *SessionSet, ev event.Timestamped) error {
	switch x := ev.Event.(type) {
	case event.Batch:
		// An operator produced a batch: observe its length.
		return r.give(sessions, SizeAttribute, stream.Tuple{
			Data: stream.Datum{Entity: stream.Eid(x.Operator), Value: x.Length},
			Time: ev.Time,
			Diff: 1,
		})

	case event.Merge:
		if x.Complete == nil {
			// Merge still in progress; the finished record will follow.
			imetrics.EventDropped(dropIncompleteMerge, 1)
			return nil
		}
		// Correction record: signed delta against the prior Batch
		// observations, negative when the merge shrank total size.
		delta := *x.Complete - (x.Length1 + x.Length2)
		return r.give(sessions, SizeAttribute, stream.Tuple{
			Data: stream.Datum{Entity: stream.Eid(x.Operator), Value: delta},
			Time: ev.Time,
			Diff: 1,
		})

	default:
		imetrics.EventDropped(dropUnhandledKind, 1)
		return nil
	}
}

// give forwards a tuple to the session owning aid, dropping silently when
// the attribute was never requested.
func (r *Router) give(sessions *SessionSet, aid Aid, t stream.Tuple) error {
	routed, err := sessions.Give(aid, t)
	if err != nil {
		return err
	}
	if !routed {
		imetrics.EventDropped(dropUnrequested, 1)
		return nil
	}
	imetrics.EventRouted(string(aid), 1)
	return nil
}
