package metrics

import (
	"expvar"
)

// Routing metrics (counters) using expvar maps keyed by attribute or drop reason.
var (
	eventsRouted  = expvar.NewMap("ddflow_events_routed_total")
	eventsDropped = expvar.NewMap("ddflow_events_dropped_total")
)

// Session / Replay metrics.
var (
	sessionsOpened  = new(expvar.Int)
	tuplesFlushed   = new(expvar.Int)
	batchesReplayed = new(expvar.Int)
)

func init() {
	expvar.Publish("ddflow_sessions_opened_total", sessionsOpened)
	expvar.Publish("ddflow_tuples_flushed_total", tuplesFlushed)
	expvar.Publish("ddflow_batches_replayed_total", batchesReplayed)
}

// Routing helpers
func EventRouted(attribute string, n int64) { eventsRouted.Add(attribute, n) }
func EventDropped(reason string, n int64)   { eventsDropped.Add(reason, n) }

// Session/Replay helpers
func AddSessionsOpened(n int64) { sessionsOpened.Add(n) }
func AddTuplesFlushed(n int64)  { tuplesFlushed.Add(n) }
func IncBatchesReplayed()       { batchesReplayed.Add(1) }
