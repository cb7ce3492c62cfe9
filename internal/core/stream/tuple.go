// Package stream provides the per-attribute output streams of the logging
// demux: tuple channels owned by the router and time-scoped write sessions
// over them.
package stream

import "time"

// Eid identifies the dataflow operator a metric is about.
type Eid uint64

// Datum is the computed payload of one emitted metric: the entity the
// metric describes and its numeric value. Value may be negative, e.g. a
// size delta for a merge that shrank the total.
type Datum struct {
	Entity Eid   `json:"entity"`
	Value  int64 `json:"value"`
}

// Tuple is one emitted metric record. Time is always the logical time of
// the source event, never the time the batch was delivered. Diff is the
// signed multiplicity consumed by downstream differential computation:
// +1 for observations and additive corrections, negative for retractions.
type Tuple struct {
	Data Datum         `json:"data"`
	Time time.Duration `json:"time"`
	Diff int           `json:"diff"`
}
