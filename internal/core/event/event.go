// Package event defines the raw instrumentation records captured from the
// dataflow runtime's trace logging stream.
package event

import "time"

// Kind discriminates the recognized record variants on the wire.
type Kind uint8

const (
	// KindBatch records an operator producing a batch.
	KindBatch Kind = iota + 1
	// KindMerge records two trace inputs being merged.
	KindMerge
	// KindDrop records a trace batch being dropped by the runtime.
	KindDrop
	// KindTraceShare records a trace handle being shared between operators.
	KindTraceShare
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindBatch:
		return "batch"
	case KindMerge:
		return "merge"
	case KindDrop:
		return "drop"
	case KindTraceShare:
		return "trace_share"
	default:
		return "unknown"
	}
}

// Event is one runtime log record. The set of variants is closed: consumers
// switch over the concrete types and treat anything else as unhandled.
// PRINCIPLES:
// - ISP: Marker interface with a single discriminator method
// - SRP: Single responsibility - record taxonomy, no routing logic
type Event interface {
	// Kind returns the wire discriminator for the record
	Kind() Kind
}

// Batch records that an operator produced a batch of the given length.
type Batch struct {
	Operator uint64 `json:"operator" msgpack:"operator"`
	Length   int64  `json:"length" msgpack:"length"`
}

// Kind returns KindBatch
func (Batch) Kind() Kind { return KindBatch }

// Merge records that two inputs of the given lengths were merged. Complete
// is set only once the merge has finished, giving the resulting length.
type Merge struct {
	Operator uint64 `json:"operator" msgpack:"operator"`
	Length1  int64  `json:"length1" msgpack:"length1"`
	Length2  int64  `json:"length2" msgpack:"length2"`
	Complete *int64 `json:"complete,omitempty" msgpack:"complete,omitempty"`
}

// Kind returns KindMerge
func (Merge) Kind() Kind { return KindMerge }

// Drop records that an operator dropped a trace batch of the given length.
// Carried on the wire for completeness; the demux does not route it.
type Drop struct {
	Operator uint64 `json:"operator" msgpack:"operator"`
	Length   int64  `json:"length" msgpack:"length"`
}

// Kind returns KindDrop
func (Drop) Kind() Kind { return KindDrop }

// TraceShare records that an operator's trace handle was shared.
// Carried on the wire for completeness; the demux does not route it.
type TraceShare struct {
	Operator uint64 `json:"operator" msgpack:"operator"`
}

// Kind returns KindTraceShare
func (TraceShare) Kind() Kind { return KindTraceShare }

// Timestamped is the full wire shape of one captured record: the logical
// time the instrumented system attached, the worker that produced it, and
// the record payload. Worker is part of the wire shape but ignored by the
// routing core.
type Timestamped struct {
	Time   time.Duration
	Worker int
	Event  Event
}
