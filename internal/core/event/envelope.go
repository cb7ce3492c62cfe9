package event

import "time"

// Envelope is the codec-friendly wire form of a Timestamped record. Exactly
// one payload pointer is set, selected by Kind. Codecs (msgpack, json)
// cannot encode the Event interface directly, so adapters wrap records into
// envelopes before serializing and unwrap after decoding.
type Envelope struct {
	Time   time.Duration `json:"time" msgpack:"time"`
	Worker int           `json:"worker" msgpack:"worker"`
	Kind   Kind          `json:"kind" msgpack:"kind"`

	Batch      *Batch      `json:"batch,omitempty" msgpack:"batch,omitempty"`
	Merge      *Merge      `json:"merge,omitempty" msgpack:"merge,omitempty"`
	Drop       *Drop       `json:"drop,omitempty" msgpack:"drop,omitempty"`
	TraceShare *TraceShare `json:"trace_share,omitempty" msgpack:"trace_share,omitempty"`
}

// Wrap converts a Timestamped record into its wire envelope.
func Wrap(ts Timestamped) (Envelope, error) {
	env := Envelope{Time: ts.Time, Worker: ts.Worker}
	switch x := ts.Event.(type) {
	case Batch:
		env.Kind = KindBatch
		env.Batch = &x
	case Merge:
		env.Kind = KindMerge
		env.Merge = &x
	case Drop:
		env.Kind = KindDrop
		env.Drop = &x
	case TraceShare:
		env.Kind = KindTraceShare
		env.TraceShare = &x
	default:
		return Envelope{}, ErrUnknownKind
	}
	return env, nil
}

// Unwrap converts a decoded envelope back into a Timestamped record.
// Envelopes whose Kind is not recognized, or whose payload slot for the
// declared Kind is missing, yield ErrUnknownKind; callers replaying a
// capture drop such records rather than failing.
func (e Envelope) Unwrap() (Timestamped, error) {
	ts := Timestamped{Time: e.Time, Worker: e.Worker}
	switch e.Kind {
	case KindBatch:
		if e.Batch == nil {
			return Timestamped{}, ErrUnknownKind
		}
		ts.Event = *e.Batch
	case KindMerge:
		if e.Merge == nil {
			return Timestamped{}, ErrUnknownKind
		}
		ts.Event = *e.Merge
	case KindDrop:
		if e.Drop == nil {
			return Timestamped{}, ErrUnknownKind
		}
		ts.Event = *e.Drop
	case KindTraceShare:
		if e.TraceShare == nil {
			return Timestamped{}, ErrUnknownKind
		}
		ts.Event = *e.TraceShare
	default:
		return Timestamped{}, ErrUnknownKind
	}
	return ts, nil
}
