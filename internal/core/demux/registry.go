package demux

import (
	"github.com/rayokota/declarative-dataflow/internal/core/stream"
)

// Registry holds the fixed set of requested output attributes and the tuple
// channel allocated for each. It is populated once at construction and
// shared read-only afterwards; no channel is added, removed, or rebound.
// PRINCIPLES:
// - KISS: Map plus registration order, nothing else
// - SRP: Single responsibility - attribute to channel resolution
type Registry struct {
	order    []Aid
	channels map[Aid]*stream.TupleChannel
}

// AttributeChannel pairs an attribute with its output channel, used once at
// setup time to hand the channels to downstream consumers.
type AttributeChannel struct {
	Aid     Aid
	Channel *stream.TupleChannel
}

// NewRegistry allocates one output channel per requested attribute.
// Duplicates are collapsed onto the first occurrence; callers are expected
// to request unique attributes.
func NewRegistry(attributes []Aid) *Registry {
	r := &Registry{
		channels: make(map[Aid]*stream.TupleChannel, len(attributes)),
	}
	for _, aid := range attributes {
		if _, ok := r.channels[aid]; ok {
			continue
		}
		r.channels[aid] = stream.NewTupleChannel()
		r.order = append(r.order, aid)
	}
	return r
}

// Resolve returns the channel owning aid. Absence is a normal outcome: the
// computed metric's destination attribute was simply never requested.
func (r *Registry) Resolve(aid Aid) (*stream.TupleChannel, bool) {
	ch, ok := r.channels[aid]
	return ch, ok
}

// Channels returns the attribute/channel pairs in registration order.
func (r *Registry) Channels() []AttributeChannel {
	out := make([]AttributeChannel, 0, len(r.order))
	for _, aid := range r.order {
		out = append(out, AttributeChannel{Aid: aid, Channel: r.channels[aid]})
	}
	return out
}

// Len returns the number of registered attributes
func (r *Registry) Len() int { return len(r.order) }
