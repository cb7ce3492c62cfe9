package dataflow

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/rayokota/declarative-dataflow/internal/core/demux"
	"github.com/rayokota/declarative-dataflow/internal/core/replay"
	"github.com/rayokota/declarative-dataflow/internal/core/stream"
)

// Re-export core types for convenience
type (
	Aid             = demux.Aid
	AttributeConfig = demux.AttributeConfig
	Tuple           = stream.Tuple
	Datum           = stream.Datum
	Eid             = stream.Eid
)

// SizeAttribute is the well-known attribute derived from the trace log.
const SizeAttribute = demux.SizeAttribute

// RawConfig returns the configuration attached to every log-derived
// attribute.
func RawConfig() AttributeConfig { return demux.RawConfig() }

// Validate is the package validator instance
var validate = validator.New()

// Logging describes one or more taps into the runtime's trace logging
// stream: the log attributes that should be materialized.
type Logging struct {
	Attributes []Aid `json:"attributes" validate:"dive,required"`
}

// AttributeStream is the per-attribute descriptor handed to downstream
// consumers: the attribute key, its passthrough configuration, and the
// channel the demux writes into.
type AttributeStream struct {
	Aid     Aid
	Config  AttributeConfig
	Channel *stream.TupleChannel
}

// Tap owns a wired demux instance: the replayer pumping the capture source
// and the router fanning events out to the attribute channels.
type Tap struct {
	replayer *replay.Replayer
	router   *demux.Router
}

// Replayer returns the replay loop driving the tap.
func (t *Tap) Replayer() *replay.Replayer { return t.replayer }

// Run replays the capture source to exhaustion through the demux.
func (t *Tap) Run(ctx context.Context) error { return t.replayer.Run(ctx) }

// Source builds the demux over the given capture source and returns the
// attribute stream descriptors in request order, each tagged with raw input
// semantics forwarded unchanged to whatever consumes the descriptors.
// Construction is the only fatal path; per-event outcomes are never errors.
func (l Logging) Source(source replay.BatchSource) ([]AttributeStream, *Tap, error) {
	if err := validate.Struct(l); err != nil {
		return nil, nil, err
	}

	registry := demux.NewRegistry(l.Attributes)
	router, err := demux.NewRouter(registry)
	if err != nil {
		return nil, nil, err
	}
	replayer, err := replay.NewReplayer(source, router)
	if err != nil {
		return nil, nil, err
	}

	streams := make([]AttributeStream, 0, registry.Len())
	for _, ac := range registry.Channels() {
		streams = append(streams, AttributeStream{
			Aid:     ac.Aid,
			Config:  demux.RawConfig(),
			Channel: ac.Channel,
		})
	}

	return streams, &Tap{replayer: replayer, router: router}, nil
}
