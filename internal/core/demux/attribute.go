package demux

// Aid names a logical metric stream. Attribute keys are supplied by the
// caller; the core only invents SizeAttribute for the metric it computes
// itself.
type Aid string

// SizeAttribute is the well-known attribute carrying operator batch sizes
// and merge size corrections derived from the runtime's trace log.
const SizeAttribute Aid = "differential.event/size"

// InputSemantics labels how an attribute's inputs should be interpreted by
// whatever consumes the channel descriptors. The core forwards it unchanged.
type InputSemantics string

const (
	// SemanticsRaw marks inputs forwarded exactly as computed
	SemanticsRaw InputSemantics = "raw"
	// SemanticsLogical marks inputs subject to logical-time consolidation
	SemanticsLogical InputSemantics = "logical"
)

// AttributeConfig is the opaque per-attribute configuration handed to
// downstream consumers alongside the channel.
type AttributeConfig struct {
	Semantics InputSemantics `json:"semantics"`
}

// RawConfig returns the configuration attached to every log-derived
// attribute: real-time inputs with raw semantics.
func RawConfig() AttributeConfig {
	return AttributeConfig{Semantics: SemanticsRaw}
}
