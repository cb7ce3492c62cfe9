package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "batch", KindBatch.String())
	assert.Equal(t, "merge", KindMerge.String())
	assert.Equal(t, "drop", KindDrop.String())
	assert.Equal(t, "trace_share", KindTraceShare.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	complete := int64(10)

	cases := []struct {
		name string
		ev   Event
		kind Kind
	}{
		{"Batch", Batch{Operator: 3, Length: 10}, KindBatch},
		{"MergeIncomplete", Merge{Operator: 3, Length1: 6, Length2: 6}, KindMerge},
		{"MergeComplete", Merge{Operator: 3, Length1: 6, Length2: 6, Complete: &complete}, KindMerge},
		{"Drop", Drop{Operator: 7, Length: 4}, KindDrop},
		{"TraceShare", TraceShare{Operator: 7}, KindTraceShare},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := Timestamped{Time: 5 * time.Millisecond, Worker: 2, Event: tc.ev}

			env, err := Wrap(ts)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, env.Kind)

			back, err := env.Unwrap()
			require.NoError(t, err)
			assert.Equal(t, ts, back)
		})
	}
}

func TestEnvelopeUnknownKind(t *testing.T) {
	t.Run("WrapUnknownEvent", func(t *testing.T) {
		_, err := Wrap(Timestamped{Event: nil})
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("UnwrapUnknownKind", func(t *testing.T) {
		env := Envelope{Kind: Kind(42)}
		_, err := env.Unwrap()
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("UnwrapMissingPayload", func(t *testing.T) {
		// Kind says batch but the payload slot is empty.
		env := Envelope{Kind: KindBatch}
		_, err := env.Unwrap()
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}
