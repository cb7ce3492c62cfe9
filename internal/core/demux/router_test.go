package demux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayokota/declarative-dataflow/internal/core/event"
	"github.com/rayokota/declarative-dataflow/internal/core/stream"
)

func newSizeRouter(t *testing.T, attributes ...Aid) (*Router, *Registry) {
	t.Helper()
	registry := NewRegistry(attributes)
	router, err := NewRouter(registry)
	require.NoError(t, err)
	return router, registry
}

func sizeTuples(t *testing.T, registry *Registry) []stream.Tuple {
	t.Helper()
	ch, ok := registry.Resolve(SizeAttribute)
	require.True(t, ok)
	return ch.DrainTuples()
}

func TestRouterRequiresRegistry(t *testing.T) {
	_, err := NewRouter(nil)
	assert.ErrorIs(t, err, ErrNilRegistry)
}

func TestRouterBatchEvent(t *testing.T) {
	router, registry := newSizeRouter(t, SizeAttribute)

	err := router.ProcessBatch(5*time.Millisecond, []event.Timestamped{
		{Time: 5 * time.Millisecond, Worker: 0, Event: event.Batch{Operator: 3, Length: 10}},
	})
	require.NoError(t, err)

	tuples := sizeTuples(t, registry)
	require.Len(t, tuples, 1)
	assert.Equal(t, stream.Tuple{
		Data: stream.Datum{Entity: 3, Value: 10},
		Time: 5 * time.Millisecond,
		Diff: 1,
	}, tuples[0])
}

func TestRouterMergeEvent(t *testing.T) {
	t.Run("CompleteMergeEmitsSignedDelta", func(t *testing.T) {
		router, registry := newSizeRouter(t, SizeAttribute)
		final := int64(10)

		err := router.ProcessBatch(5*time.Millisecond, []event.Timestamped{
			{Time: 5 * time.Millisecond, Event: event.Merge{Operator: 3, Length1: 6, Length2: 6, Complete: &final}},
		})
		require.NoError(t, err)

		tuples := sizeTuples(t, registry)
		require.Len(t, tuples, 1)
		// 10 - (6+6) = -2: the merge shrank total size.
		assert.Equal(t, int64(-2), tuples[0].Data.Value)
		assert.Equal(t, 1, tuples[0].Diff)
	})

	t.Run("GrowingMergeEmitsPositiveDelta", func(t *testing.T) {
		router, registry := newSizeRouter(t, SizeAttribute)
		final := int64(15)

		err := router.ProcessBatch(time.Millisecond, []event.Timestamped{
			{Time: time.Millisecond, Event: event.Merge{Operator: 1, Length1: 5, Length2: 5, Complete: &final}},
		})
		require.NoError(t, err)

		tuples := sizeTuples(t, registry)
		require.Len(t, tuples, 1)
		assert.Equal(t, int64(5), tuples[0].Data.Value)
	})

	t.Run("IncompleteMergeIsDropped", func(t *testing.T) {
		router, registry := newSizeRouter(t, SizeAttribute)

		err := router.ProcessBatch(time.Millisecond, []event.Timestamped{
			{Time: time.Millisecond, Event: event.Merge{Operator: 3, Length1: 6, Length2: 6}},
		})
		require.NoError(t, err)
		assert.Empty(t, sizeTuples(t, registry))
	})
}

func TestRouterUnhandledKinds(t *testing.T) {
	router, registry := newSizeRouter(t, SizeAttribute)

	err := router.ProcessBatch(time.Millisecond, []event.Timestamped{
		{Time: time.Millisecond, Event: event.Drop{Operator: 3, Length: 4}},
		{Time: time.Millisecond, Event: event.TraceShare{Operator: 3}},
	})
	require.NoError(t, err)
	assert.Empty(t, sizeTuples(t, registry))
}

func TestRouterFiltersUnrequestedAttributes(t *testing.T) {
	// The size attribute was never requested: classification still happens
	// but nothing is emitted anywhere.
	router, registry := newSizeRouter(t, "custom/latency")
	final := int64(10)

	err := router.ProcessBatch(5*time.Millisecond, []event.Timestamped{
		{Time: 5 * time.Millisecond, Event: event.Batch{Operator: 3, Length: 10}},
		{Time: 5 * time.Millisecond, Event: event.Merge{Operator: 3, Length1: 6, Length2: 6, Complete: &final}},
	})
	require.NoError(t, err)

	for _, ac := range registry.Channels() {
		assert.Empty(t, ac.Channel.DrainTuples())
	}
}

func TestRouterPreservesEventTime(t *testing.T) {
	// Tuples keep their source event's logical time even when it differs
	// from the notification time.
	router, registry := newSizeRouter(t, SizeAttribute)

	err := router.ProcessBatch(20*time.Millisecond, []event.Timestamped{
		{Time: 5 * time.Millisecond, Event: event.Batch{Operator: 1, Length: 1}},
		{Time: 7 * time.Millisecond, Event: event.Batch{Operator: 1, Length: 2}},
	})
	require.NoError(t, err)

	tuples := sizeTuples(t, registry)
	require.Len(t, tuples, 2)
	assert.Equal(t, 5*time.Millisecond, tuples[0].Time)
	assert.Equal(t, 7*time.Millisecond, tuples[1].Time)
}

func TestRouterWorkedExample(t *testing.T) {
	// Input [(t=5ms, Batch{op=3, len=10}), (t=5ms, Merge{op=3, 6+6 -> 10})]
	// with attribute set {size} yields [((Eid(3),10),5ms,+1), ((Eid(3),-2),5ms,+1)].
	router, registry := newSizeRouter(t, SizeAttribute)
	final := int64(10)

	err := router.ProcessBatch(5*time.Millisecond, []event.Timestamped{
		{Time: 5 * time.Millisecond, Event: event.Batch{Operator: 3, Length: 10}},
		{Time: 5 * time.Millisecond, Event: event.Merge{Operator: 3, Length1: 6, Length2: 6, Complete: &final}},
	})
	require.NoError(t, err)

	tuples := sizeTuples(t, registry)
	require.Len(t, tuples, 2)
	assert.Equal(t, stream.Tuple{Data: stream.Datum{Entity: 3, Value: 10}, Time: 5 * time.Millisecond, Diff: 1}, tuples[0])
	assert.Equal(t, stream.Tuple{Data: stream.Datum{Entity: 3, Value: -2}, Time: 5 * time.Millisecond, Diff: 1}, tuples[1])
}

func TestRouterEmptyAttributeSet(t *testing.T) {
	router, registry := newSizeRouter(t)

	err := router.ProcessBatch(5*time.Millisecond, []event.Timestamped{
		{Time: 5 * time.Millisecond, Event: event.Batch{Operator: 3, Length: 10}},
	})
	require.NoError(t, err)
	assert.Empty(t, registry.Channels())
}

func TestSessionSetFlushOnPanic(t *testing.T) {
	// The deferred close must flush buffered tuples even when the
	// batch-processing scope unwinds with a panic.
	registry := NewRegistry([]Aid{SizeAttribute})

	func() {
		defer func() { _ = recover() }()

		sessions, err := OpenSessions(registry, time.Millisecond)
		require.NoError(t, err)
		defer sessions.Close()

		_, err = sessions.Give(SizeAttribute, stream.Tuple{
			Data: stream.Datum{Entity: 1, Value: 1},
			Time: time.Millisecond,
			Diff: 1,
		})
		require.NoError(t, err)

		panic("mid-batch failure")
	}()

	ch, _ := registry.Resolve(SizeAttribute)
	assert.Len(t, ch.DrainTuples(), 1)
}

func TestSessionSetGive(t *testing.T) {
	registry := NewRegistry([]Aid{SizeAttribute})
	sessions, err := OpenSessions(registry, 3*time.Millisecond)
	require.NoError(t, err)
	defer sessions.Close()

	assert.Equal(t, 3*time.Millisecond, sessions.Time())

	routed, err := sessions.Give(SizeAttribute, stream.Tuple{Diff: 1})
	require.NoError(t, err)
	assert.True(t, routed)

	routed, err = sessions.Give("never/requested", stream.Tuple{Diff: 1})
	require.NoError(t, err)
	assert.False(t, routed)
}
