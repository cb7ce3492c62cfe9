package replay

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayokota/declarative-dataflow/internal/core/event"
)

// sliceSource delivers a fixed batch sequence; the memory adapter is not
// used here to keep the package free of adapter imports.
type sliceSource struct {
	batches []Batch
	pos     int
}

func (s *sliceSource) Next(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	if s.pos >= len(s.batches) {
		return Batch{}, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}

// recordingHandler captures every delivery in arrival order.
type recordingHandler struct {
	times  []time.Duration
	events [][]event.Timestamped
	err    error
}

func (h *recordingHandler) ProcessBatch(at time.Duration, events []event.Timestamped) error {
	if h.err != nil {
		return h.err
	}
	h.times = append(h.times, at)
	h.events = append(h.events, events)
	return nil
}

func TestNewReplayerValidation(t *testing.T) {
	handler := &recordingHandler{}

	_, err := NewReplayer(nil, handler)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = NewReplayer(&sliceSource{}, nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestReplayerDeliversInOrder(t *testing.T) {
	batches := []Batch{
		{Time: time.Millisecond, Events: []event.Timestamped{
			{Time: time.Millisecond, Event: event.Batch{Operator: 1, Length: 1}},
		}},
		{Time: 2 * time.Millisecond, Events: []event.Timestamped{
			{Time: 2 * time.Millisecond, Event: event.Batch{Operator: 1, Length: 2}},
		}},
	}

	handler := &recordingHandler{}
	replayer, err := NewReplayer(&sliceSource{batches: batches}, handler)
	require.NoError(t, err)

	require.NoError(t, replayer.Run(context.Background()))
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, handler.times)
	require.Len(t, handler.events, 2)
	assert.Len(t, handler.events[0], 1)
}

func TestReplayerExhaustionIsNotAnError(t *testing.T) {
	handler := &recordingHandler{}
	replayer, err := NewReplayer(&sliceSource{}, handler)
	require.NoError(t, err)

	assert.NoError(t, replayer.Run(context.Background()))
	assert.Empty(t, handler.times)
}

func TestReplayerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := &recordingHandler{}
	replayer, err := NewReplayer(&sliceSource{batches: []Batch{{}}}, handler)
	require.NoError(t, err)

	err = replayer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, handler.times)
}

func TestReplayerPropagatesHandlerError(t *testing.T) {
	boom := errors.New("handler failed")
	handler := &recordingHandler{err: boom}
	replayer, err := NewReplayer(&sliceSource{batches: []Batch{{}}}, handler)
	require.NoError(t, err)

	assert.ErrorIs(t, replayer.Run(context.Background()), boom)
}
