// Package stream provides the time-scoped session over a tuple channel
package stream

import (
	"errors"
	"time"
)

import imetrics "github.com/rayokota/declarative-dataflow/internal/infrastructure/metrics"

// Session is a single-use write handle over one TupleChannel, scoped to the
// processing of one delivered batch at one notification time. Tuples given
// to the session are buffered and flushed to the channel as one unit when
// the session closes. A session must not outlive the batch it was opened
// for; callers close it with defer so the buffer is released on every exit
// path, including a panic partway through the routing loop.
type Session struct {
	ch     *TupleChannel
	at     time.Duration
	buf    []Tuple
	closed bool
}

// OpenSession acquires a write session over ch scoped to the notification
// time at. Fails only structurally (nil channel); a closed channel still
// accepts a session whose flush then discards silently.
func OpenSession(ch *TupleChannel, at time.Duration) (*Session, error) {
	if ch == nil {
		return nil, ErrNilChannel
	}
	imetrics.AddSessionsOpened(1)
	return &Session{ch: ch, at: at}, nil
}

// Time returns the notification time this session is scoped to.
func (s *Session) Time() time.Duration { return s.at }

// Give buffers one tuple for delivery when the session closes.
func (s *Session) Give(t Tuple) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.buf = append(s.buf, t)
	return nil
}

// Len returns the number of tuples buffered so far
func (s *Session) Len() int { return len(s.buf) }

// Close flushes the buffered tuples to the channel as one batch and
// releases the handle. Closing is idempotent; a session that received no
// tuples flushes nothing. Flushing into a channel that was closed in the
// meantime discards the buffer, which matches the drop-on-teardown
// semantics of the surrounding engine.
func (s *Session) Close() error {
	if s.closed {
		return nil // Already closed
	}
	s.closed = true

	buf := s.buf
	s.buf = nil
	if err := s.ch.Push(buf); err != nil && !errors.Is(err, ErrChannelClosed) {
		return err
	}
	return nil
}
