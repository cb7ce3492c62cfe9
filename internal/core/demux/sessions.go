package demux

import (
	"time"

	"github.com/rayokota/declarative-dataflow/internal/core/stream"
)

// SessionSet is one open write session per registered attribute, all scoped
// to a single notification time. Sessions are opened eagerly for every
// channel, even those that receive nothing in this batch; the cost is
// bounded by the fixed attribute count, not by data volume, and it avoids a
// second classification pass just to learn which channels will be touched.
type SessionSet struct {
	at       time.Duration
	sessions map[Aid]*stream.Session
}

// OpenSessions acquires a session over every channel in the registry for
// the given notification time. Callers close the set with defer so every
// session is flushed and released on all exit paths from the enclosing
// batch-processing step.
func OpenSessions(registry *Registry, at time.Duration) (*SessionSet, error) {
	set := &SessionSet{
		at:       at,
		sessions: make(map[Aid]*stream.Session, registry.Len()),
	}
	for _, ac := range registry.Channels() {
		session, err := stream.OpenSession(ac.Channel, at)
		if err != nil {
			set.Close()
			return nil, err
		}
		set.sessions[ac.Aid] = session
	}
	return set, nil
}

// Time returns the notification time the set is scoped to.
func (s *SessionSet) Time() time.Duration { return s.at }

// Give writes a tuple into the open session for aid. It reports false when
// the attribute was never requested, which callers treat as a silent drop.
func (s *SessionSet) Give(aid Aid, t stream.Tuple) (bool, error) {
	session, ok := s.sessions[aid]
	if !ok {
		return false, nil
	}
	if err := session.Give(t); err != nil {
		return false, err
	}
	return true, nil
}

// Close flushes and releases every session in the set. Idempotent.
func (s *SessionSet) Close() error {
	var firstErr error
	for _, session := range s.sessions {
		if err := session.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
