package cqlmapper

import (
	"context"
	"sync"
)

// CachingSession decorates a Session with a prepared-statement cache keyed by
// statement text. Preparing the same text twice returns the cached handle, so
// dynamic callers (the Dispatcher, ad-hoc tooling) get the same once-per-DAO
// behavior generated constructors have.
type CachingSession struct {
	Session

	mu       sync.Mutex
	prepared map[string]PreparedStatement
}

// WithCache wraps the session with a prepared-statement cache. A nil session
// yields a nil wrapper.
func WithCache(session Session) *CachingSession {
	if session == nil {
		return nil
	}
	return &CachingSession{
		Session:  session,
		prepared: make(map[string]PreparedStatement),
	}
}

// Prepare returns the cached handle for the statement text, delegating to the
// underlying session on first use. Failed preparations are not cached.
func (s *CachingSession) Prepare(ctx context.Context, query string) (PreparedStatement, error) {
	s.mu.Lock()
	if stmt, ok := s.prepared[query]; ok {
		s.mu.Unlock()
		return stmt, nil
	}
	s.mu.Unlock()

	stmt, err := s.Session.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.prepared[query]; ok {
		return cached, nil
	}
	s.prepared[query] = stmt
	return stmt, nil
}

// Evict drops the cached handle for the statement text, if any. The next
// Prepare call re-prepares on the underlying session.
func (s *CachingSession) Evict(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prepared, query)
}

// Len returns the number of cached statements.
func (s *CachingSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prepared)
}
