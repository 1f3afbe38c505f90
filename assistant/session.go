package assistant

import (
	"context"
	"sync"
	"time"
)

type sessionEntry struct {
	id        string
	expiresAt time.Time
}

// SessionStore maps actors to their conversation sessions. A session is
// created lazily on first use and reused for the lifetime of a generation
// run; entries are evicted after the TTL so the map cannot grow without
// bound. Safe for concurrent actors; one actor runs at most one arc at a
// time.
type SessionStore struct {
	client Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]sessionEntry
}

func NewSessionStore(client Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]sessionEntry),
	}
}

// Session returns the actor's session id, creating one if absent or expired.
func (s *SessionStore) Session(ctx context.Context, actorID string) (string, error) {
	s.mu.Lock()
	now := s.now()
	s.sweepLocked(now)
	if e, ok := s.entries[actorID]; ok {
		e.expiresAt = now.Add(s.ttl)
		s.entries[actorID] = e
		s.mu.Unlock()
		return e.id, nil
	}
	s.mu.Unlock()

	// Create outside the lock; session creation is a network call.
	id, err := s.client.CreateSession(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[actorID] = sessionEntry{id: id, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

// Forget drops the actor's cached session.
func (s *SessionStore) Forget(actorID string) {
	s.mu.Lock()
	delete(s.entries, actorID)
	s.mu.Unlock()
}

func (s *SessionStore) sweepLocked(now time.Time) {
	for actor, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, actor)
		}
	}
}
