package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"mailtrack/internal/core/domain"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on
// restart, which logs every admin out.
type MemoryStore struct {
	c   *gocache.Cache
	now func() time.Time
}

// NewMemoryStore returns a store that evicts expired sessions every
// cleanup interval.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, cleanup), now: time.Now}
}

// Save stores s until its ExpiresAt. An already expired session is dropped.
func (m *MemoryStore) Save(_ context.Context, s domain.Session) error {
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		m.c.Delete(s.Token)
		return nil
	}
	m.c.Set(s.Token, s, ttl)
	return nil
}

// Get returns the session or nil when it is unknown or expired.
func (m *MemoryStore) Get(_ context.Context, token string) (*domain.Session, error) {
	v, ok := m.c.Get(token)
	if !ok {
		return nil, nil
	}
	s, ok := v.(domain.Session)
	if !ok || s.Expired(m.now()) {
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session.
func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.c.Delete(token)
	return nil
}
