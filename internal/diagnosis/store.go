package diagnosis

import (
	"context"
	"sync"
	"time"

	"wellness-ai-agent/internal/errx"
	"wellness-ai-agent/pkg/logx"
)

// Store holds diagnosis sessions between requests. Update applies the
// mutation with the session held exclusively, so concurrent answers to the
// same session cannot race on the answer list or question index.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the default in-process store: a map guarded by a RWMutex,
// with idle-TTL eviction. All state is lost on restart, which is the
// designed behavior.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewMemoryStore creates a store whose sessions expire after sitting idle
// for ttl. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || m.expired(s, time.Now()) {
		return nil, errx.ErrSessionNotFound
	}
	cp := m.clone(s)
	return cp, nil
}

// Update mutates the session under the store lock. The callback sees the
// live session; returning an error aborts the mutation and is passed
// through. The idle TTL is refreshed on every successful mutation.
func (m *MemoryStore) Update(_ context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || m.expired(s, time.Now()) {
		return nil, errx.ErrSessionNotFound
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	return m.clone(s), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errx.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Sweep removes sessions idle past the TTL and returns how many were
// evicted.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var evicted int
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps on the given interval until the context is cancelled.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now); n > 0 {
				logx.Info().Int("evicted", n).Msg("expired diagnosis sessions removed")
			}
		}
	}
}

func (m *MemoryStore) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.UpdatedAt) > m.ttl
}

// clone copies the session so callers never share slices with the stored
// copy.
func (m *MemoryStore) clone(s *Session) *Session {
	cp := *s
	cp.Questions = append([]string(nil), s.Questions...)
	cp.Answers = append([]Answer(nil), s.Answers...)
	return &cp
}
