package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mortise/tenon/internal/session"
)

// MemoryStore keeps sessions in a process-local map. The mutex protects the
// map structure only - it does not serialize read-modify-write cycles on a
// single session, so two concurrent Resolve calls on the same session race
// and the later Put wins.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session.Session)}
}

// Create stores a new session snapshot.
func (m *MemoryStore) Create(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

// Get returns a deep copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.NewSessionNotFound(id)
	}
	return s.Clone(), nil
}

// Put commits a full session snapshot, replacing the stored one.
func (m *MemoryStore) Put(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return session.NewSessionNotFound(s.ID)
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

// List returns summaries ordered by session id for deterministic output.
func (m *MemoryStore) List(_ context.Context) ([]session.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]session.Summary, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Summarize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes the session. Finalized sessions can be deleted too;
// finalization freezes a session, it does not destroy it.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return session.NewSessionNotFound(id)
	}
	delete(m.sessions, id)
	return nil
}
