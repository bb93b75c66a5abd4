package store

import (
	"context"
	"sync"

	"github.com/mortise/tenon/internal/session"
)

// Store is the narrow session storage contract.
//
// Get returns session.ErrCodeSessionNotFound for unknown ids; so do Put and
// Delete. Create fails if the id already exists.
type Store interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	Put(ctx context.Context, s *session.Session) error
	List(ctx context.Context) ([]session.Summary, error)
	Delete(ctx context.Context, id string) error
}

// Guard is the injectable concurrency strategy for read-modify-write
// cycles on a single session. Acquire returns a release function.
//
// The baseline strategy is NopGuard: no locking, last write wins. This is
// a deliberate simplicity/availability trade-off for collaborative
// multi-client editing; concurrent resolutions on the same session can
// race and the store does not detect the lost update.
type Guard interface {
	Acquire(sessionID string) (release func())
}

// NopGuard is the baseline no-locking strategy.
type NopGuard struct{}

// Acquire returns immediately; the release function is a no-op.
func (NopGuard) Acquire(string) func() { return func() {} }

// MutexGuard serializes read-modify-write cycles per session id. Opt-in
// strategy for deployments that prefer consistency over availability.
type MutexGuard struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMutexGuard creates a per-session mutex strategy.
func NewMutexGuard() *MutexGuard {
	return &MutexGuard{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the mutex for the given session id, creating it on first
// use. Mutexes are never evicted; the id space is small (one per session).
func (g *MutexGuard) Acquire(sessionID string) func() {
	g.mu.Lock()
	l, ok := g.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[sessionID] = l
	}
	g.mu.Unlock()

	l.Lock()
	return l.Unlock
}
