package relay

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the shared set of live sessions.
//
// Membership mutation and snapshotting are mutually exclusive; the lock
// is never held while delivering to a session, so a slow recipient
// cannot stall joins or leaves.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Join adds a session. It reports whether the session was newly added;
// joining an already-present session is a no-op.
func (r *Registry) Join(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.id]; ok {
		return false
	}
	r.sessions[s.id] = s
	return true
}

// Leave removes a session. Removing an absent session is a no-op.
func (r *Registry) Leave(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.id]; !ok {
		return false
	}
	delete(r.sessions, s.id)
	return true
}

// Snapshot returns a consistent point-in-time copy of the membership,
// safe to iterate without holding any lock.
func (r *Registry) Snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Len returns the current session count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
