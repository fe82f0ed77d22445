package relay

import (
	"testing"

	"github.com/google/uuid"
)

func testSession() *Session {
	// Membership operations only touch the identity, so a bare session
	// is enough here.
	return &Session{id: uuid.New()}
}

func TestRegistry_JoinLeave(t *testing.T) {
	r := NewRegistry()
	a := testSession()
	b := testSession()

	if !r.Join(a) {
		t.Error("Join(a) = false, want true")
	}
	if !r.Join(b) {
		t.Error("Join(b) = false, want true")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	// Joining an already-present session is a no-op
	if r.Join(a) {
		t.Error("second Join(a) = true, want false")
	}
	if r.Len() != 2 {
		t.Errorf("Len() after duplicate join = %d, want 2", r.Len())
	}

	if !r.Leave(a) {
		t.Error("Leave(a) = false, want true")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_LeaveIdempotent(t *testing.T) {
	r := NewRegistry()
	a := testSession()

	r.Join(a)
	r.Leave(a)

	// Leaving twice must not error or corrupt the size
	if r.Leave(a) {
		t.Error("second Leave(a) = true, want false")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}

	// Leaving a session that never joined is also a no-op
	if r.Leave(testSession()) {
		t.Error("Leave(never joined) = true, want false")
	}
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	a := testSession()
	b := testSession()
	r.Join(a)
	r.Join(b)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() len = %d, want 2", len(snap))
	}

	// Membership changes after the snapshot must not affect it
	r.Leave(a)
	r.Join(testSession())

	if len(snap) != 2 {
		t.Errorf("snapshot len changed to %d after mutation, want 2", len(snap))
	}

	ids := map[uuid.UUID]bool{a.id: false, b.id: false}
	for _, s := range snap {
		ids[s.id] = true
	}
	if !ids[a.id] || !ids[b.id] {
		t.Error("snapshot missing a session present at snapshot time")
	}
}
