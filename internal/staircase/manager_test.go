package staircase

import (
	"testing"
	"time"
)

func newManagedSession(t *testing.T) *Session {
	t.Helper()
	table, err := NewLevelTable([]Level{{Index: 0, Score: Score{Snellen: "20/200"}}})
	if err != nil {
		t.Fatalf("NewLevelTable: %v", err)
	}
	s, err := NewSession(table, []string{"up", "down"}, Config{TrialsPerLevel: 3, MinCorrectToPass: 2})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestManager_PutGetRemove(t *testing.T) {
	m := NewManager()
	session := newManagedSession(t)

	id := m.Put(&Active{Session: session, UserID: 7, TestID: "acuity", Eye: EyeLeft})
	if id == "" {
		t.Fatal("got empty session handle")
	}

	active, ok := m.Get(id)
	if !ok {
		t.Fatal("session not found after Put")
	}
	if active.Session != session || active.UserID != 7 || active.TestID != "acuity" || active.Eye != EyeLeft {
		t.Errorf("got %+v, want original ownership fields", active)
	}
	if active.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	if !m.Remove(id) {
		t.Error("Remove did not claim a registered session")
	}
	if _, ok := m.Get(id); ok {
		t.Error("session still present after Remove")
	}
}

func TestManager_RemoveClaimsExactlyOnce(t *testing.T) {
	// Two request paths can race the same session to termination; whichever
	// removes the handle first owns finalization, the loser must see false.
	m := NewManager()
	id := m.Put(&Active{Session: newManagedSession(t), UserID: 3, TestID: "contrast", Eye: EyeLeft})

	if !m.Remove(id) {
		t.Fatal("first Remove did not claim the session")
	}
	if m.Remove(id) {
		t.Error("second Remove claimed an already-removed session")
	}
	if m.Remove("no-such-handle") {
		t.Error("Remove claimed an unknown handle")
	}
}

func TestManager_HandlesAreUnique(t *testing.T) {
	m := NewManager()
	a := m.Put(&Active{Session: newManagedSession(t), UserID: 1, TestID: "acuity", Eye: EyeLeft})
	b := m.Put(&Active{Session: newManagedSession(t), UserID: 1, TestID: "acuity", Eye: EyeRight})
	if a == b {
		t.Error("two sessions share a handle")
	}
	if m.Len() != 2 {
		t.Errorf("got %d sessions, want 2", m.Len())
	}
}

func TestManager_SweepEvictsOnlyStaleSessions(t *testing.T) {
	m := NewManager()
	stale := &Active{Session: newManagedSession(t), UserID: 1, TestID: "acuity", Eye: EyeLeft}
	staleID := m.Put(stale)
	stale.CreatedAt = time.Now().UTC().Add(-2 * time.Hour)

	freshID := m.Put(&Active{Session: newManagedSession(t), UserID: 2, TestID: "contrast", Eye: EyeRight})

	if removed := m.Sweep(time.Hour); removed != 1 {
		t.Errorf("got %d swept, want 1", removed)
	}
	if _, ok := m.Get(staleID); ok {
		t.Error("stale session survived sweep")
	}
	if _, ok := m.Get(freshID); !ok {
		t.Error("fresh session was swept")
	}
}
