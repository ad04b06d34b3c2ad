package storage

import (
	"testing"
	"time"

	"github.com/berean-study/trivia-api/internal/domain/entities"
)

func TestSessionStorageStoreGetDelete(t *testing.T) {
	store := NewSessionStorage(time.Hour)

	sess := entities.NewQuizSession("s1", "u1", "genesis", nil)
	store.Store(sess)

	got, ok := store.Get("s1")
	if !ok {
		t.Fatal("Get() after Store() reports missing")
	}
	if got != sess {
		t.Error("Get() returned a different session instance")
	}

	if _, ok := store.Get("missing"); ok {
		t.Error("Get() for unknown ID reports found")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Error("Get() after Delete() reports found")
	}
}

func TestSessionStorageSweep(t *testing.T) {
	store := NewSessionStorage(time.Minute)

	store.Store(entities.NewQuizSession("fresh", "u1", "genesis", nil))
	store.Store(entities.NewQuizSession("stale", "u1", "exodus", nil))

	// Nothing has idled past the TTL yet.
	if removed := store.Sweep(time.Now()); removed != 0 {
		t.Errorf("Sweep(now) removed %d sessions, want 0", removed)
	}

	// Touch one session so its idle timer restarts, then sweep from a point
	// past the other one's idle window but not this one's.
	time.Sleep(200 * time.Millisecond)
	if _, ok := store.Get("fresh"); !ok {
		t.Fatal("fresh session missing")
	}

	removed := store.Sweep(time.Now().Add(time.Minute - 100*time.Millisecond))
	if removed != 1 {
		t.Fatalf("Sweep() removed %d sessions, want 1", removed)
	}
	if _, ok := store.Get("stale"); ok {
		t.Error("stale session survived the sweep")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Error("fresh session was swept")
	}
}

func TestSessionStorageLen(t *testing.T) {
	store := NewSessionStorage(time.Hour)
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}

	store.Store(entities.NewQuizSession("s1", "", "genesis", nil))
	store.Store(entities.NewQuizSession("s2", "", "genesis", nil))
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}

	// Storing under an existing ID replaces, not adds.
	store.Store(entities.NewQuizSession("s2", "", "exodus", nil))
	if store.Len() != 2 {
		t.Errorf("Len() after replace = %d, want 2", store.Len())
	}
}
