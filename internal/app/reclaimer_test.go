package app

import (
	"testing"
	"time"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

func reclaimFixture(t *testing.T, base time.Time) (*Reclaimer, *core.RoomStore) {
	t.Helper()
	store := core.NewRoomStore()
	r := NewReclaimer(store, time.Hour, 72*time.Hour)
	r.Now = func() time.Time { return base }
	return r, store
}

func TestReclaimer_KeepsRoomAtExactThreshold(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, store := reclaimFixture(t, t0)
	if _, err := store.Create("EMPTY", domain.Settings{MaxPlayers: 10, ProximityRadius: 50}, t0); err != nil {
		t.Fatal(err)
	}

	// Age exactly equal to the threshold is kept; strictly past it goes.
	r.Now = func() time.Time { return t0.Add(72 * time.Hour) }
	if deleted := r.Sweep(); deleted != 0 {
		t.Errorf("sweep at exact threshold deleted %d, want 0", deleted)
	}

	r.Now = func() time.Time { return t0.Add(72*time.Hour + time.Second) }
	if deleted := r.Sweep(); deleted != 1 {
		t.Errorf("sweep past threshold deleted %d, want 1", deleted)
	}
	if _, err := store.Get("EMPTY"); err == nil {
		t.Error("room should be gone after reclamation")
	}
}

func TestReclaimer_TwoDayOldRoomSurvives(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, store := reclaimFixture(t, t0)
	if _, err := store.Create("EMPTY", domain.Settings{MaxPlayers: 10, ProximityRadius: 50}, t0); err != nil {
		t.Fatal(err)
	}

	r.Now = func() time.Time { return t0.Add(48 * time.Hour) }
	if deleted := r.Sweep(); deleted != 0 {
		t.Errorf("sweep at 2 days deleted %d, want 0", deleted)
	}
	if _, err := store.Get("EMPTY"); err != nil {
		t.Errorf("room should still exist: %v", err)
	}
}

func TestReclaimer_PopulatedRoomNeverReclaimed(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, store := reclaimFixture(t, t0)
	room, err := store.Create("BUSY", domain.Settings{MaxPlayers: 10, ProximityRadius: 50}, t0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := room.Join("Alice", "en", nil, t0); err != nil {
		t.Fatal(err)
	}
	// Bypass Join's activity touch to simulate a long-idle populated room.
	room.Touch(t0)

	r.Now = func() time.Time { return t0.Add(1000 * time.Hour) }
	if deleted := r.Sweep(); deleted != 0 {
		t.Errorf("populated room reclaimed, deleted = %d", deleted)
	}
}

func TestReclaimer_ActivityResetsClock(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, store := reclaimFixture(t, t0)
	room, err := store.Create("EMPTY", domain.Settings{MaxPlayers: 10, ProximityRadius: 50}, t0)
	if err != nil {
		t.Fatal(err)
	}

	room.Touch(t0.Add(48 * time.Hour))

	r.Now = func() time.Time { return t0.Add(73 * time.Hour) }
	if deleted := r.Sweep(); deleted != 0 {
		t.Errorf("touched room reclaimed too early, deleted = %d", deleted)
	}

	r.Now = func() time.Time { return t0.Add(48*time.Hour + 72*time.Hour + time.Second) }
	if deleted := r.Sweep(); deleted != 1 {
		t.Errorf("stale room not reclaimed, deleted = %d", deleted)
	}
}
