package core

import (
	"errors"
	"testing"
	"time"

	"github.com/craftvoice/relay/internal/domain"
)

func TestRoomStore_CreateRejectsDuplicateCode(t *testing.T) {
	store := NewRoomStore()
	if _, err := store.Create("ABC123", testSettings(), time.Now()); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if _, err := store.Create("ABC123", testSettings(), time.Now()); !errors.Is(err, domain.ErrRoomExists) {
		t.Errorf("expected ErrRoomExists, got %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store len = %d, want 1", store.Len())
	}
}

func TestRoomStore_GetMissing(t *testing.T) {
	store := NewRoomStore()
	if _, err := store.Get("NOPE"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomStore_DeleteThenGet(t *testing.T) {
	store := NewRoomStore()
	if _, err := store.Create("ABC123", testSettings(), time.Now()); err != nil {
		t.Fatal(err)
	}
	store.Delete("ABC123")
	if _, err := store.Get("ABC123"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound after delete, got %v", err)
	}
	// Deleting again is harmless.
	store.Delete("ABC123")
}

func TestRoomStore_ListSnapshot(t *testing.T) {
	store := NewRoomStore()
	for _, code := range []domain.RoomCode{"A", "B", "C"} {
		if _, err := store.Create(code, testSettings(), time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	rooms := store.List()
	if len(rooms) != 3 {
		t.Fatalf("list len = %d, want 3", len(rooms))
	}
	// Deleting while iterating the snapshot must not panic.
	for _, r := range rooms {
		store.Delete(r.Code())
	}
	if store.Len() != 0 {
		t.Errorf("store len = %d, want 0", store.Len())
	}
}
