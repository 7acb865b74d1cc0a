package app

import (
	"errors"
	"testing"
	"time"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

func relayFixture() *Relay {
	store := core.NewRoomStore()
	reg := core.NewSessionRegistry()
	return NewRelay(store, reg, domain.Settings{MaxPlayers: 50, ProximityRadius: 50, AllowTranslation: true})
}

func bindConn(r *Relay, cid core.ClientID) *fakeConn {
	conn := &fakeConn{}
	r.Registry.BindConn(cid, conn, nil)
	return conn
}

func TestRelay_CreateAndJoin(t *testing.T) {
	relay := relayFixture()
	bindConn(relay, "c1")
	bindConn(relay, "c2")

	room, alice, err := relay.CreateRoom("c1", "ABC123", "Alice", "en", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !alice.State.IsAdmin() {
		t.Error("creator must be admin")
	}
	if room.Settings().MaxPlayers != 2 {
		t.Errorf("maxPlayers = %d, want 2", room.Settings().MaxPlayers)
	}

	if _, _, err := relay.CreateRoom("c2", "ABC123", "Bob", "es", 0); !errors.Is(err, domain.ErrRoomExists) {
		t.Errorf("expected ErrRoomExists, got %v", err)
	}

	_, bob, err := relay.JoinRoom("c2", "ABC123", "Bob", "es")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if bob.State.IsAdmin() {
		t.Error("joiner must not be admin")
	}
	if room.MemberCount() != 2 {
		t.Errorf("member count = %d, want 2", room.MemberCount())
	}

	if _, _, err := relay.JoinRoom("c2", "NOPE", "Bob", "es"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRelay_MaxPlayersClamped(t *testing.T) {
	relay := relayFixture()
	bindConn(relay, "c1")

	room, _, err := relay.CreateRoom("c1", "HUGE", "Alice", "en", 100000)
	if err != nil {
		t.Fatal(err)
	}
	if room.Settings().MaxPlayers != domain.MaxRoomPlayers {
		t.Errorf("maxPlayers = %d, want clamp to %d", room.Settings().MaxPlayers, domain.MaxRoomPlayers)
	}

	bindConn(relay, "c2")
	room2, _, err := relay.CreateRoom("c2", "DEFAULT", "Bob", "en", 0)
	if err != nil {
		t.Fatal(err)
	}
	if room2.Settings().MaxPlayers != 50 {
		t.Errorf("maxPlayers = %d, want default 50", room2.Settings().MaxPlayers)
	}
}

func TestRelay_LeavePromotesAndKeepsRoom(t *testing.T) {
	relay := relayFixture()
	bindConn(relay, "c1")
	bindConn(relay, "c2")
	if _, _, err := relay.CreateRoom("c1", "ABC123", "Alice", "en", 0); err != nil {
		t.Fatal(err)
	}
	if _, _, err := relay.JoinRoom("c2", "ABC123", "Bob", "es"); err != nil {
		t.Fatal(err)
	}

	res, ok := relay.LeaveRoom("c1")
	if !ok {
		t.Fatal("leave should succeed")
	}
	if res.Promoted == nil || res.Promoted.State.GameTag != "Bob" {
		t.Error("Bob should be promoted when Alice leaves")
	}

	res2, ok := relay.LeaveRoom("c2")
	if !ok {
		t.Fatal("second leave should succeed")
	}
	if res2.Promoted != nil {
		t.Error("no promotion when the room empties")
	}
	// Empty rooms stay in the store until the reclaimer fires.
	if _, err := relay.Store.Get("ABC123"); err != nil {
		t.Errorf("empty room must not be deleted: %v", err)
	}
}

func TestRelay_DisconnectActsAsLeave(t *testing.T) {
	relay := relayFixture()
	bindConn(relay, "c1")
	bindConn(relay, "c2")
	if _, _, err := relay.CreateRoom("c1", "ABC123", "Alice", "en", 0); err != nil {
		t.Fatal(err)
	}
	room, _, err := relay.JoinRoom("c2", "ABC123", "Bob", "es")
	if err != nil {
		t.Fatal(err)
	}

	res, ok := relay.Disconnect("c2")
	if !ok {
		t.Fatal("disconnect of a joined connection should report a departure")
	}
	if res.Tag != "Bob" {
		t.Errorf("departed tag = %q, want Bob", res.Tag)
	}
	if room.MemberCount() != 1 {
		t.Errorf("member count = %d, want 1", room.MemberCount())
	}
	if _, ok := relay.Registry.Conn("c2"); ok {
		t.Error("disconnect must unbind the registry entry")
	}
}

func TestRelay_UpdatePositionByTag(t *testing.T) {
	relay := relayFixture()
	bindConn(relay, "c1")
	if _, _, err := relay.CreateRoom("c1", "ABC123", "Alice", "en", 0); err != nil {
		t.Fatal(err)
	}

	pos := domain.Position{X: 100, Y: 70, Z: -20}
	room, ok := relay.UpdatePositionByTag("Alice", pos, domain.DimensionNether)
	if !ok {
		t.Fatal("Alice should be found")
	}
	v, _ := room.View("Alice")
	if v.State.Position != pos || v.State.Dimension != domain.DimensionNether {
		t.Errorf("position not applied: %+v", v.State)
	}

	if _, ok := relay.UpdatePositionByTag("Ghost", pos, domain.DimensionOverworld); ok {
		t.Error("unknown tag should not be found")
	}
}

func TestRelay_TouchRefreshesActivity(t *testing.T) {
	relay := relayFixture()
	bindConn(relay, "c1")
	room, _, err := relay.CreateRoom("c1", "ABC123", "Alice", "en", 0)
	if err != nil {
		t.Fatal(err)
	}

	later := time.Now().Add(time.Hour)
	relay.Now = func() time.Time { return later }
	relay.Touch("c1")
	if !room.LastActivity().Equal(later) {
		t.Errorf("lastActivity = %v, want %v", room.LastActivity(), later)
	}
}
