package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

// fakeConn records frames instead of writing to a socket.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func modFixture(t *testing.T) (*Moderation, *core.Room, *core.SessionRegistry) {
	t.Helper()
	reg := core.NewSessionRegistry()
	room := core.NewRoom("MOD", domain.Settings{MaxPlayers: 10, ProximityRadius: 50, AllowTranslation: true}, time.Now())
	for i, tag := range []domain.GameTag{"Admin", "Bob", "Carol"} {
		conn := &fakeConn{}
		cid := core.ClientID([]string{"c1", "c2", "c3"}[i])
		reg.BindConn(cid, conn, nil)
		if _, err := room.Join(tag, "en", conn, time.Now()); err != nil {
			t.Fatalf("join %s: %v", tag, err)
		}
		reg.BindRoom(cid, room.Code(), tag)
	}
	return NewModeration(reg), room, reg
}

func TestModeration_NonAdminRejected(t *testing.T) {
	m, room, _ := modFixture(t)

	if _, err := m.MuteAll(room, "Bob"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("MuteAll: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := m.ToggleSpeakAll(room, "Bob"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("ToggleSpeakAll: expected ErrPermissionDenied, got %v", err)
	}
	if err := m.CloseRoom(room, "Bob"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("CloseRoom: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := m.Kick(room, "Bob", "Carol"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("Kick: expected ErrPermissionDenied, got %v", err)
	}
	if err := m.Unban(room, "Bob", "Carol"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("Unban: expected ErrPermissionDenied, got %v", err)
	}
}

func TestModeration_MuteAll(t *testing.T) {
	m, room, _ := modFixture(t)

	muted, err := m.MuteAll(room, "Admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(muted) != 2 {
		t.Fatalf("muted %d, want 2", len(muted))
	}
	admin, _ := room.View("Admin")
	if admin.State.Muted {
		t.Error("mute-all must not touch the admin's own session")
	}
}

func TestModeration_ToggleSpeakAll(t *testing.T) {
	m, room, _ := modFixture(t)

	on, err := m.ToggleSpeakAll(room, "Admin")
	if err != nil || !on {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", on, err)
	}
	off, err := m.ToggleSpeakAll(room, "Admin")
	if err != nil || off {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", off, err)
	}
}

func TestModeration_KickBansAndRemoves(t *testing.T) {
	m, room, reg := modFixture(t)

	res, err := m.Kick(room, "Admin", "Bob")
	if err != nil {
		t.Fatalf("unexpected kick error: %v", err)
	}
	if res.Target.State.GameTag != "Bob" {
		t.Errorf("kicked %q, want Bob", res.Target.State.GameTag)
	}
	if !res.HasCID {
		t.Error("kick should resolve the target's connection")
	}
	if !room.IsBanned("Bob") {
		t.Error("kick must add the target to the ban list")
	}
	if _, ok := room.View("Bob"); ok {
		t.Error("kicked player must be removed from the room")
	}
	if _, _, ok := reg.RoomOf(res.CID); ok {
		t.Error("kicked player's registry room binding must be cleared")
	}

	// The ban holds until an explicit unban.
	if _, err := room.Join("Bob", "en", &fakeConn{}, time.Now()); !errors.Is(err, domain.ErrBanned) {
		t.Errorf("rejoin after kick: expected ErrBanned, got %v", err)
	}
	if err := m.Unban(room, "Admin", "Bob"); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if _, err := room.Join("Bob", "en", &fakeConn{}, time.Now()); err != nil {
		t.Errorf("rejoin after unban should succeed, got %v", err)
	}
}

func TestModeration_KickMissingPlayer(t *testing.T) {
	m, room, _ := modFixture(t)
	if _, err := m.Kick(room, "Admin", "Ghost"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestModeration_CannotKickAdmin(t *testing.T) {
	m, room, _ := modFixture(t)
	if _, err := m.Kick(room, "Admin", "Admin"); !errors.Is(err, domain.ErrCannotKickAdmin) {
		t.Errorf("expected ErrCannotKickAdmin, got %v", err)
	}
	if room.IsBanned("Admin") {
		t.Error("failed kick must not ban")
	}
}

func TestModeration_UnbanNotBanned(t *testing.T) {
	m, room, _ := modFixture(t)
	if err := m.Unban(room, "Admin", "Carol"); !errors.Is(err, domain.ErrNotBanned) {
		t.Errorf("expected ErrNotBanned, got %v", err)
	}
}

func TestModeration_CloseRoom(t *testing.T) {
	m, room, _ := modFixture(t)
	if err := m.CloseRoom(room, "Admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !room.IsClosed() {
		t.Error("room must be closed")
	}
	if room.MemberCount() != 3 {
		t.Errorf("close must not evict, count = %d", room.MemberCount())
	}
}
