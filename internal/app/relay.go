// Package app holds the use-case layer: session lifecycle, moderation,
// and room reclamation. It knows nothing about the wire format; the
// signal adapter composes messages from what these operations return.
package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

// Relay owns join/create/leave/disconnect and position ingestion.
type Relay struct {
	Store    *core.RoomStore
	Registry *core.SessionRegistry
	Defaults domain.Settings
	Now      func() time.Time
}

func NewRelay(store *core.RoomStore, reg *core.SessionRegistry, defaults domain.Settings) *Relay {
	return &Relay{Store: store, Registry: reg, Defaults: defaults, Now: time.Now}
}

// LeaveResult describes a departure so the adapter can broadcast it.
type LeaveResult struct {
	Room     *core.Room
	Tag      domain.GameTag
	Promoted *core.MemberView
}

// CreateRoom makes a new room with the caller as admin. The code comes
// from the client; the store rejects duplicates.
func (r *Relay) CreateRoom(cid core.ClientID, code domain.RoomCode, tag domain.GameTag, lang domain.Language, maxPlayers int) (*core.Room, core.MemberView, error) {
	if res, ok := r.leave(cid); ok {
		log.Warn().Str("module", "app.relay").Str("cid", string(cid)).Str("room", string(res.Room.Code())).Msg("left previous room on create")
	}
	settings := r.Defaults
	settings.MaxPlayers = domain.ClampMaxPlayers(maxPlayers, r.Defaults.MaxPlayers)

	now := r.Now()
	room, err := r.Store.Create(code, settings, now)
	if err != nil {
		return nil, core.MemberView{}, err
	}
	conn, _ := r.Registry.Conn(cid)
	member, err := room.Join(tag, lang, conn, now)
	if err != nil {
		return nil, core.MemberView{}, err
	}
	r.Registry.BindRoom(cid, code, tag)
	return room, member, nil
}

// JoinRoom admits the caller into an existing room.
func (r *Relay) JoinRoom(cid core.ClientID, code domain.RoomCode, tag domain.GameTag, lang domain.Language) (*core.Room, core.MemberView, error) {
	room, err := r.Store.Get(code)
	if err != nil {
		return nil, core.MemberView{}, err
	}
	if res, ok := r.leave(cid); ok {
		log.Warn().Str("module", "app.relay").Str("cid", string(cid)).Str("room", string(res.Room.Code())).Msg("left previous room on join")
	}
	conn, _ := r.Registry.Conn(cid)
	member, err := room.Join(tag, lang, conn, r.Now())
	if err != nil {
		return nil, core.MemberView{}, err
	}
	r.Registry.BindRoom(cid, code, tag)
	return room, member, nil
}

// LeaveRoom removes the caller from its room. The connection stays open.
func (r *Relay) LeaveRoom(cid core.ClientID) (LeaveResult, bool) {
	return r.leave(cid)
}

// Disconnect is transport-level loss, treated identically to an
// explicit leave for state cleanup, plus registry teardown.
func (r *Relay) Disconnect(cid core.ClientID) (LeaveResult, bool) {
	res, ok := r.leave(cid)
	r.Registry.Unbind(cid)
	return res, ok
}

func (r *Relay) leave(cid core.ClientID) (LeaveResult, bool) {
	code, tag, ok := r.Registry.RoomOf(cid)
	if !ok {
		return LeaveResult{}, false
	}
	room, err := r.Store.Get(code)
	if err != nil {
		r.Registry.ClearRoom(cid)
		return LeaveResult{}, false
	}
	promoted, left := room.Leave(tag)
	room.Touch(r.Now())
	r.Registry.ClearRoom(cid)
	if !left {
		return LeaveResult{}, false
	}
	return LeaveResult{Room: room, Tag: tag, Promoted: promoted}, true
}

// RoomOf resolves the caller's room and member view for dispatch.
func (r *Relay) RoomOf(cid core.ClientID) (*core.Room, core.MemberView, bool) {
	code, tag, ok := r.Registry.RoomOf(cid)
	if !ok {
		return nil, core.MemberView{}, false
	}
	room, err := r.Store.Get(code)
	if err != nil {
		return nil, core.MemberView{}, false
	}
	member, ok := room.View(tag)
	if !ok {
		return nil, core.MemberView{}, false
	}
	return room, member, ok
}

// Touch updates the owning room's activity clock for any room-scoped
// message, before it is dispatched.
func (r *Relay) Touch(cid core.ClientID) {
	code, _, ok := r.Registry.RoomOf(cid)
	if !ok {
		return
	}
	if room, err := r.Store.Get(code); err == nil {
		room.Touch(r.Now())
	}
}

// UpdatePositionByTag moves a player found by tag across all rooms.
// Used by the addon bridge, which has no connection of its own.
func (r *Relay) UpdatePositionByTag(tag domain.GameTag, pos domain.Position, dim domain.Dimension) (*core.Room, bool) {
	for _, room := range r.Store.List() {
		if room.UpdatePosition(tag, pos, dim) {
			room.Touch(r.Now())
			return room, true
		}
	}
	return nil, false
}
