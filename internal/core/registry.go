package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/domain"
)

type registryEntry struct {
	Room   domain.RoomCode
	Tag    domain.GameTag
	Conn   SignalConnection
	Cancel context.CancelFunc
}

// SessionRegistry maps a live connection to its session record. It
// references sessions, never owns them; the owning room does.
type SessionRegistry struct {
	mu      sync.RWMutex
	entries map[ClientID]*registryEntry
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{entries: make(map[ClientID]*registryEntry)}
}

// BindConn registers a freshly upgraded connection with no room yet.
func (r *SessionRegistry) BindConn(cid ClientID, conn SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[cid] = &registryEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "core.registry").Str("cid", string(cid)).Msg("bound connection")
}

// BindRoom records which room and tag a connection now speaks for.
func (r *SessionRegistry) BindRoom(cid ClientID, code domain.RoomCode, tag domain.GameTag) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[cid]
	if !ok {
		return false
	}
	e.Room = code
	e.Tag = tag
	log.Info().Str("module", "core.registry").Str("cid", string(cid)).Str("room", string(code)).Str("tag", string(tag)).Msg("bound room")
	return true
}

// ClearRoom drops the room association but keeps the connection bound.
func (r *SessionRegistry) ClearRoom(cid ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[cid]; ok {
		e.Room = ""
		e.Tag = ""
	}
}

func (r *SessionRegistry) Unbind(cid ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, cid)
	log.Info().Str("module", "core.registry").Str("cid", string(cid)).Msg("unbound connection")
}

// RoomOf returns the room code and tag a connection is joined under.
func (r *SessionRegistry) RoomOf(cid ClientID) (domain.RoomCode, domain.GameTag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[cid]
	if !ok || e.Room == "" {
		return "", "", false
	}
	return e.Room, e.Tag, true
}

// Find returns the connection currently speaking for tag in a room.
func (r *SessionRegistry) Find(code domain.RoomCode, tag domain.GameTag) (ClientID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for cid, e := range r.entries {
		if e.Room == code && e.Tag == tag {
			return cid, true
		}
	}
	return "", false
}

func (r *SessionRegistry) Conn(cid ClientID) (SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[cid]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Cancel tears down the connection's pumps, if any.
func (r *SessionRegistry) Cancel(cid ClientID) bool {
	r.mu.RLock()
	e, ok := r.entries[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	return true
}
