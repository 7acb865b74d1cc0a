package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/domain"
)

// RoomStore is the process-wide registry of code → room. Codes are
// supplied by clients; the store never generates them. No persistence:
// its lifetime is the server process.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomCode]*Room)}
}

func (s *RoomStore) Create(code domain.RoomCode, settings domain.Settings, now time.Time) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		return nil, domain.ErrRoomExists
	}
	room := NewRoom(code, settings, now)
	s.rooms[code] = room
	log.Info().Str("module", "core.store").Str("room", string(code)).Int("max_players", settings.MaxPlayers).Msg("room created")
	return room, nil
}

func (s *RoomStore) Get(code domain.RoomCode) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomStore) Delete(code domain.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	log.Info().Str("module", "core.store").Str("room", string(code)).Msg("room deleted")
}

func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// List returns a snapshot of all rooms. Callers iterate without holding
// the store lock, so reclaimer deletions go back through Delete.
func (s *RoomStore) List() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out
}
