package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/domain"
)

// Room is a threadsafe in-memory room. Membership keeps join order so
// admin succession is deterministic: the earliest still-present member
// is promoted when the admin leaves. All session mutation happens under
// the room lock; readers get value copies (MemberView), so fan-out can
// run without holding the lock. The room never closes adapter-owned
// transport resources.
type Room struct {
	mu sync.RWMutex

	code     domain.RoomCode
	owner    domain.GameTag
	members  map[domain.GameTag]*Member
	order    []domain.GameTag
	banned   map[domain.GameTag]struct{}
	closed   bool
	settings domain.Settings

	created      time.Time
	lastActivity time.Time
}

func NewRoom(code domain.RoomCode, settings domain.Settings, now time.Time) *Room {
	return &Room{
		code:         code,
		members:      make(map[domain.GameTag]*Member),
		banned:       make(map[domain.GameTag]struct{}),
		settings:     settings,
		created:      now,
		lastActivity: now,
	}
}

func (r *Room) Code() domain.RoomCode     { return r.code }
func (r *Room) Settings() domain.Settings { return r.settings }
func (r *Room) Created() time.Time        { return r.created }

func (r *Room) Owner() domain.GameTag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Room) LastActivity() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastActivity
}

// Touch records activity. Every room-scoped inbound message touches the
// room before dispatch; the reclaimer only deletes rooms that stayed
// untouched while empty.
func (r *Room) Touch(now time.Time) {
	r.mu.Lock()
	r.lastActivity = now
	r.mu.Unlock()
}

// Join admits a new member. The first member becomes admin and owner.
func (r *Room) Join(tag domain.GameTag, lang domain.Language, conn SignalConnection, now time.Time) (MemberView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return MemberView{}, domain.ErrRoomClosed
	}
	if _, ok := r.members[tag]; ok {
		return MemberView{}, domain.ErrGameTagConflict
	}
	if _, ok := r.banned[tag]; ok {
		return MemberView{}, domain.ErrBanned
	}
	if len(r.members) >= r.settings.MaxPlayers {
		return MemberView{}, domain.ErrRoomFull
	}

	role := domain.RoleMember
	if len(r.members) == 0 {
		role = domain.RoleAdmin
		r.owner = tag
	}
	m := &Member{State: domain.NewSession(tag, lang, role, now), Conn: conn}
	r.members[tag] = m
	r.order = append(r.order, tag)
	r.lastActivity = now
	log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("tag", string(tag)).Str("role", string(role)).Msg("member joined")
	return m.view(), nil
}

// Leave removes a member. If the admin left and members remain, the
// earliest still-present member is promoted and returned. An empty room
// is never deleted here; it becomes a reclamation candidate.
func (r *Room) Leave(tag domain.GameTag) (promoted *MemberView, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[tag]; !ok {
		return nil, false
	}
	delete(r.members, tag)
	r.dropOrder(tag)

	if r.owner == tag && len(r.order) > 0 {
		next := r.order[0]
		m := r.members[next]
		m.State.Role = domain.RoleAdmin
		r.owner = next
		v := m.view()
		promoted = &v
		log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("tag", string(next)).Msg("admin promoted")
	}
	log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("tag", string(tag)).Int("remaining", len(r.members)).Msg("member left")
	return promoted, true
}

func (r *Room) dropOrder(tag domain.GameTag) {
	for i, t := range r.order {
		if t == tag {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// Close forbids new joins. Current members stay; close is monotonic
// until the reclaimer eventually deletes the room.
func (r *Room) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	log.Info().Str("module", "core.room").Str("room", string(r.code)).Msg("room closed for new joins")
}

// Ban adds the tag to the ban list. It does not remove a live member;
// kick semantics (remove + notify + close conn) belong to moderation.
func (r *Room) Ban(tag domain.GameTag) {
	r.mu.Lock()
	r.banned[tag] = struct{}{}
	r.mu.Unlock()
}

func (r *Room) Unban(tag domain.GameTag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.banned[tag]; !ok {
		return domain.ErrNotBanned
	}
	delete(r.banned, tag)
	return nil
}

func (r *Room) IsBanned(tag domain.GameTag) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.banned[tag]
	return ok
}

// UpdatePosition moves a member. Last write wins; a newer update may
// overtake an older one during translation latency and that is fine.
func (r *Room) UpdatePosition(tag domain.GameTag, pos domain.Position, dim domain.Dimension) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[tag]
	if !ok {
		return false
	}
	m.State.Position = pos
	m.State.Dimension = dim
	return true
}

// MuteAllExcept mutes every member but the given one and returns views
// of the muted members for notification. Idempotent.
func (r *Room) MuteAllExcept(admin domain.GameTag) []MemberView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MemberView, 0, len(r.order))
	for _, tag := range r.order {
		if tag == admin {
			continue
		}
		m := r.members[tag]
		m.State.Muted = true
		out = append(out, m.view())
	}
	return out
}

// SetDeaf flips a member's deafness flag.
func (r *Room) SetDeaf(tag domain.GameTag, deaf bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[tag]
	if !ok {
		return false
	}
	m.State.Deaf = deaf
	return true
}

// ToggleSpeakAll flips the member's speak-to-all override and reports
// the new value.
func (r *Room) ToggleSpeakAll(tag domain.GameTag) (enabled, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, found := r.members[tag]
	if !found {
		return false, false
	}
	m.State.SpeakToAll = !m.State.SpeakToAll
	return m.State.SpeakToAll, true
}

func (r *Room) View(tag domain.GameTag) (MemberView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[tag]
	if !ok {
		return MemberView{}, false
	}
	return m.view(), true
}

// Views returns value copies of the membership in join order.
func (r *Room) Views() []MemberView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberView, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.members[tag].view())
	}
	return out
}

func (r *Room) MembersSnapshot() []PlayerDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PlayerDTO, 0, len(r.order))
	for _, tag := range r.order {
		s := r.members[tag].State
		out = append(out, PlayerDTO{
			GameTag:   s.GameTag,
			Language:  s.Language,
			Position:  s.Position,
			Dimension: s.Dimension,
			IsAdmin:   s.IsAdmin(),
		})
	}
	return out
}

func (r *Room) BannedSnapshot() []domain.GameTag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.GameTag, 0, len(r.banned))
	for tag := range r.banned {
		out = append(out, tag)
	}
	return out
}
