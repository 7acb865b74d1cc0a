package app

import (
	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

// Moderation executes admin-gated operations against a room. Every
// operation rejects non-admin callers with ErrPermissionDenied. Wire
// notifications are composed by the caller from the returned views.
type Moderation struct {
	Registry *core.SessionRegistry
}

func NewModeration(reg *core.SessionRegistry) *Moderation {
	return &Moderation{Registry: reg}
}

func (m *Moderation) requireAdmin(room *core.Room, actor domain.GameTag) error {
	member, ok := room.View(actor)
	if !ok || !member.State.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	return nil
}

// MuteAll mutes every other member and returns them for notification.
// Idempotent; never touches the admin's own session.
func (m *Moderation) MuteAll(room *core.Room, actor domain.GameTag) ([]core.MemberView, error) {
	if err := m.requireAdmin(room, actor); err != nil {
		return nil, err
	}
	muted := room.MuteAllExcept(actor)
	log.Info().Str("module", "app.moderation").Str("room", string(room.Code())).Str("by", string(actor)).Int("muted", len(muted)).Msg("mute all")
	return muted, nil
}

// ToggleSpeakAll flips the admin's own distance-gate override.
func (m *Moderation) ToggleSpeakAll(room *core.Room, actor domain.GameTag) (bool, error) {
	if err := m.requireAdmin(room, actor); err != nil {
		return false, err
	}
	enabled, ok := room.ToggleSpeakAll(actor)
	if !ok {
		return false, domain.ErrPlayerNotFound
	}
	log.Info().Str("module", "app.moderation").Str("room", string(room.Code())).Str("by", string(actor)).Bool("enabled", enabled).Msg("speak-to-all toggled")
	return enabled, nil
}

// CloseRoom marks the room closed for new joins. Nobody is evicted.
func (m *Moderation) CloseRoom(room *core.Room, actor domain.GameTag) error {
	if err := m.requireAdmin(room, actor); err != nil {
		return err
	}
	room.Close()
	return nil
}

// KickResult carries what the adapter needs to finish a kick: notify
// the target, close its connection, and tear down its registry entry.
type KickResult struct {
	Target core.MemberView
	CID    core.ClientID
	HasCID bool
}

// Kick bans the target and removes it from the room. The admin cannot
// be kicked, self-kick included.
func (m *Moderation) Kick(room *core.Room, actor, target domain.GameTag) (KickResult, error) {
	if err := m.requireAdmin(room, actor); err != nil {
		return KickResult{}, err
	}
	victim, ok := room.View(target)
	if !ok {
		return KickResult{}, domain.ErrPlayerNotFound
	}
	if victim.State.IsAdmin() {
		return KickResult{}, domain.ErrCannotKickAdmin
	}

	room.Ban(target)
	room.Leave(target)

	res := KickResult{Target: victim}
	if cid, found := m.Registry.Find(room.Code(), target); found {
		res.CID = cid
		res.HasCID = true
		m.Registry.ClearRoom(cid)
	}
	log.Info().Str("module", "app.moderation").Str("room", string(room.Code())).Str("by", string(actor)).Str("target", string(target)).Msg("player kicked and banned")
	return res, nil
}

// Unban lifts a ban. The target must issue a fresh join; nothing is
// re-admitted automatically.
func (m *Moderation) Unban(room *core.Room, actor, target domain.GameTag) error {
	if err := m.requireAdmin(room, actor); err != nil {
		return err
	}
	if err := room.Unban(target); err != nil {
		return err
	}
	log.Info().Str("module", "app.moderation").Str("room", string(room.Code())).Str("by", string(actor)).Str("target", string(target)).Msg("player unbanned")
	return nil
}
