package signal

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

type noticeMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type taggedMsg struct {
	Type    string         `json:"type"`
	GameTag domain.GameTag `json:"gameTag"`
}

func (ctl *Controller) handleMuteAll(cid core.ClientID, c core.SignalConnection) {
	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		return
	}
	muted, err := ctl.Moderation.MuteAll(room, member.State.GameTag)
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	for _, m := range muted {
		ctl.sendJSON(m.Conn, noticeMsg{
			Type:    "admin_muted",
			Message: "You have been muted by admin",
		})
	}
}

func (ctl *Controller) handleSpeakAll(cid core.ClientID, c core.SignalConnection) {
	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		return
	}
	enabled, err := ctl.Moderation.ToggleSpeakAll(room, member.State.GameTag)
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	ctl.sendJSON(c, struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}{
		Type:    "speak_all_toggled",
		Enabled: enabled,
	})
}

func (ctl *Controller) handleCloseRoom(cid core.ClientID, c core.SignalConnection) {
	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		ctl.sendError(c, domain.ErrRoomNotFound)
		return
	}
	if err := ctl.Moderation.CloseRoom(room, member.State.GameTag); err != nil {
		ctl.sendError(c, err)
		return
	}

	ctl.broadcastRoom(room, struct {
		Type     string          `json:"type"`
		RoomCode domain.RoomCode `json:"roomCode"`
		IsClosed bool            `json:"isClosed"`
		Message  string          `json:"message"`
	}{
		Type:     "room_status_update",
		RoomCode: room.Code(),
		IsClosed: true,
		Message:  "This room is now closed for new joins.",
	})
	ctl.sendJSON(c, noticeMsg{Type: "success", Message: "Room closed for new joins."})
}

func (ctl *Controller) handleKickPlayer(cid core.ClientID, c core.SignalConnection, data []byte) {
	var p struct {
		RoomCode      string `json:"roomCode"`
		TargetGameTag string `json:"targetGameTag"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad kick_player payload")
		return
	}

	room, err := ctl.Relay.Store.Get(domain.RoomCode(p.RoomCode))
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	_, actor, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		ctl.sendError(c, domain.ErrPermissionDenied)
		return
	}
	target := domain.GameTag(p.TargetGameTag)
	// Self-kick is rejected here before the controller sees it.
	if target == actor.State.GameTag {
		ctl.sendError(c, domain.ErrCannotKickAdmin)
		return
	}

	res, err := ctl.Moderation.Kick(room, actor.State.GameTag, target)
	if err != nil {
		ctl.sendError(c, err)
		return
	}

	ctl.sendJSON(res.Target.Conn, noticeMsg{
		Type:    "kicked_from_room",
		Message: fmt.Sprintf("You were kicked by %s.", actor.State.GameTag),
	})
	if res.Target.Conn != nil {
		res.Target.Conn.Close()
	}
	if res.HasCID {
		ctl.Relay.Registry.Cancel(res.CID)
		ctl.Relay.Registry.Unbind(res.CID)
	}

	ctl.broadcastRoom(room, taggedMsg{Type: "player_left", GameTag: target})
	ctl.broadcastRoom(room, taggedMsg{Type: "player_banned", GameTag: target})
}

func (ctl *Controller) handleUnbanPlayer(cid core.ClientID, c core.SignalConnection, data []byte) {
	var p struct {
		RoomCode      string `json:"roomCode"`
		TargetGameTag string `json:"targetGameTag"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad unban_player payload")
		return
	}

	room, err := ctl.Relay.Store.Get(domain.RoomCode(p.RoomCode))
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	_, actor, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		ctl.sendError(c, domain.ErrPermissionDenied)
		return
	}

	target := domain.GameTag(p.TargetGameTag)
	if err := ctl.Moderation.Unban(room, actor.State.GameTag, target); err != nil {
		ctl.sendError(c, err)
		return
	}

	ctl.broadcastRoom(room, taggedMsg{Type: "player_unbanned", GameTag: target})
	ctl.sendJSON(c, noticeMsg{Type: "success", Message: fmt.Sprintf("%s unbanned.", target)})
}
