package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/app"
	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

type roomStateMsg struct {
	Type          string           `json:"type"`
	RoomCode      domain.RoomCode  `json:"roomCode"`
	IsAdmin       bool             `json:"isAdmin"`
	Players       []core.PlayerDTO `json:"players"`
	BannedPlayers []domain.GameTag `json:"bannedPlayers"`
	IsClosed      bool             `json:"isClosed"`
}

func (ctl *Controller) handleCreateRoom(cid core.ClientID, c core.SignalConnection, data []byte) {
	var p struct {
		RoomCode   string `json:"roomCode"`
		GameTag    string `json:"gameTag"`
		Language   string `json:"language"`
		MaxPlayers int    `json:"maxPlayers"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create_room payload")
		return
	}

	room, member, err := ctl.Relay.CreateRoom(cid, domain.RoomCode(p.RoomCode), domain.GameTag(p.GameTag), domain.Language(p.Language), p.MaxPlayers)
	if err != nil {
		ctl.sendError(c, err)
		return
	}

	ctl.sendJSON(c, roomStateMsg{
		Type:          "room_created",
		RoomCode:      room.Code(),
		IsAdmin:       member.State.IsAdmin(),
		Players:       []core.PlayerDTO{},
		BannedPlayers: []domain.GameTag{},
		IsClosed:      room.IsClosed(),
	})
}

func (ctl *Controller) handleJoinRoom(cid core.ClientID, c core.SignalConnection, data []byte) {
	var p struct {
		RoomCode string `json:"roomCode"`
		GameTag  string `json:"gameTag"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join_room payload")
		return
	}

	tag := domain.GameTag(p.GameTag)
	room, member, err := ctl.Relay.JoinRoom(cid, domain.RoomCode(p.RoomCode), tag, domain.Language(p.Language))
	if err != nil {
		ctl.sendError(c, err)
		return
	}

	ctl.sendJSON(c, roomStateMsg{
		Type:          "joined_room",
		RoomCode:      room.Code(),
		IsAdmin:       member.State.IsAdmin(),
		Players:       room.MembersSnapshot(),
		BannedPlayers: room.BannedSnapshot(),
		IsClosed:      room.IsClosed(),
	})

	ctl.broadcastRoom(room, struct {
		Type   string         `json:"type"`
		Player core.PlayerDTO `json:"player"`
	}{
		Type: "player_joined",
		Player: core.PlayerDTO{
			GameTag:   member.State.GameTag,
			Language:  member.State.Language,
			Position:  member.State.Position,
			Dimension: member.State.Dimension,
			IsAdmin:   member.State.IsAdmin(),
		},
	}, tag)
}

func (ctl *Controller) handleLeaveRoom(cid core.ClientID) {
	res, ok := ctl.Relay.LeaveRoom(cid)
	if !ok {
		return
	}
	ctl.announceDeparture(res)
}

// handleDisconnect runs when the transport drops; identical to an
// explicit leave for state cleanup.
func (ctl *Controller) handleDisconnect(cid core.ClientID) {
	res, ok := ctl.Relay.Disconnect(cid)
	if !ok {
		return
	}
	ctl.announceDeparture(res)
}

func (ctl *Controller) announceDeparture(res app.LeaveResult) {
	ctl.broadcastRoom(res.Room, struct {
		Type    string         `json:"type"`
		GameTag domain.GameTag `json:"gameTag"`
	}{
		Type:    "player_left",
		GameTag: res.Tag,
	})

	if res.Promoted != nil {
		ctl.sendJSON(res.Promoted.Conn, struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{
			Type:    "admin_promoted",
			Message: "You are now the room admin",
		})
	}
}
