package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	ping := time.NewTicker(ctl.pingPeriod())
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping failed")
				return
			}
		}
	}
}

func (ctl *Controller) pingPeriod() time.Duration {
	if ctl.PingPeriod > 0 {
		return ctl.PingPeriod
	}
	return 54 * time.Second
}

func (ctl *Controller) readPump(ctx context.Context, cid core.ClientID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		ctl.handleDisconnect(cid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.Dispatch(cid, c, data)
		}
	}
}

// Dispatch classifies one inbound message and hands it to its handler.
// Any room-scoped message refreshes the room's activity clock first.
// Unknown types and malformed payloads are logged and dropped; they
// never surface an error to the sender and never close the connection.
func (ctl *Controller) Dispatch(cid core.ClientID, c core.SignalConnection, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	ctl.Relay.Touch(cid)

	switch env.Type {
	case "create_room":
		ctl.handleCreateRoom(cid, c, data)
	case "join_room":
		ctl.handleJoinRoom(cid, c, data)
	case "leave_room":
		ctl.handleLeaveRoom(cid)
	case "audio_data":
		ctl.handleAudioData(cid, data)
	case "position_update":
		ctl.handlePositionUpdate(cid, data)
	case "voice_activity":
		ctl.handleVoiceActivity(cid, data)
	case "admin_mute_all":
		ctl.handleMuteAll(cid, c)
	case "admin_speak_all":
		ctl.handleSpeakAll(cid, c)
	case "close_room":
		ctl.handleCloseRoom(cid, c)
	case "kick_player":
		ctl.handleKickPlayer(cid, c, data)
	case "unban_player":
		ctl.handleUnbanPlayer(cid, c, data)
	case "translation_request":
		ctl.handleTranslationRequest(cid, c, data)
	case "tts_message":
		ctl.handleTtsMessage(cid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown message type")
	}
}

func (ctl *Controller) sendJSON(c core.SignalConnection, v any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c core.SignalConnection, err error) {
	ctl.sendJSON(c, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{
		Type:    "error",
		Message: err.Error(),
	})
}

// broadcastRoom fans a message out to every member except the listed
// tags. Delivery to each member is independent.
func (ctl *Controller) broadcastRoom(room *core.Room, v any, except ...domain.GameTag) {
	skip := make(map[domain.GameTag]struct{}, len(except))
	for _, t := range except {
		skip[t] = struct{}{}
	}
	for _, m := range room.Views() {
		if _, ok := skip[m.State.GameTag]; ok {
			continue
		}
		ctl.sendJSON(m.Conn, v)
	}
}
