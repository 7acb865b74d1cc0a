package signal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

type audioMsg struct {
	Type      string           `json:"type"`
	GameTag   domain.GameTag   `json:"gameTag"`
	AudioData json.RawMessage  `json:"audioData"`
	Position  domain.Position  `json:"position"`
	Dimension domain.Dimension `json:"dimension"`
	Distance  float64          `json:"distance"`
	Volume    float64          `json:"volume"`
}

type translatedAudioMsg struct {
	Type           string           `json:"type"`
	GameTag        domain.GameTag   `json:"gameTag"`
	AudioData      core.AudioClip   `json:"audioData"`
	OriginalText   string           `json:"originalText"`
	TranslatedText string           `json:"translatedText"`
	Position       domain.Position  `json:"position"`
	Dimension      domain.Dimension `json:"dimension"`
	Distance       float64          `json:"distance"`
	Volume         float64          `json:"volume"`
}

// handleAudioData routes a voice payload to everyone in range. The
// payload is opaque; this layer only computes reachability, attenuation
// and the translation decision. Deliveries are independent: a recipient
// whose translation call fails is dropped on its own.
func (ctl *Controller) handleAudioData(cid core.ClientID, data []byte) {
	var p struct {
		AudioData json.RawMessage  `json:"audioData"`
		Position  domain.Position  `json:"position"`
		Dimension domain.Dimension `json:"dimension"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad audio_data payload")
		return
	}

	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok || member.State.Muted {
		return
	}

	room.UpdatePosition(member.State.GameTag, p.Position, p.Dimension)
	sender := member.State
	sender.Position = p.Position
	sender.Dimension = p.Dimension

	// Crude stand-in for speech recognition; a real pipeline would
	// transcribe the audio before translating.
	originalText := fmt.Sprintf("(Simulated Speech from %s in %s)", sender.GameTag, sender.Language)

	for _, d := range ctl.Router.Route(room, sender) {
		if !d.Translate {
			ctl.sendJSON(d.Target.Conn, audioMsg{
				Type:      "audio_data",
				GameTag:   sender.GameTag,
				AudioData: p.AudioData,
				Position:  p.Position,
				Dimension: p.Dimension,
				Distance:  d.Distance,
				Volume:    d.Volume,
			})
			continue
		}
		go ctl.deliverTranslated(sender, d, originalText)
	}
}

// deliverTranslated localizes one recipient's copy of the event. Runs
// in its own goroutine so in-flight capability calls never block other
// recipients or other inbound messages.
func (ctl *Controller) deliverTranslated(sender domain.Session, d core.Delivery, originalText string) {
	ctx := context.Background()
	translated, err := ctl.Translator.Translate(ctx, originalText, sender.Language, d.Target.State.Language)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("target", string(d.Target.State.GameTag)).Msg("translation failed, delivery dropped")
		return
	}
	clip, err := ctl.TTS.Synthesize(ctx, translated, d.Target.State.Language)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("target", string(d.Target.State.GameTag)).Msg("tts failed, delivery dropped")
		return
	}

	ctl.sendJSON(d.Target.Conn, translatedAudioMsg{
		Type:           "translated_audio_data",
		GameTag:        sender.GameTag,
		AudioData:      clip,
		OriginalText:   originalText,
		TranslatedText: translated,
		Position:       sender.Position,
		Dimension:      sender.Dimension,
		Distance:       d.Distance,
		Volume:         d.Volume,
	})

	ctl.Addon.SendCommand(d.Target.State.GameTag, "show_translated_bubble", map[string]any{
		"speaker":    string(sender.GameTag),
		"original":   originalText,
		"translated": translated,
	})
}

func (ctl *Controller) handlePositionUpdate(cid core.ClientID, data []byte) {
	var p struct {
		Position  domain.Position  `json:"position"`
		Dimension domain.Dimension `json:"dimension"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad position_update payload")
		return
	}

	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		return
	}
	room.UpdatePosition(member.State.GameTag, p.Position, p.Dimension)
	ctl.BroadcastPosition(room, member.State.GameTag, p.Position, p.Dimension)
}

// BroadcastPosition tells the rest of the room where a player moved.
// Also used by the addon bridge after out-of-band position ingestion.
func (ctl *Controller) BroadcastPosition(room *core.Room, tag domain.GameTag, pos domain.Position, dim domain.Dimension) {
	ctl.broadcastRoom(room, struct {
		Type      string           `json:"type"`
		GameTag   domain.GameTag   `json:"gameTag"`
		Position  domain.Position  `json:"position"`
		Dimension domain.Dimension `json:"dimension"`
	}{
		Type:      "position_update",
		GameTag:   tag,
		Position:  pos,
		Dimension: dim,
	}, tag)
}

func (ctl *Controller) handleVoiceActivity(cid core.ClientID, data []byte) {
	var p struct {
		Active bool `json:"active"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad voice_activity payload")
		return
	}

	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		return
	}
	tag := member.State.GameTag

	ctl.broadcastRoom(room, struct {
		Type    string         `json:"type"`
		GameTag domain.GameTag `json:"gameTag"`
		Active  bool           `json:"active"`
	}{
		Type:    "voice_activity",
		GameTag: tag,
		Active:  p.Active,
	}, tag)

	ctl.Addon.SendCommand(tag, "player_speaking_status", map[string]any{"active": p.Active})
}
