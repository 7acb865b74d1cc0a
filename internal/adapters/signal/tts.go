package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

func (ctl *Controller) handleTranslationRequest(cid core.ClientID, c core.SignalConnection, data []byte) {
	var p struct {
		Text         string `json:"text"`
		FromLang     string `json:"fromLang"`
		ToLang       string `json:"toLang"`
		TargetPlayer string `json:"targetPlayer,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad translation_request payload")
		return
	}

	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		return
	}
	from := member.State.GameTag

	go func() {
		translated, err := ctl.Translator.Translate(context.Background(), p.Text, domain.Language(p.FromLang), domain.Language(p.ToLang))
		if err != nil {
			log.Warn().Err(err).Str("module", "signal").Msg("translation request failed")
			return
		}

		msg := struct {
			Type           string         `json:"type"`
			OriginalText   string         `json:"originalText"`
			TranslatedText string         `json:"translatedText"`
			FromPlayer     domain.GameTag `json:"fromPlayer,omitempty"`
			FromLang       string         `json:"fromLang"`
			ToLang         string         `json:"toLang"`
		}{
			Type:           "translation",
			OriginalText:   p.Text,
			TranslatedText: translated,
			FromLang:       p.FromLang,
			ToLang:         p.ToLang,
		}

		if p.TargetPlayer != "" {
			target, ok := room.View(domain.GameTag(p.TargetPlayer))
			if !ok {
				return
			}
			msg.FromPlayer = from
			ctl.sendJSON(target.Conn, msg)
			return
		}
		ctl.sendJSON(c, msg)
	}()
}

// handleTtsMessage synthesizes the text in the speaker's voice once,
// then fans it out under the same proximity gates as live audio, with
// per-recipient translation of the caption.
func (ctl *Controller) handleTtsMessage(cid core.ClientID, data []byte) {
	var p struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad tts_message payload")
		return
	}

	room, member, ok := ctl.Relay.RoomOf(cid)
	if !ok {
		return
	}
	sender := member.State
	lang := domain.Language(p.Language)
	log.Info().Str("module", "signal").Str("from", string(sender.GameTag)).Str("text", p.Text).Msg("tts request")

	deliveries := ctl.Router.Route(room, sender)
	if len(deliveries) == 0 {
		return
	}
	allowTranslation := room.Settings().AllowTranslation

	go func() {
		clip, err := ctl.TTS.Synthesize(context.Background(), p.Text, lang)
		if err != nil {
			log.Warn().Err(err).Str("module", "signal").Msg("tts synthesis failed")
			return
		}
		for _, d := range deliveries {
			go ctl.deliverTts(sender, d, p.Text, lang, allowTranslation, clip)
		}
	}()
}

func (ctl *Controller) deliverTts(sender domain.Session, d core.Delivery, text string, lang domain.Language, allowTranslation bool, clip core.AudioClip) {
	finalText := text
	// The caption language follows the message, not the speaker's
	// session language, so the decision is remade here.
	translated := allowTranslation && lang != d.Target.State.Language
	if translated {
		var err error
		finalText, err = ctl.Translator.Translate(context.Background(), text, lang, d.Target.State.Language)
		if err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("target", string(d.Target.State.GameTag)).Msg("tts caption translation failed, delivery dropped")
			return
		}
	}

	ctl.sendJSON(d.Target.Conn, struct {
		Type           string           `json:"type"`
		GameTag        domain.GameTag   `json:"gameTag"`
		AudioData      core.AudioClip   `json:"audioData"`
		TranslatedText string           `json:"translatedText"`
		Position       domain.Position  `json:"position"`
		Dimension      domain.Dimension `json:"dimension"`
		Distance       float64          `json:"distance"`
		Volume         float64          `json:"volume"`
	}{
		Type:           "tts_audio",
		GameTag:        sender.GameTag,
		AudioData:      clip,
		TranslatedText: finalText,
		Position:       sender.Position,
		Dimension:      sender.Dimension,
		Distance:       d.Distance,
		Volume:         d.Volume,
	})

	if translated {
		ctl.Addon.SendCommand(d.Target.State.GameTag, "show_translated_bubble", map[string]any{
			"speaker":    string(sender.GameTag),
			"original":   text,
			"translated": finalText,
		})
	}
}
