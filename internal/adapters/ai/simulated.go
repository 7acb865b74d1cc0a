// Package ai provides stand-in translation and text-to-speech backends.
// Real providers plug in behind the same core interfaces.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/craftvoice/relay/internal/core"
	"github.com/craftvoice/relay/internal/domain"
)

// SimulatedTranslator prefixes the text with the target language tag
// after a short artificial delay.
type SimulatedTranslator struct {
	Delay time.Duration
}

func NewSimulatedTranslator() *SimulatedTranslator {
	return &SimulatedTranslator{Delay: 200 * time.Millisecond}
}

func (t *SimulatedTranslator) Translate(ctx context.Context, text string, from, to domain.Language) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(t.Delay):
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(to)), text), nil
}

// SimulatedSynthesizer fabricates an audio clip describing the request.
type SimulatedSynthesizer struct {
	Delay time.Duration
}

func NewSimulatedSynthesizer() *SimulatedSynthesizer {
	return &SimulatedSynthesizer{Delay: 150 * time.Millisecond}
}

func (s *SimulatedSynthesizer) Synthesize(ctx context.Context, text string, lang domain.Language) (core.AudioClip, error) {
	select {
	case <-ctx.Done():
		return core.AudioClip{}, ctx.Err()
	case <-time.After(s.Delay):
	}
	return core.AudioClip{
		Data:   fmt.Sprintf("Simulated audio for: %q in %s", text, lang),
		Format: "mp3",
	}, nil
}
