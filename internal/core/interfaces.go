package core

import (
	"context"

	"github.com/craftvoice/relay/internal/domain"
)

// Frame is a serialized outbound message.
type Frame []byte

// ClientID identifies one connection for the lifetime of the process.
type ClientID string

// SignalConnection abstracts the per-participant message transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Member binds a session's state to its transport endpoint.
// This is what a room stores; it is only touched under the room lock.
type Member struct {
	State *domain.Session
	Conn  SignalConnection
}

func (m *Member) view() MemberView {
	return MemberView{State: *m.State, Conn: m.Conn}
}

// MemberView is a value copy of a member taken under the room lock.
// Safe to read from fan-out goroutines without further locking.
type MemberView struct {
	State domain.Session
	Conn  SignalConnection
}

// PlayerDTO is a read-only view for wire snapshots (no transport fields).
type PlayerDTO struct {
	GameTag   domain.GameTag   `json:"gameTag"`
	Language  domain.Language  `json:"language"`
	Position  domain.Position  `json:"position"`
	Dimension domain.Dimension `json:"dimension"`
	IsAdmin   bool             `json:"isAdmin"`
}

// Translator converts text between languages. External capability:
// the relay only decides whether a call is needed.
type Translator interface {
	Translate(ctx context.Context, text string, from, to domain.Language) (string, error)
}

// AudioClip is an opaque synthesized voice payload.
type AudioClip struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// Synthesizer turns text into a voice clip. External capability.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang domain.Language) (AudioClip, error)
}

// AddonBridge is the out-of-band channel to the in-game addon.
// Commands are forwarded opaquely, never interpreted here.
type AddonBridge interface {
	SendCommand(tag domain.GameTag, command string, data map[string]any)
}
