// Package domain contains entities without logic, just meta-data.
package domain

import "time"

type (
	GameTag  string
	Language string
	RoomCode string
)

// Role marks admin authority on a session. Transitions happen only through
// room join (first member) and admin succession on leave.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Session is the per-participant state a room owns. The transport endpoint
// lives next to it in the core layer, never here.
type Session struct {
	GameTag    GameTag
	Language   Language
	Position   Position
	Dimension  Dimension
	Role       Role
	Muted      bool
	Deaf       bool
	SpeakToAll bool
	JoinedAt   time.Time
}

// NewSession avoids raw literals in adapters and keeps construction obvious.
func NewSession(tag GameTag, lang Language, role Role, now time.Time) *Session {
	return &Session{
		GameTag:   tag,
		Language:  lang,
		Position:  SpawnPosition(),
		Dimension: DimensionOverworld,
		Role:      role,
		JoinedAt:  now,
	}
}

func (s *Session) IsAdmin() bool { return s.Role == RoleAdmin }
