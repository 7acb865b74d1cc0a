package domain

const (
	MinRoomPlayers = 2
	MaxRoomPlayers = 200
)

// Settings are fixed at room creation.
type Settings struct {
	MaxPlayers       int
	ProximityRadius  float64
	AllowTranslation bool
}

// ClampMaxPlayers keeps a client-supplied capacity inside the allowed range,
// falling back to def when the client sent nothing.
func ClampMaxPlayers(requested, def int) int {
	if requested == 0 {
		return def
	}
	if requested < MinRoomPlayers {
		return MinRoomPlayers
	}
	if requested > MaxRoomPlayers {
		return MaxRoomPlayers
	}
	return requested
}
