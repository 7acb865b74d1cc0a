package core

import "github.com/craftvoice/relay/internal/domain"

// Delivery is one recipient of a proximity event, with the attenuation
// and translation decision already made.
type Delivery struct {
	Target    MemberView
	Distance  float64
	Volume    float64
	Translate bool
}

// ProximityRouter computes who hears a given event and at what volume.
// Gates, in order: deafness, dimension (absolute, distance cannot
// override it), then distance against the room radius. Speak-to-all
// bypasses only the distance gate: a target admitted by the override
// still gets volume max(0, 1 - d/radius), which may be zero. The
// override affects reachability, not perceived loudness.
type ProximityRouter struct{}

func (ProximityRouter) Route(room *Room, sender domain.Session) []Delivery {
	radius := room.Settings().ProximityRadius
	translate := room.Settings().AllowTranslation

	var out []Delivery
	for _, m := range room.Views() {
		t := m.State
		if t.GameTag == sender.GameTag || t.Deaf {
			continue
		}
		if t.Dimension != sender.Dimension {
			continue
		}
		d := sender.Position.DistanceTo(t.Position)
		if d > radius && !sender.SpeakToAll {
			continue
		}
		out = append(out, Delivery{
			Target:    m,
			Distance:  d,
			Volume:    Attenuation(d, radius),
			Translate: translate && sender.Language != t.Language,
		})
	}
	return out
}

// Attenuation maps distance to a volume scalar in [0,1].
func Attenuation(distance, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	v := 1 - distance/radius
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
