package domain

import "math"

// Dimension is a coarse world partition. Players in different dimensions
// never hear each other regardless of distance.
type Dimension string

const (
	DimensionOverworld Dimension = "overworld"
	DimensionNether    Dimension = "nether"
	DimensionEnd       Dimension = "end"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// SpawnPosition is where a session starts before the first position update.
func SpawnPosition() Position {
	return Position{X: 0, Y: 64, Z: 0}
}
