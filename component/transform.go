package component

import "github.com/lixenwraith/sim2d/vmath"

// Transform holds per-entity spatial state. Position and rotation are
// written by the integrator; authoring code sets the initial placement.
type Transform struct {
	Position vmath.Vec2
	Rotation float64 // Radians
	Scale    vmath.Vec2
}

// NewTransform returns a transform at the given position with unit scale.
func NewTransform(x, y float64) Transform {
	return Transform{
		Position: vmath.Vec2{X: x, Y: y},
		Scale:    vmath.Vec2{X: 1, Y: 1},
	}
}
