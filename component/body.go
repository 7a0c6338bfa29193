package component

import "github.com/lixenwraith/sim2d/vmath"

// BodyKind determines how a body participates in the physics step.
type BodyKind uint8

const (
	// BodyStatic never moves. Excluded from integration, infinite mass
	// in resolution.
	BodyStatic BodyKind = iota
	// BodyDynamic is integrated every sub-step and resolved on contact.
	BodyDynamic
	// BodyTrigger generates overlap events without positional response.
	BodyTrigger
)

func (k BodyKind) String() string {
	switch k {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	case BodyTrigger:
		return "trigger"
	}
	return "unknown"
}

// PhysicsBody is the collision and motion state of an entity.
// The collider is an AABB of Size (world units, scaled by the transform)
// centered on the transform position plus Offset.
type PhysicsBody struct {
	Velocity vmath.Vec2

	// Accel accumulates external forces for the next sub-step and is
	// consumed by the integrator. Gravity is not part of it.
	Accel vmath.Vec2

	Size   vmath.Vec2
	Offset vmath.Vec2
	Kind   BodyKind

	// Layer is the bit set this body occupies; Mask selects which layers
	// it wants to collide with. A pair interacts if either side opts in.
	Layer uint32
	Mask  uint32

	// InvMass is 1/mass for dynamic bodies, 0 for static ones.
	// Resolution splits positional correction by inverse-mass share.
	InvMass float64

	// Grounded is recomputed by the collision pass each tick from
	// upward-facing contacts. The integrator and controller read the
	// previous tick's value.
	Grounded bool

	// NoSelfCollide excludes same-layer pairs where both sides set it.
	// Broad-phase optimization only; filtering stays correct without it.
	NoSelfCollide bool
}

// Bounds returns the current world-space AABB for the body under t.
func (b *PhysicsBody) Bounds(t *Transform) vmath.AABB {
	size := vmath.Vec2{X: b.Size.X * t.Scale.X, Y: b.Size.Y * t.Scale.Y}
	return vmath.AABBFromCenter(t.Position.Add(b.Offset), size)
}

// Interacts reports whether the layer/mask filter lets the two bodies
// collide. Either side may opt in.
func (b *PhysicsBody) Interacts(o *PhysicsBody) bool {
	return b.Layer&o.Mask != 0 || o.Layer&b.Mask != 0
}
