package physics

import (
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/vmath"
)

// Contact is a transient per-step collision record. Contacts never
// persist across steps; they are recomputed every tick, so a recycled
// entity slot can never inherit a stale contact.
type Contact struct {
	A, B core.Entity

	// Normal is a unit vector pointing from A toward B, aligned to the
	// axis of minimum penetration.
	Normal vmath.Vec2

	// Penetration is the overlap depth along Normal. Zero for bodies in
	// exact edge contact, which still counts as touching.
	Penetration float64

	// NormalVel is the relative velocity of B with respect to A along
	// Normal at narrow-phase time. Negative values mean the bodies were
	// approaching. Resolution recomputes from current velocities, since
	// an earlier contact in the same tick may have changed them.
	NormalVel float64
}
