package physics

import (
	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/vmath"
)

// MakeContact runs the exact AABB overlap test on a broad-phase candidate
// pair and computes the contact if the bodies touch. boundsA and boundsB
// must be the bodies' current post-integration bounds.
//
// The contact normal is the axis of minimum penetration; an exact tie
// resolves to the vertical axis so "landed on top" always wins over
// "pushed from side". Edge contact (zero overlap distance) produces a
// zero-penetration contact, which keeps resting bodies grounded without
// positional churn.
func MakeContact(
	eA, eB core.Entity,
	boundsA, boundsB vmath.AABB,
	bodyA, bodyB *component.PhysicsBody,
) (Contact, bool) {
	if !bodyA.Interacts(bodyB) {
		return Contact{}, false
	}

	ox, oy := boundsA.Overlap(boundsB)
	if ox < 0 || oy < 0 {
		return Contact{}, false
	}

	c := Contact{A: eA, B: eB}

	// Tie resolves vertical
	if oy <= ox {
		c.Penetration = oy
		if boundsA.Center().Y <= boundsB.Center().Y {
			c.Normal = vmath.Vec2{Y: 1} // B below A (Y grows downward)
		} else {
			c.Normal = vmath.Vec2{Y: -1}
		}
	} else {
		c.Penetration = ox
		if boundsA.Center().X <= boundsB.Center().X {
			c.Normal = vmath.Vec2{X: 1}
		} else {
			c.Normal = vmath.Vec2{X: -1}
		}
	}

	c.NormalVel = bodyB.Velocity.Sub(bodyA.Velocity).Dot(c.Normal)
	return c, true
}
