package physics

import (
	"github.com/lixenwraith/sim2d/component"
)

// Resolve applies positional correction and velocity response for one
// contact. Correction splits proportionally to inverse mass, so a static
// body (InvMass 0) absorbs nothing and the dynamic side moves the full
// penetration. Approaching normal velocity is removed without
// restitution; separating pairs keep their velocity.
//
// Contacts resolve sequentially within a tick, and an earlier contact may
// have already moved or slowed these bodies (a box landing on the seam
// between two floor tiles carries one contact per tile). Penetration and
// approach velocity are therefore recomputed from current state here; the
// values cached on the Contact are the narrow-phase snapshot and feed the
// event payload only.
//
// Trigger bodies must not reach this function; the caller routes them to
// overlap events instead.
func Resolve(
	c *Contact,
	transA, transB *component.Transform,
	bodyA, bodyB *component.PhysicsBody,
) {
	invSum := bodyA.InvMass + bodyB.InvMass
	if invSum <= 0 {
		return // Two static bodies, nothing to move
	}

	ox, oy := bodyA.Bounds(transA).Overlap(bodyB.Bounds(transB))
	if ox < 0 || oy < 0 {
		return // An earlier contact this tick separated the pair
	}
	pen := oy
	if c.Normal.Y == 0 {
		pen = ox
	}
	if pen > 0 {
		shareA := bodyA.InvMass / invSum
		shareB := bodyB.InvMass / invSum
		transA.Position = transA.Position.Sub(c.Normal.Scale(pen * shareA))
		transB.Position = transB.Position.Add(c.Normal.Scale(pen * shareB))
	}

	normalVel := bodyB.Velocity.Sub(bodyA.Velocity).Dot(c.Normal)
	if normalVel < 0 {
		impulse := -normalVel / invSum
		bodyA.Velocity = bodyA.Velocity.Sub(c.Normal.Scale(impulse * bodyA.InvMass))
		bodyB.Velocity = bodyB.Velocity.Add(c.Normal.Scale(impulse * bodyB.InvMass))
	}
}

// MarkGrounded sets the grounded flag on whichever side of the contact
// is a dynamic body resting on top of the other (contact normal pointing
// up into the body). Y grows downward, so "other body below A" means
// Normal.Y > 0.
func MarkGrounded(c *Contact, bodyA, bodyB *component.PhysicsBody) {
	if bodyA.Kind == component.BodyDynamic && c.Normal.Y > 0 {
		bodyA.Grounded = true
	}
	if bodyB.Kind == component.BodyDynamic && c.Normal.Y < 0 {
		bodyB.Grounded = true
	}
}
