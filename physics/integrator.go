package physics

import (
	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/vmath"
)

// Integrate advances one dynamic body by a fixed sub-step using
// semi-implicit Euler: velocity first, then position from the new
// velocity. Gravity is skipped while the body rests on a surface
// detected by the previous step's collision pass.
//
// Returns false when the step produced a non-finite position or
// velocity; the body is restored to its pre-step position with zero
// velocity so a transient extreme force self-corrects instead of
// removing the body. The caller logs the event.
func Integrate(t *component.Transform, b *component.PhysicsBody, gravity, maxSpeed, dt float64) bool {
	if b.Kind != component.BodyDynamic {
		return true
	}

	prev := t.Position

	if !b.Grounded {
		b.Velocity.Y += gravity * dt
	}
	b.Velocity = b.Velocity.Add(b.Accel.Scale(dt))
	b.Accel = vmath.Vec2{}

	b.Velocity = b.Velocity.ClampLength(maxSpeed)
	t.Position = t.Position.Add(b.Velocity.Scale(dt))

	if !t.Position.IsFinite() || !b.Velocity.IsFinite() {
		t.Position = prev
		b.Velocity = vmath.Vec2{}
		return false
	}
	return true
}
