package systems

import (
	"math"

	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/engine"
	"github.com/lixenwraith/sim2d/event"
	"github.com/lixenwraith/sim2d/input"
	"github.com/lixenwraith/sim2d/vmath"
)

// restVelocity is the horizontal speed below which friction snaps the
// body to a full stop, so idle bodies converge to exactly zero.
const restVelocity = 0.5

// InputSource provides the frame's sampled input snapshot.
// engine.Loop implements it.
type InputSource interface {
	Input() input.Snapshot
}

// PlatformerSystem runs the {Airborne, Grounded} state machine for every
// entity carrying a Platformer component: movement from the input axis,
// jumping with buffering and coyote time, and friction decay when idle.
type PlatformerSystem struct {
	world  *engine.World
	source InputSource
	log    *zap.Logger

	scratch []core.Entity
}

// NewPlatformerSystem creates the controller system.
func NewPlatformerSystem(world *engine.World, source InputSource, log *zap.Logger) *PlatformerSystem {
	return &PlatformerSystem{
		world:  world,
		source: source,
		log:    log,
	}
}

// Priority places controllers after the built-in physics phases.
func (s *PlatformerSystem) Priority() int {
	return 100
}

// Update advances every controlled entity by one fixed step. A
// controller entity missing its PhysicsBody is a configuration error:
// reported, excluded from this step, never fatal to the loop.
func (s *PlatformerSystem) Update(dt float64) {
	snap := s.source.Input()

	s.scratch = s.world.Controllers.AppendEntities(s.scratch[:0])
	for _, e := range s.scratch {
		ctrl, _ := s.world.Controllers.Get(e)
		body, ok := s.world.Bodies.Get(e)
		if !ok {
			s.log.Warn("platformer entity has no physics body, excluded this step",
				zap.Uint64("entity", uint64(e)))
			continue
		}
		s.updateEntity(e, ctrl, body, snap, dt)
	}
}

func (s *PlatformerSystem) updateEntity(
	e core.Entity,
	ctrl *component.Platformer,
	body *component.PhysicsBody,
	snap input.Snapshot,
	dt float64,
) {
	// State transitions come from the collision pass that just ran:
	// grounded when a downward-facing contact supports the body,
	// airborne when none did.
	if body.Grounded {
		if ctrl.State == component.StateAirborne {
			s.world.EmitAudio(e, event.AudioLand)
		}
		ctrl.State = component.StateGrounded
		ctrl.CoyoteTimer = ctrl.CoyoteTime
	} else {
		ctrl.State = component.StateAirborne
		ctrl.CoyoteTimer = math.Max(0, ctrl.CoyoteTimer-dt)
	}

	// A fresh press arms the buffer; otherwise it drains every tick.
	if snap.Jump {
		ctrl.BufferTimer = ctrl.JumpBufferTime
	} else {
		ctrl.BufferTimer = math.Max(0, ctrl.BufferTimer-dt)
	}

	// Grounded and coyote are independently sufficient; a jump consumes
	// and resets both timers.
	canJump := ctrl.State == component.StateGrounded || ctrl.CoyoteTimer > 0
	if ctrl.BufferTimer > 0 && canJump {
		body.Velocity.Y = -ctrl.JumpSpeed
		body.Grounded = false
		ctrl.State = component.StateAirborne
		ctrl.BufferTimer = 0
		ctrl.CoyoteTimer = 0
		s.world.EmitAudio(e, event.AudioJump)
	}

	// Horizontal: input drives velocity directly; without input it
	// decays toward zero instead of stopping abruptly.
	if snap.MoveX != 0 {
		body.Velocity.X = vmath.Clamp(snap.MoveX, -1, 1) * ctrl.MoveSpeed
	} else {
		decay := 1 - ctrl.Friction*dt
		if decay < 0 {
			decay = 0
		}
		body.Velocity.X *= decay
		if math.Abs(body.Velocity.X) < restVelocity {
			body.Velocity.X = 0
		}
	}
}
