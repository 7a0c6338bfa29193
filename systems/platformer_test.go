package systems

import (
	"testing"

	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/engine"
	"github.com/lixenwraith/sim2d/event"
	"github.com/lixenwraith/sim2d/input"
	"github.com/lixenwraith/sim2d/vmath"
)

const testDT = 1.0 / 60

type stubInput struct {
	snap input.Snapshot
}

func (s *stubInput) Input() input.Snapshot { return s.snap }

type controllerFixture struct {
	world  *engine.World
	source *stubInput
	system *PlatformerSystem
	frame  *event.Frame
	entity core.Entity
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	world := engine.NewWorld()
	source := &stubInput{}
	frame := event.AcquireFrame()
	t.Cleanup(func() { event.ReleaseFrame(frame) })
	world.SetFrame(frame)

	e := world.Create()
	world.Transforms.Set(e, component.NewTransform(0, 0))
	world.Bodies.Set(e, component.PhysicsBody{
		Size:    vmath.Vec2{X: 16, Y: 24},
		Kind:    component.BodyDynamic,
		Layer:   2,
		Mask:    1,
		InvMass: 1,
	})
	world.Controllers.Set(e, component.Platformer{
		MoveSpeed:      120,
		JumpSpeed:      300,
		Friction:       8,
		CoyoteTime:     0.1,
		JumpBufferTime: 0.1,
	})

	return &controllerFixture{
		world:  world,
		source: source,
		system: NewPlatformerSystem(world, source, zap.NewNop()),
		frame:  frame,
		entity: e,
	}
}

func (f *controllerFixture) body() *component.PhysicsBody {
	b, _ := f.world.Bodies.Get(f.entity)
	return b
}

func (f *controllerFixture) ctrl() *component.Platformer {
	c, _ := f.world.Controllers.Get(f.entity)
	return c
}

func (f *controllerFixture) tick(grounded bool, snap input.Snapshot) {
	f.body().Grounded = grounded
	f.source.snap = snap
	f.system.Update(testDT)
}

func hasAudio(frame *event.Frame, kind event.AudioKind) bool {
	for _, trig := range frame.Audio {
		if trig.Kind == kind {
			return true
		}
	}
	return false
}

func TestGroundedJumpLaunchesImmediately(t *testing.T) {
	f := newControllerFixture(t)

	f.tick(true, input.Snapshot{Jump: true})

	body := f.body()
	if body.Velocity.Y != -300 {
		t.Errorf("expected jump velocity -300, got %g", body.Velocity.Y)
	}
	if body.Grounded {
		t.Error("jump must clear the grounded flag")
	}
	if f.ctrl().State != component.StateAirborne {
		t.Error("jump must transition to airborne")
	}
	if !hasAudio(f.frame, event.AudioJump) {
		t.Error("jump must emit an audio trigger")
	}
}

func TestJumpBufferedInAirExecutesOnLanding(t *testing.T) {
	f := newControllerFixture(t)

	// Fully airborne, past any coyote window: the press must not launch
	f.tick(false, input.Snapshot{Jump: true})
	if f.body().Velocity.Y != 0 {
		t.Fatalf("airborne press must not launch, got velocity %g", f.body().Velocity.Y)
	}

	// A tick later the ground arrives while the buffer is still armed
	f.tick(true, input.Snapshot{})

	if f.body().Velocity.Y != -300 {
		t.Errorf("buffered jump must fire on landing, got velocity %g", f.body().Velocity.Y)
	}
	if f.ctrl().BufferTimer != 0 {
		t.Errorf("jump must consume the buffer, got %g", f.ctrl().BufferTimer)
	}
	if !hasAudio(f.frame, event.AudioLand) {
		t.Error("landing transition must emit an audio trigger")
	}
	if !hasAudio(f.frame, event.AudioJump) {
		t.Error("buffered jump must emit an audio trigger")
	}
}

func TestJumpBufferExpires(t *testing.T) {
	f := newControllerFixture(t)

	f.tick(false, input.Snapshot{Jump: true})

	// Drain the 0.1s buffer while still airborne
	for i := 0; i < 10; i++ {
		f.tick(false, input.Snapshot{})
	}

	f.tick(true, input.Snapshot{})
	if f.body().Velocity.Y != 0 {
		t.Errorf("expired buffer must not launch on landing, got velocity %g", f.body().Velocity.Y)
	}
}

func TestCoyoteJumpWithinWindow(t *testing.T) {
	f := newControllerFixture(t)

	// Establish grounded state, then walk off the ledge
	f.tick(true, input.Snapshot{})
	f.tick(false, input.Snapshot{})
	f.tick(false, input.Snapshot{})

	// Two airborne ticks in, still inside the 0.1s window
	f.tick(false, input.Snapshot{Jump: true})

	if f.body().Velocity.Y != -300 {
		t.Errorf("coyote jump must launch inside the window, got velocity %g", f.body().Velocity.Y)
	}
	if f.ctrl().CoyoteTimer != 0 {
		t.Errorf("jump must consume the coyote window, got %g", f.ctrl().CoyoteTimer)
	}
}

func TestCoyoteJumpExpired(t *testing.T) {
	f := newControllerFixture(t)

	f.tick(true, input.Snapshot{})

	// 0.1s window at 1/60s ticks is 6 ticks; run well past it
	for i := 0; i < 10; i++ {
		f.tick(false, input.Snapshot{})
	}

	f.tick(false, input.Snapshot{Jump: true})
	if f.body().Velocity.Y != 0 {
		t.Errorf("press after coyote expiry must not launch, got velocity %g", f.body().Velocity.Y)
	}
}

func TestMoveInputDrivesAndClampsVelocity(t *testing.T) {
	f := newControllerFixture(t)

	f.tick(true, input.Snapshot{MoveX: 0.5})
	if f.body().Velocity.X != 60 {
		t.Errorf("expected half-axis velocity 60, got %g", f.body().Velocity.X)
	}

	// Out-of-range axis values clamp rather than overdrive
	f.tick(true, input.Snapshot{MoveX: 3})
	if f.body().Velocity.X != 120 {
		t.Errorf("expected clamped velocity 120, got %g", f.body().Velocity.X)
	}

	f.tick(true, input.Snapshot{MoveX: -1})
	if f.body().Velocity.X != -120 {
		t.Errorf("expected full reverse velocity -120, got %g", f.body().Velocity.X)
	}
}

func TestFrictionDecaysToExactZero(t *testing.T) {
	f := newControllerFixture(t)
	f.body().Velocity.X = 120

	prev := f.body().Velocity.X
	for i := 0; i < 600; i++ {
		f.tick(true, input.Snapshot{})
		cur := f.body().Velocity.X
		if cur > prev {
			t.Fatalf("friction must decay monotonically: %g -> %g", prev, cur)
		}
		prev = cur
		if cur == 0 {
			return
		}
	}
	t.Errorf("velocity never snapped to zero, stuck at %g", f.body().Velocity.X)
}

func TestControllerWithoutBodySkipped(t *testing.T) {
	f := newControllerFixture(t)

	orphan := f.world.Create()
	f.world.Controllers.Set(orphan, component.Platformer{MoveSpeed: 50, JumpSpeed: 100})

	// Must not panic and must still drive the healthy entity
	f.tick(true, input.Snapshot{MoveX: 1})
	if f.body().Velocity.X != 120 {
		t.Errorf("healthy entity must still update, got velocity %g", f.body().Velocity.X)
	}
}
