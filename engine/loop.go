package engine

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/asset"
	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/config"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/event"
	"github.com/lixenwraith/sim2d/input"
	"github.com/lixenwraith/sim2d/physics"
	"github.com/lixenwraith/sim2d/vmath"
)

// Loop is the simulation context: it owns the world, broad phase, pool,
// and behavior systems, and steps them on a fixed timestep driven by
// wall-clock frame time (accumulator pattern). One Loop value per
// running scene; construct at scene load, Reset at scene unload. There
// is no process-wide singleton.
//
// Per-tick order is a correctness contract: integration must complete
// before the index rebuild and collision queries so contacts reflect
// post-move positions, and controllers run after collision so grounded
// state is current.
type Loop struct {
	world    *World
	grid     *SpatialGrid
	pool     *EntityPool
	log      *zap.Logger
	resolver asset.Resolver

	systems []System

	tick     float64
	maxSteps int
	gravity  float64
	maxSpeed float64

	accumulator float64
	in          input.Snapshot

	// pendingJump latches a jump press sampled on a frame that ran no
	// sub-step, so the press survives until a tick consumes it.
	pendingJump bool

	// Scratch buffers reused across ticks
	bodyScratch []core.Entity
	contacts    []physics.Contact
	renderOrder []core.Entity
}

// NewLoop constructs a simulation context from a validated config.
func NewLoop(cfg config.Config, log *zap.Logger) *Loop {
	world := NewWorld()
	return &Loop{
		world:    world,
		grid:     NewSpatialGrid(cfg.Simulation.CellSize),
		pool:     NewEntityPool(world, cfg.Pool.Capacity, log),
		log:      log,
		tick:     cfg.Simulation.Tick.Duration.Seconds(),
		maxSteps: cfg.Simulation.MaxSubSteps,
		gravity:  cfg.Simulation.Gravity,
		maxSpeed: cfg.Simulation.MaxSpeed,
	}
}

// World returns the entity store. Mutate it only between frames or from
// systems running inside a tick.
func (l *Loop) World() *World { return l.world }

// Pool returns the transient-entity pool.
func (l *Loop) Pool() *EntityPool { return l.pool }

// Grid returns the broad-phase index. Valid for queries after a step.
func (l *Loop) Grid() *SpatialGrid { return l.grid }

// Tick returns the fixed step length in seconds.
func (l *Loop) Tick() float64 { return l.tick }

// Input returns the snapshot sampled for the current frame.
func (l *Loop) Input() input.Snapshot { return l.in }

// SetResolver wires the asset boundary used at publish time.
func (l *Loop) SetResolver(r asset.Resolver) { l.resolver = r }

// AddSystem registers a behavior system, kept sorted by priority.
func (l *Loop) AddSystem(system System) {
	l.systems = append(l.systems, system)

	// Sort by priority (bubble sort, small N)
	for i := 0; i < len(l.systems)-1; i++ {
		for j := 0; j < len(l.systems)-i-1; j++ {
			if l.systems[j].Priority() > l.systems[j+1].Priority() {
				l.systems[j], l.systems[j+1] = l.systems[j+1], l.systems[j]
			}
		}
	}
}

// Frame advances the simulation by one render frame: the input snapshot
// is sampled once, elapsed wall-clock time feeds the accumulator, and
// whole fixed ticks run until the accumulator drains or the sub-step
// cap is reached. Leftover time below one tick carries into the next
// frame; when the cap is hit the remainder is discarded rather than
// simulated. After stepping, render state is published into out from
// the final sub-step state.
//
// Returns the number of fixed steps executed.
func (l *Loop) Frame(snap input.Snapshot, elapsed time.Duration, out *event.Frame) int {
	l.in = snap
	l.in.Jump = l.in.Jump || l.pendingJump
	l.world.SetFrame(out)
	defer l.world.SetFrame(nil)

	if elapsed > 0 {
		l.accumulator += elapsed.Seconds()
	}

	steps := 0
	for l.accumulator >= l.tick && steps < l.maxSteps {
		l.step(l.tick)
		l.accumulator -= l.tick
		steps++
	}
	// Edge inputs on a frame below one tick would otherwise be
	// overwritten by the next snapshot before any system sees them
	l.pendingJump = steps == 0 && l.in.Jump
	if l.accumulator >= l.tick {
		l.log.Debug("sub-step cap reached, discarding accumulated time",
			zap.Float64("discarded_sec", l.accumulator),
			zap.Int("steps", steps))
		l.accumulator = 0
	}

	l.publish(out)
	return steps
}

// step runs one fixed sub-step: integrate, rebuild index, narrow phase,
// resolution, then behavior systems.
func (l *Loop) step(dt float64) {
	l.bodyScratch = l.world.Bodies.AppendEntities(l.bodyScratch[:0])

	// Integration: gravity and accumulated forces into velocity, velocity
	// into position. Grounded state is last tick's collision result.
	for _, e := range l.bodyScratch {
		body, _ := l.world.Bodies.Get(e)
		trans, ok := l.world.Transforms.Get(e)
		if !ok {
			l.log.Warn("physics body without transform, excluded this step",
				zap.Uint64("entity", uint64(e)))
			continue
		}
		if !physics.Integrate(trans, body, l.gravity, l.maxSpeed, dt) {
			l.log.Warn("non-finite integration result, velocity reset",
				zap.Uint64("entity", uint64(e)))
		}
	}

	// Broad phase: full rebuild from post-integration bounds, always
	// before any query. Degenerate colliders are a per-entity
	// configuration error, not a division by zero later.
	l.grid.Clear()
	for _, e := range l.bodyScratch {
		body, _ := l.world.Bodies.Get(e)
		trans, ok := l.world.Transforms.Get(e)
		if !ok {
			continue
		}
		bounds := body.Bounds(trans)
		if !bounds.Valid() {
			l.log.Warn("invalid collider bounds, body excluded this step",
				zap.Uint64("entity", uint64(e)),
				zap.Float64("w", bounds.Width()),
				zap.Float64("h", bounds.Height()))
			continue
		}
		l.grid.Insert(e, bounds, body.Layer, body.NoSelfCollide)
	}

	// Narrow phase on candidate pairs
	l.contacts = l.contacts[:0]
	l.grid.Pairs(func(a, b core.Entity) {
		bodyA, _ := l.world.Bodies.Get(a)
		bodyB, _ := l.world.Bodies.Get(b)
		if bodyA.Kind == component.BodyStatic && bodyB.Kind == component.BodyStatic {
			return
		}
		transA, _ := l.world.Transforms.Get(a)
		transB, _ := l.world.Transforms.Get(b)
		c, ok := physics.MakeContact(a, b, bodyA.Bounds(transA), bodyB.Bounds(transB), bodyA, bodyB)
		if ok {
			l.contacts = append(l.contacts, c)
		}
	})

	// Grounded is recomputed every step from this step's contacts
	for _, e := range l.bodyScratch {
		if body, ok := l.world.Bodies.Get(e); ok {
			body.Grounded = false
		}
	}

	// Resolution and event emission. Triggers produce overlap events
	// only and are excluded from positional correction entirely.
	for i := range l.contacts {
		c := &l.contacts[i]
		bodyA, _ := l.world.Bodies.Get(c.A)
		bodyB, _ := l.world.Bodies.Get(c.B)

		if bodyA.Kind == component.BodyTrigger || bodyB.Kind == component.BodyTrigger {
			if bodyA.Kind == component.BodyTrigger {
				l.world.EmitOverlap(c.A, c.B)
			}
			if bodyB.Kind == component.BodyTrigger {
				l.world.EmitOverlap(c.B, c.A)
			}
			continue
		}

		transA, _ := l.world.Transforms.Get(c.A)
		transB, _ := l.world.Transforms.Get(c.B)
		physics.Resolve(c, transA, transB, bodyA, bodyB)
		physics.MarkGrounded(c, bodyA, bodyB)

		if l.world.frame != nil {
			l.world.frame.Contacts = append(l.world.frame.Contacts, event.ContactEvent{
				A:           c.A,
				B:           c.B,
				Normal:      c.Normal,
				Penetration: c.Penetration,
			})
		}
	}

	// Behavior systems, in priority order, with current grounded state
	for _, system := range l.systems {
		system.Update(dt)
	}
}

// publish emits the render list from the final sub-step state, ordered
// by entity id. Entities whose asset is still pending are skipped for
// this frame and retried next frame; failed assets are reported once
// and the entity publishes without a visual.
func (l *Loop) publish(out *event.Frame) {
	l.renderOrder = l.world.Transforms.AppendEntities(l.renderOrder[:0])
	slices.Sort(l.renderOrder)

	for _, e := range l.renderOrder {
		trans, _ := l.world.Transforms.Get(e)
		item := event.RenderItem{Entity: e, Transform: *trans}

		if body, ok := l.world.Bodies.Get(e); ok {
			item.Size = vmath.Vec2{
				X: body.Size.X * trans.Scale.X,
				Y: body.Size.Y * trans.Scale.Y,
			}
		}

		if sprite, ok := l.world.Sprites.Get(e); ok && l.resolver != nil && sprite.AssetRef != "" {
			handle, state := l.resolver.Resolve(sprite.AssetRef)
			switch state {
			case asset.StatePending:
				continue
			case asset.StateFailed:
				if !sprite.FailureLogged {
					l.log.Warn("asset resolution failed, entity has no visual",
						zap.Uint64("entity", uint64(e)),
						zap.String("ref", sprite.AssetRef))
					sprite.FailureLogged = true
				}
			case asset.StateReady:
				item.Handle = handle
			}
		}

		out.Render = append(out.Render, item)
	}
}

// Reset tears the scene down: all entities, the index, and accumulated
// time are cleared. Only call between frames, never mid-tick.
func (l *Loop) Reset() {
	l.world.Clear()
	l.grid.Clear()
	l.accumulator = 0
	l.in = input.Snapshot{}
	l.pendingJump = false
}
