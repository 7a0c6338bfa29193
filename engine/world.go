package engine

import (
	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/event"
)

// World owns all entity and component state. The component set is
// closed: new behaviors are new systems over these stores, not new
// subclasses.
//
// Concurrency contract: exactly one simulation tick executes at a time
// and only the loop's execution context mutates the world. That removes
// any need for per-store locking; integration completing before
// collision queries is an ordering guarantee, not a locking one.
type World struct {
	nextEntityID core.Entity
	alive        map[core.Entity]bool

	Transforms  *Store[component.Transform]
	Bodies      *Store[component.PhysicsBody]
	Controllers *Store[component.Platformer]
	Sprites     *Store[component.Sprite]

	// frame is the current tick's output sink, set by the loop for the
	// duration of a frame. Nil outside a frame; emits are dropped then.
	frame *event.Frame
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		nextEntityID: 1,
		alive:        make(map[core.Entity]bool, 256),
		Transforms:   NewStore[component.Transform](),
		Bodies:       NewStore[component.PhysicsBody](),
		Controllers:  NewStore[component.Platformer](),
		Sprites:      NewStore[component.Sprite](),
	}
}

// Create reserves a new entity ID. IDs are stable for the entity's
// lifetime and reused only through the pool's explicit release path.
func (w *World) Create() core.Entity {
	id := w.nextEntityID
	w.nextEntityID++
	w.alive[id] = true
	return id
}

// Destroy removes an entity and all of its components. Component state
// is fully reset here, so a recycled slot can never leak data into its
// next occupant.
func (w *World) Destroy(e core.Entity) {
	if !w.alive[e] {
		return
	}
	w.alive[e] = false
	w.Transforms.Remove(e)
	w.Bodies.Remove(e)
	w.Controllers.Remove(e)
	w.Sprites.Remove(e)
}

// Recycle marks a previously destroyed entity ID alive again without
// allocating a new one. Only the entity pool calls this.
func (w *World) Recycle(e core.Entity) {
	w.alive[e] = true
}

// Alive reports whether the entity currently exists.
func (w *World) Alive(e core.Entity) bool {
	return w.alive[e]
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	n := 0
	for _, ok := range w.alive {
		if ok {
			n++
		}
	}
	return n
}

// Clear removes all entities and components. Used on scene unload,
// which only ever happens between ticks.
func (w *World) Clear() {
	w.nextEntityID = 1
	clear(w.alive)
	w.Transforms.Clear()
	w.Bodies.Clear()
	w.Controllers.Clear()
	w.Sprites.Clear()
}

// SetFrame wires the current tick's output sink. The loop sets it at
// frame start and clears it after publish.
func (w *World) SetFrame(f *event.Frame) {
	w.frame = f
}

// EmitAudio queues an audio trigger on the current frame's output.
// Hot path for systems; a nil sink outside a frame drops the event.
func (w *World) EmitAudio(e core.Entity, kind event.AudioKind) {
	if w.frame == nil {
		return
	}
	w.frame.Audio = append(w.frame.Audio, event.AudioTrigger{Entity: e, Kind: kind})
}

// EmitOverlap queues a trigger overlap pair on the current frame.
func (w *World) EmitOverlap(trigger, other core.Entity) {
	if w.frame == nil {
		return
	}
	w.frame.Overlaps = append(w.frame.Overlaps, event.OverlapPair{Trigger: trigger, Other: other})
}
