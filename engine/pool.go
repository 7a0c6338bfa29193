package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/core"
)

type poolSlot struct {
	id     core.Entity
	active bool
}

// EntityPool is a fixed-capacity slot allocator for short-lived entities
// (projectiles, particles, effects). Capacity is set at construction and
// never grows — growth would defeat the allocation-free guarantee. A
// full pool rejects new spawns; it never evicts live, visible entities.
//
// Invariants: an active slot's entity is always present in the world,
// and an id is never handed out twice before being released.
type EntityPool struct {
	world *World
	log   *zap.Logger

	slots []poolSlot
	free  []int
	index map[core.Entity]int
}

// NewEntityPool creates a pool of the given capacity over the world.
func NewEntityPool(world *World, capacity int, log *zap.Logger) *EntityPool {
	p := &EntityPool{
		world: world,
		log:   log,
		slots: make([]poolSlot, capacity),
		free:  make([]int, 0, capacity),
		index: make(map[core.Entity]int, capacity),
	}
	// Free list starts full; slots mint their entity id on first use
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Acquire returns a fresh pooled entity, or ErrPoolExhausted when no
// free slot exists. Callers handle rejection (e.g. drop the particle
// request); acquire never panics on exhaustion.
func (p *EntityPool) Acquire() (core.Entity, error) {
	if len(p.free) == 0 {
		return core.NoEntity, ErrPoolExhausted
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	slot := &p.slots[idx]
	if slot.id == core.NoEntity {
		slot.id = p.world.Create()
		p.index[slot.id] = idx
	} else {
		p.world.Recycle(slot.id)
	}
	slot.active = true
	return slot.id, nil
}

// Release returns an entity to the pool. All component state is removed
// from the world first, so the next occupant of the slot starts from
// defaults with no leakage. Releasing an entity the pool does not own,
// or releasing twice, is an invariant violation: loud in debug builds,
// a logged no-op in release builds.
func (p *EntityPool) Release(e core.Entity) {
	idx, ok := p.index[e]
	if !ok {
		invariant(p.log, "release of entity not owned by pool",
			zap.Uint64("entity", uint64(e)))
		return
	}
	slot := &p.slots[idx]
	if !slot.active {
		invariant(p.log, "double release of pooled entity",
			zap.Uint64("entity", uint64(e)))
		return
	}

	p.world.Destroy(e)
	slot.active = false
	p.free = append(p.free, idx)
}

// Active returns the number of slots currently handed out.
func (p *EntityPool) Active() int {
	return len(p.slots) - len(p.free)
}

// Capacity returns the fixed slot count.
func (p *EntityPool) Capacity() int {
	return len(p.slots)
}

// Owns reports whether the entity came from this pool.
func (p *EntityPool) Owns(e core.Entity) bool {
	_, ok := p.index[e]
	return ok
}
