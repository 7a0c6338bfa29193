package engine

import (
	"github.com/lixenwraith/sim2d/core"
)

// Store is a container for a specific component type T. Sparse set
// pattern: a map for lookup plus a dense entity slice for deterministic
// iteration order. Components are heap-allocated once and mutated in
// place through the returned pointer.
//
// Stores are exclusively owned by the game loop's execution context and
// carry no locks; see the concurrency contract on World.
type Store[T any] struct {
	components map[core.Entity]*T
	entities   []core.Entity
}

// NewStore creates a component store for type T.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.Entity]*T, 64),
		entities:   make([]core.Entity, 0, 64),
	}
}

// Set inserts or replaces the component for an entity and returns a
// pointer to the stored value.
func (s *Store[T]) Set(e core.Entity, val T) *T {
	if existing, ok := s.components[e]; ok {
		*existing = val
		return existing
	}
	p := new(T)
	*p = val
	s.components[e] = p
	s.entities = append(s.entities, e)
	return p
}

// Get returns the component pointer for an entity.
func (s *Store[T]) Get(e core.Entity) (*T, bool) {
	p, ok := s.components[e]
	return p, ok
}

// Has checks if the entity has this component.
func (s *Store[T]) Has(e core.Entity) bool {
	_, ok := s.components[e]
	return ok
}

// Remove deletes the component from an entity. Swap-remove keeps the
// entity slice dense; relative order of other entities may change.
func (s *Store[T]) Remove(e core.Entity) {
	if _, ok := s.components[e]; !ok {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities[i] = s.entities[len(s.entities)-1]
			s.entities = s.entities[:len(s.entities)-1]
			break
		}
	}
}

// Entities returns the live entity slice in iteration order.
// Callers must not mutate the store structurally while ranging over it;
// copy with AppendEntities first when the pass spawns or destroys.
func (s *Store[T]) Entities() []core.Entity {
	return s.entities
}

// AppendEntities appends all entities with this component to dst and
// returns it. Reusing dst across ticks keeps the copy allocation-free.
func (s *Store[T]) AppendEntities(dst []core.Entity) []core.Entity {
	return append(dst, s.entities...)
}

// Len returns the number of entities with this component.
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Clear removes all components, retaining capacity.
func (s *Store[T]) Clear() {
	clear(s.components)
	s.entities = s.entities[:0]
}
