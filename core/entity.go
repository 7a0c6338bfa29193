package core

// Entity is a unique identifier for a simulated object.
// The zero value means "no entity" and is never allocated.
type Entity uint64

// NoEntity is the sentinel for an absent entity reference.
const NoEntity Entity = 0
