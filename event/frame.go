package event

import (
	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/vmath"
)

// AudioKind identifies a triggered sound for the audio boundary.
type AudioKind uint8

const (
	AudioJump AudioKind = iota
	AudioLand
	AudioSpawn
)

// AudioTrigger is a per-tick audio event for one entity.
type AudioTrigger struct {
	Entity core.Entity
	Kind   AudioKind
}

// ContactEvent mirrors a resolved narrow-phase contact for consumers
// outside the core. Normal points from A toward B.
type ContactEvent struct {
	A, B        core.Entity
	Normal      vmath.Vec2
	Penetration float64
}

// OverlapPair reports a trigger body overlapping another body this tick.
type OverlapPair struct {
	Trigger core.Entity
	Other   core.Entity
}

// RenderItem is one entry of the per-frame render publish list.
// Handle carries the resolved asset for entities whose sprite is ready;
// it is nil for entities without a visual representation.
type RenderItem struct {
	Entity    core.Entity
	Transform component.Transform
	Size      vmath.Vec2 // Collider extents for debug drawing, zero if bodiless
	Handle    any
}

// Frame collects everything one render frame publishes: the render list,
// the tick's contacts, trigger overlaps, and audio triggers. Callers
// drain it after Loop.Frame returns; systems never invoke callbacks
// mid-mutation.
type Frame struct {
	Render   []RenderItem
	Contacts []ContactEvent
	Overlaps []OverlapPair
	Audio    []AudioTrigger
}

// Reset truncates all lists, retaining capacity.
func (f *Frame) Reset() {
	f.Render = f.Render[:0]
	f.Contacts = f.Contacts[:0]
	f.Overlaps = f.Overlaps[:0]
	f.Audio = f.Audio[:0]
}
