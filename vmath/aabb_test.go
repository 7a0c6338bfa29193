package vmath

import (
	"math"
	"testing"
)

func TestAABBOverlapDistances(t *testing.T) {
	a := AABBFromTopLeft(Vec2{0, 0}, Vec2{32, 32})
	b := AABBFromTopLeft(Vec2{24, 28}, Vec2{32, 32})

	ox, oy := a.Overlap(b)
	if ox != 8 {
		t.Errorf("expected x overlap 8, got %g", ox)
	}
	if oy != 4 {
		t.Errorf("expected y overlap 4, got %g", oy)
	}
}

func TestAABBOverlapSeparated(t *testing.T) {
	a := AABBFromTopLeft(Vec2{0, 0}, Vec2{10, 10})
	b := AABBFromTopLeft(Vec2{20, 0}, Vec2{10, 10})

	if a.Overlaps(b) {
		t.Error("separated boxes reported as overlapping")
	}
	ox, _ := a.Overlap(b)
	if ox >= 0 {
		t.Errorf("expected negative x overlap for separated boxes, got %g", ox)
	}
}

func TestAABBEdgeContactIsNotOverlap(t *testing.T) {
	// Touching edges: Overlaps is strict, Overlap distance is exactly 0
	a := AABBFromTopLeft(Vec2{0, 0}, Vec2{10, 10})
	b := AABBFromTopLeft(Vec2{10, 0}, Vec2{10, 10})

	if a.Overlaps(b) {
		t.Error("edge contact must not count as strict overlap")
	}
	ox, oy := a.Overlap(b)
	if ox != 0 {
		t.Errorf("expected zero x overlap at edge contact, got %g", ox)
	}
	if oy != 10 {
		t.Errorf("expected y overlap 10, got %g", oy)
	}
}

func TestAABBValid(t *testing.T) {
	if !AABBFromCenter(Vec2{0, 0}, Vec2{10, 10}).Valid() {
		t.Error("positive-area box reported invalid")
	}
	if (AABB{Min: Vec2{0, 0}, Max: Vec2{0, 10}}).Valid() {
		t.Error("zero-width box reported valid")
	}
	if (AABB{Min: Vec2{math.NaN(), 0}, Max: Vec2{10, 10}}).Valid() {
		t.Error("NaN box reported valid")
	}
}

func TestVec2ClampLength(t *testing.T) {
	v := Vec2{30, 40} // Length 50
	c := v.ClampLength(25)
	if math.Abs(c.Length()-25) > 1e-9 {
		t.Errorf("expected clamped length 25, got %g", c.Length())
	}

	small := Vec2{3, 4}
	if small.ClampLength(25) != small {
		t.Error("vector below the limit must be unchanged")
	}
}

func TestVec2NormalizeZeroSafe(t *testing.T) {
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("normalizing the zero vector must return zero")
	}
}
