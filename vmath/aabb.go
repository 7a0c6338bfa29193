package vmath

// AABB is an axis-aligned bounding box. Min is the top-left corner,
// Max the bottom-right (Y grows downward).
type AABB struct {
	Min, Max Vec2
}

// AABBFromCenter builds a box of the given size centered on c.
func AABBFromCenter(c Vec2, size Vec2) AABB {
	half := size.Scale(0.5)
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// AABBFromTopLeft builds a box from its top-left corner and size.
func AABBFromTopLeft(tl Vec2, size Vec2) AABB {
	return AABB{Min: tl, Max: tl.Add(size)}
}

func (a AABB) Width() float64 {
	return a.Max.X - a.Min.X
}

func (a AABB) Height() float64 {
	return a.Max.Y - a.Min.Y
}

func (a AABB) Center() Vec2 {
	return Vec2{(a.Min.X + a.Max.X) * 0.5, (a.Min.Y + a.Max.Y) * 0.5}
}

// Overlaps reports whether the two boxes intersect. Edge contact
// (zero overlap distance) does not count as an intersection, so bodies
// resting exactly on a surface generate no contact churn.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y
}

// Overlap returns the per-axis overlap distances. Both are positive
// only when the boxes actually intersect.
func (a AABB) Overlap(b AABB) (ox, oy float64) {
	ox = min(a.Max.X, b.Max.X) - max(a.Min.X, b.Min.X)
	oy = min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	return ox, oy
}

// Valid reports whether the box has positive area and finite bounds.
// Degenerate boxes are rejected before narrow-phase math ever sees them.
func (a AABB) Valid() bool {
	return a.Min.IsFinite() && a.Max.IsFinite() &&
		a.Max.X > a.Min.X && a.Max.Y > a.Min.Y
}
