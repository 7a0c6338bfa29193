package engine

import (
	"math"

	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/vmath"
)

type cellKey struct {
	cx, cy int32
}

type gridEntry struct {
	entity        core.Entity
	bounds        vmath.AABB
	layer         uint32
	noSelfCollide bool
}

// SpatialGrid is the broad phase: a sparse uniform grid mapping
// world-space cells to the bodies overlapping them. It is cleared and
// fully repopulated once per sub-step from current AABBs — O(n), and
// always consistent before any query runs (rebuild-before-query, never
// after). Cell backing slices are retained across rebuilds so the
// steady state does not allocate.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int32
	entries  []gridEntry

	// Scratch state reused across calls
	pairSeen  map[uint64]struct{}
	querySeen map[core.Entity]struct{}
}

// NewSpatialGrid creates a grid with the given cell size. Cell size is
// tuned so most bodies span 1–4 cells; too small multiplies cells per
// body, too large degrades toward an O(n²) single cell.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize:  cellSize,
		cells:     make(map[cellKey][]int32, 256),
		entries:   make([]gridEntry, 0, 256),
		pairSeen:  make(map[uint64]struct{}, 256),
		querySeen: make(map[core.Entity]struct{}, 64),
	}
}

func (g *SpatialGrid) coord(v float64) int32 {
	return int32(math.Floor(v / g.cellSize))
}

// Clear empties all cells, retaining capacity. Call before repopulating
// each sub-step.
func (g *SpatialGrid) Clear() {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	g.entries = g.entries[:0]
}

// Insert registers a body's current bounds in every cell its AABB
// overlaps. Insertion order determines pair order, which keeps candidate
// generation deterministic for a given spawn order.
func (g *SpatialGrid) Insert(e core.Entity, bounds vmath.AABB, layer uint32, noSelfCollide bool) {
	idx := int32(len(g.entries))
	g.entries = append(g.entries, gridEntry{
		entity:        e,
		bounds:        bounds,
		layer:         layer,
		noSelfCollide: noSelfCollide,
	})

	x0, x1 := g.coord(bounds.Min.X), g.coord(bounds.Max.X)
	y0, y1 := g.coord(bounds.Min.Y), g.coord(bounds.Max.Y)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			k := cellKey{cx, cy}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
}

// Query calls fn for every body whose cells intersect the given AABB.
// The result is a superset of true overlaps: the narrow phase rejects
// the false positives, never the reverse.
func (g *SpatialGrid) Query(bounds vmath.AABB, fn func(core.Entity)) {
	clear(g.querySeen)
	x0, x1 := g.coord(bounds.Min.X), g.coord(bounds.Max.X)
	y0, y1 := g.coord(bounds.Min.Y), g.coord(bounds.Max.Y)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, idx := range g.cells[cellKey{cx, cy}] {
				e := g.entries[idx].entity
				if _, seen := g.querySeen[e]; seen {
					continue
				}
				g.querySeen[e] = struct{}{}
				fn(e)
			}
		}
	}
}

// Pairs calls fn once per deduplicated candidate pair. The first
// argument is always the earlier-inserted body. Pairs where both sides
// share a layer and opt out of self-collision are skipped here as an
// optimization; the layer/mask filter in the narrow phase stays
// authoritative.
func (g *SpatialGrid) Pairs(fn func(a, b core.Entity)) {
	clear(g.pairSeen)
	for i := range g.entries {
		self := &g.entries[i]
		x0, x1 := g.coord(self.bounds.Min.X), g.coord(self.bounds.Max.X)
		y0, y1 := g.coord(self.bounds.Min.Y), g.coord(self.bounds.Max.Y)
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				for _, idx := range g.cells[cellKey{cx, cy}] {
					if idx >= int32(i) {
						continue // Only earlier-inserted partners
					}
					other := &g.entries[idx]
					if self.noSelfCollide && other.noSelfCollide && self.layer == other.layer {
						continue
					}
					key := uint64(idx)<<32 | uint64(uint32(i))
					if _, seen := g.pairSeen[key]; seen {
						continue
					}
					g.pairSeen[key] = struct{}{}
					fn(other.entity, self.entity)
				}
			}
		}
	}
}

// CellSize returns the configured cell edge length.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of bodies currently indexed.
func (g *SpatialGrid) Len() int {
	return len(g.entries)
}
