package input

// Snapshot is the per-frame view of logical input, already debounced by
// the platform layer. The core samples it once per render frame; raw
// event handling never happens inside the simulation.
type Snapshot struct {
	// MoveX is the horizontal axis in [-1, 1].
	MoveX float64

	// Jump is true on the frame a jump was requested.
	Jump bool
}
