package component

// PlatformerState is the controller's movement state.
type PlatformerState uint8

const (
	StateAirborne PlatformerState = iota
	StateGrounded
)

// Platformer is the per-entity state for the platformer controller:
// tuning constants set at attach time plus the running jump timers.
type Platformer struct {
	MoveSpeed float64 // Max horizontal speed, world units/sec
	JumpSpeed float64 // Upward launch speed on jump
	Friction  float64 // Per-second horizontal decay factor when idle

	// CoyoteTime is how long after leaving ground a jump is still honored.
	// JumpBufferTime is how early before landing a jump input is kept.
	CoyoteTime     float64
	JumpBufferTime float64

	State PlatformerState

	// CoyoteTimer counts down from CoyoteTime after leaving ground.
	// BufferTimer counts down from JumpBufferTime after a jump press.
	// A jump consumes and resets both.
	CoyoteTimer float64
	BufferTimer float64
}
