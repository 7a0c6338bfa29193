package engine

// System is a behavior module driven once per fixed sub-step, after
// integration and collision have run for that step. dt is the fixed
// tick length in seconds.
type System interface {
	Update(dt float64)
	Priority() int // Lower values run first
}
