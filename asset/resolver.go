package asset

// State describes the readiness of a referenced asset.
type State uint8

const (
	// StatePending means the asset is still loading. The referencing
	// entity's render publish is skipped this frame and retried next.
	StatePending State = iota
	// StateReady means the handle is usable.
	StateReady
	// StateFailed means the load failed permanently. The entity proceeds
	// without a visual; physics and collision still apply.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Handle is a resolved, ready-to-use asset. Data is loader-owned and
// immutable once the handle is ready.
type Handle struct {
	Ref  string
	Data any
}

// Resolver translates opaque scene-description asset references into
// engine handles. Resolve never blocks; unresolved assets report
// StatePending until a background load completes.
type Resolver interface {
	Resolve(ref string) (Handle, State)
}
