package engine

import "errors"

// ErrPoolExhausted is returned by EntityPool.Acquire when no free slot
// exists. Callers drop the spawn request; exhaustion is never fatal.
var ErrPoolExhausted = errors.New("entity pool exhausted")
