package asset

import (
	"sync"

	"github.com/lixenwraith/sim2d/core"
)

// LoadFunc produces the data for an asset reference. It runs on a
// background goroutine and may block on I/O.
type LoadFunc func(ref string) (any, error)

type entry struct {
	state  State
	handle Handle
}

// Loader is an asynchronous Resolver. The first Resolve of a reference
// kicks off a background load and reports StatePending; later calls
// observe the published state. The simulation tick never blocks here.
type Loader struct {
	mu      sync.Mutex
	load    LoadFunc
	entries map[string]*entry
}

// NewLoader creates a loader around the given load function.
func NewLoader(load LoadFunc) *Loader {
	return &Loader{
		load:    load,
		entries: make(map[string]*entry),
	}
}

// Resolve implements Resolver.
func (l *Loader) Resolve(ref string) (Handle, State) {
	l.mu.Lock()
	e, ok := l.entries[ref]
	if !ok {
		e = &entry{state: StatePending}
		l.entries[ref] = e
		l.mu.Unlock()
		l.start(ref, e)
		return Handle{}, StatePending
	}
	h, s := e.handle, e.state
	l.mu.Unlock()
	return h, s
}

func (l *Loader) start(ref string, e *entry) {
	core.Go(func() {
		data, err := l.load(ref)

		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			e.state = StateFailed
			return
		}
		e.handle = Handle{Ref: ref, Data: data}
		e.state = StateReady
	})
}

// Preload marks a reference ready with the given data, bypassing the
// load function. Used for built-in assets and tests.
func (l *Loader) Preload(ref string, data any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[ref] = &entry{
		state:  StateReady,
		handle: Handle{Ref: ref, Data: data},
	}
}
