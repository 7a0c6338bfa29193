package event

import "sync"

var framePool = sync.Pool{
	New: func() any {
		return &Frame{
			Render:   make([]RenderItem, 0, 256),
			Contacts: make([]ContactEvent, 0, 64),
			Overlaps: make([]OverlapPair, 0, 32),
			Audio:    make([]AudioTrigger, 0, 16),
		}
	},
}

// AcquireFrame returns a pooled, empty frame.
func AcquireFrame() *Frame {
	f := framePool.Get().(*Frame)
	f.Reset()
	return f
}

// ReleaseFrame returns a frame to the pool. Handles are cleared so the
// pool does not pin resolved assets.
func ReleaseFrame(f *Frame) {
	if f == nil {
		return
	}
	for i := range f.Render {
		f.Render[i].Handle = nil
	}
	f.Reset()
	framePool.Put(f)
}
