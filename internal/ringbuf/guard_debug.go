//go:build ringbuf_debug

package ringbuf

import "sync/atomic"

// guard panics when two goroutines are inside the same side of a shared
// buffer at once. It costs a CAS per operation, so it is only compiled in
// with -tags ringbuf_debug.
type guard struct {
	active atomic.Uint32
}

func (g *guard) enter(op string) {
	if !g.active.CompareAndSwap(0, 1) {
		panic("ringbuf: concurrent " + op + " on SPSC buffer - only one goroutine per side allowed")
	}
}

func (g *guard) exit() {
	g.active.Store(0)
}
