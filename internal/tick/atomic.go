package tick

import (
	"sync/atomic"
	"time"
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the runtime's monotonic clock in nanoseconds without
// building a time.Time.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Atomic is a Ticker that may be polled from several goroutines; a CAS on
// the last tick time makes sure only one poller sees each tick.
type Atomic struct {
	interval int64 // nanoseconds
	lastTick atomic.Int64
}

// NewAtomic creates an Atomic ticker with the specified interval.
func NewAtomic(interval time.Duration) *Atomic {
	a := &Atomic{
		interval: int64(interval),
	}
	a.lastTick.Store(nanotime())
	return a
}

// Tick returns true if the interval has elapsed since the last tick.
func (a *Atomic) Tick() bool {
	now := nanotime()
	last := a.lastTick.Load()

	if now-last < a.interval {
		return false
	}
	return a.lastTick.CompareAndSwap(last, now)
}

// Reset starts a new interval from now.
func (a *Atomic) Reset() {
	a.lastTick.Store(nanotime())
}

// Interval returns the ticker's interval.
func (a *Atomic) Interval() time.Duration {
	return time.Duration(a.interval)
}
