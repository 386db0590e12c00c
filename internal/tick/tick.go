// Package tick provides cheap periodic triggers for benchmark hot loops.
//
// The driver uses them to emit progress lines without putting a
// time.Ticker select, or even a clock read, in every loop iteration:
//   - Batch: reads the clock once every N calls, single goroutine
//   - Atomic: reads runtime.nanotime on every call, safe to share
package tick

// Ticker signals when a time interval has elapsed.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset starts a new interval from now.
	Reset()
}
