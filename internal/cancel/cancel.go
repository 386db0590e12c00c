// Package cancel provides the stop signal polled by benchmark hot loops.
//
// A benchmark loop cannot afford a channel select per iteration, so the
// driver bridges its context.Context into a Flag once, up front, and the
// loops poll the Flag with a single atomic load.
package cancel

// Canceler provides cancellation signaling to workers.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}
