package cancel

import "sync/atomic"

// Flag is a Canceler backed by an atomic.Bool.
//
// The zero value is ready to use and not canceled.
type Flag struct {
	done atomic.Bool
}

// NewFlag returns a Flag that has not been canceled.
func NewFlag() *Flag {
	return &Flag{}
}

// Done performs a single atomic load.
func (f *Flag) Done() bool {
	return f.done.Load()
}

// Cancel sets the flag. Subsequent calls are no-ops.
func (f *Flag) Cancel() {
	f.done.Store(true)
}

// Reset clears the flag so the next run can reuse it.
// Not safe to call concurrently with Done() or Cancel().
func (f *Flag) Reset() {
	f.done.Store(false)
}
