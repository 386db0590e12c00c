// Package affinity pins goroutines to CPU cores.
//
// Pinning locks the calling goroutine to its OS thread and restricts that
// thread to one core. The benchmark driver uses it to place the producer and
// the consumer on chosen cores so cross-core cache traffic is measurable.
package affinity

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupported is returned where the OS offers no thread affinity API.
var ErrUnsupported = errors.New("affinity: not supported on this platform")

// ErrNotAllowed is returned when the core is outside the process's mask.
var ErrNotAllowed = errors.New("affinity: core not in allowed set")

// Pin binds the calling goroutine to core. A negative core means "any core"
// and is a no-op. The returned func restores the previous mask and unlocks
// the OS thread; it must be called from the same goroutine.
func Pin(core int) (restore func(), err error) {
	if core < 0 {
		return func() {}, nil
	}

	runtime.LockOSThread()
	undo, err := pinPlatform(core)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("affinity: pin core %d: %w", core, err)
	}
	return func() {
		undo()
		runtime.UnlockOSThread()
	}, nil
}

// Allowed returns the cores the process may run on, in ascending order.
func Allowed() ([]int, error) {
	return allowedPlatform()
}

// Check returns ErrNotAllowed unless core is negative or allowed.
func Check(core int) error {
	if core < 0 {
		return nil
	}
	cores, err := Allowed()
	if err != nil {
		return err
	}
	for _, c := range cores {
		if c == core {
			return nil
		}
	}
	return fmt.Errorf("%w: %d (allowed %v)", ErrNotAllowed, core, cores)
}
