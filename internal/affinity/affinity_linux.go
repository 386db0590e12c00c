//go:build linux

package affinity

import (
	"golang.org/x/sys/unix"
)

// maxCPUs matches the kernel's CPU_SETSIZE.
const maxCPUs = 1024

// pinPlatform restricts the current thread (pid 0) to core via
// sched_setaffinity(2) and hands back a func restoring the old mask.
func pinPlatform(core int) (func(), error) {
	if core >= maxCPUs {
		return nil, ErrNotAllowed
	}

	var old unix.CPUSet
	if err := unix.SchedGetaffinity(0, &old); err != nil {
		return nil, err
	}
	if !old.IsSet(core) {
		return nil, ErrNotAllowed
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return nil, err
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &old)
	}, nil
}

func allowedPlatform() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	n := set.Count()
	cores := make([]int, 0, n)
	for i := 0; i < maxCPUs && len(cores) < n; i++ {
		if set.IsSet(i) {
			cores = append(cores, i)
		}
	}
	return cores, nil
}
