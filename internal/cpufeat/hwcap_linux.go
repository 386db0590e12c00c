//go:build linux

package cpufeat

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// HWCap returns the AT_HWCAP and AT_HWCAP2 words of the running process.
// A key the kernel does not supply reads as zero.
func HWCap() (hwcap, hwcap2 uint64, err error) {
	auxv, err := unix.Auxv()
	if err != nil {
		return 0, 0, fmt.Errorf("cpufeat: read auxv: %w", err)
	}
	hwcap, _ = lookup(auxv, atHWCap)
	hwcap2, _ = lookup(auxv, atHWCap2)
	return hwcap, hwcap2, nil
}
