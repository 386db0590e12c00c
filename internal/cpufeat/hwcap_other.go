//go:build !linux

package cpufeat

// HWCap always fails with ErrUnsupported: there is no auxiliary vector
// to read outside Linux.
func HWCap() (hwcap, hwcap2 uint64, err error) {
	return 0, 0, ErrUnsupported
}
