//go:build !linux

package affinity

// pinPlatform is a stub for platforms without a thread affinity binding.
func pinPlatform(int) (func(), error) {
	return nil, ErrUnsupported
}

func allowedPlatform() ([]int, error) {
	return nil, ErrUnsupported
}
