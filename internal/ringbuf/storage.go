package ringbuf

import (
	"math/bits"
)

// maxCapacity keeps the rounded slot count representable as an int.
const maxCapacity = 1 << (bits.UintSize - 2)

// storage is the fixed slot array shared by every variant.
//
// Slots in [read, write) hold live values; every other slot holds the zero
// value. The owning buffer is responsible for keeping that range inside the
// capacity bound.
type storage[T any] struct {
	slots    []T
	mask     uint64 // len(slots) - 1
	capacity uint64 // requested bound, <= len(slots)
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

// newStorage allocates nextPowerOfTwo(capacity) slots. It panics if capacity
// is not positive or too large; a failed allocation is fatal in the runtime.
func newStorage[T any](capacity int) storage[T] {
	if capacity <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	if capacity > maxCapacity {
		panic("ringbuf: capacity too large")
	}
	n := nextPowerOfTwo(uint64(capacity))
	return storage[T]{
		slots:    make([]T, n),
		mask:     n - 1,
		capacity: uint64(capacity),
	}
}

func (s *storage[T]) put(slot uint64, v T) {
	s.slots[slot] = v
}

// take moves the value out of slot, leaving the zero value behind so the
// array never keeps consumed values reachable.
func (s *storage[T]) take(slot uint64) T {
	p := &s.slots[slot]
	v := *p
	var zero T
	*p = zero
	return v
}

// release drains [read, write) into drop and frees the array. It returns
// the number of drained elements. Calling it twice is a no-op.
func (s *storage[T]) release(read, write uint64, drop func(T)) int {
	if s.slots == nil {
		return 0
	}
	n := 0
	for ; read != write; read++ {
		v := s.take(read & s.mask)
		if drop != nil {
			drop(v)
		}
		n++
	}
	s.slots = nil
	return n
}

// Slots returns the allocated slot count, a power of two.
func (s *storage[T]) Slots() int {
	return len(s.slots)
}

// Cap returns the requested capacity.
func (s *storage[T]) Cap() int {
	return int(s.capacity)
}
