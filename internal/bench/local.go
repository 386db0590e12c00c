package bench

import (
	"fmt"

	"github.com/randomizedcoder/spsc-ringbuf/internal/ringbuf"
)

// newLocal builds the target as one Queue for the single-goroutine loop.
// The SPSC variants and the baselines work here too; the loop just never
// hands them to a second goroutine.
func newLocal(t Target, capacity int) (ringbuf.Queue[uint64], func(), error) {
	switch t {
	case Channel:
		return newChanQueue[uint64](capacity), func() {}, nil
	case Sharded:
		q, err := newShardedQueue(capacity)
		if err != nil {
			return nil, nil, err
		}
		return q, func() {}, nil
	}

	v, ok := t.Variant()
	if !ok {
		return nil, nil, fmt.Errorf("bench: unknown target %q", t)
	}
	switch v {
	case ringbuf.Modulo:
		q := ringbuf.NewModulo[uint64](capacity)
		return q, func() { q.Release() }, nil
	case ringbuf.Masked:
		q := ringbuf.NewMasked[uint64](capacity)
		return q, func() { q.Release() }, nil
	case ringbuf.SPSC:
		q := ringbuf.NewSPSC[uint64](capacity)
		return q, func() { q.Release() }, nil
	default:
		q := ringbuf.NewCached[uint64](capacity)
		return q, func() { q.Release() }, nil
	}
}
