package ringbuf

import (
	"sync/atomic"
)

// SPSCRing is a lock-free single-producer single-consumer ring buffer.
//
// WARNING: This buffer is NOT safe for multiple producers or multiple
// consumers. Hand it out through Split so each goroutine only sees its side.
//
// Each index is written by exactly one goroutine and published with an
// atomic store. The peer observes it with an atomic load, which orders the
// slot write (or read) before the index update becomes visible. Every
// operation loads the peer's index, even when there is plenty of room.
type SPSCRing[T any] struct {
	storage[T]

	writeIndex atomic.Uint64 // Written by producer, read by consumer
	readIndex  atomic.Uint64 // Written by consumer, read by producer

	pushGuard guard
	popGuard  guard

	drop func(T)
}

// NewSPSC creates an SPSCRing bounded by capacity.
// The slot count is rounded up to the next power of 2.
func NewSPSC[T any](capacity int, opts ...Option[T]) *SPSCRing[T] {
	o := buildOptions(opts)
	return &SPSCRing[T]{
		storage: newStorage[T](capacity),
		drop:    o.drop,
	}
}

// Enqueue adds v to the ring.
// Returns false if the ring is full.
//
// SPSC CONTRACT: Only ONE goroutine may call Enqueue().
func (r *SPSCRing[T]) Enqueue(v T) bool {
	r.pushGuard.enter("Enqueue")

	// Only this goroutine stores writeIndex, so this load never races.
	w := r.writeIndex.Load()
	rd := r.readIndex.Load()

	if w-rd == r.capacity {
		r.pushGuard.exit()
		return false
	}

	r.put(w&r.mask, v)

	// Publish the slot write together with the new index.
	r.writeIndex.Store(w + 1)

	r.pushGuard.exit()
	return true
}

// Dequeue removes and returns the oldest item.
// Returns false if the ring is empty.
//
// SPSC CONTRACT: Only ONE goroutine may call Dequeue().
func (r *SPSCRing[T]) Dequeue() (T, bool) {
	r.popGuard.enter("Dequeue")

	rd := r.readIndex.Load()
	w := r.writeIndex.Load()

	if w == rd {
		r.popGuard.exit()
		var zero T
		return zero, false
	}

	v := r.take(rd & r.mask)

	// Hand the slot back to the producer.
	r.readIndex.Store(rd + 1)

	r.popGuard.exit()
	return v, true
}

// Len returns the current number of items in the ring.
// This is an approximation and may be slightly stale.
func (r *SPSCRing[T]) Len() int {
	// Load read first: write only grows, so write-read cannot underflow.
	rd := r.readIndex.Load()
	w := r.writeIndex.Load()
	return int(min(w-rd, r.capacity))
}

// Release drains the remaining items through the drop func and frees the
// slots. Both sides must have stopped before it is called.
func (r *SPSCRing[T]) Release() int {
	rd := r.readIndex.Load()
	w := r.writeIndex.Load()
	n := r.storage.release(rd, w, r.drop)
	r.readIndex.Store(w)
	return n
}

func (r *SPSCRing[T]) shared() {}
