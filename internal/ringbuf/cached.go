package ringbuf

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is the assumed coherence granule.
const cacheLineSize = 64

// producerLine holds everything the producer writes: its own index and its
// shadow of the consumer's index.
type producerLine struct {
	writeIndex      atomic.Uint64
	cachedReadIndex uint64
	_               [cacheLineSize - 2*unsafe.Sizeof(uint64(0))]byte
}

// consumerLine is the consumer's mirror of producerLine.
type consumerLine struct {
	readIndex        atomic.Uint64
	cachedWriteIndex uint64
	_                [cacheLineSize - 2*unsafe.Sizeof(uint64(0))]byte
}

// Each line must be exactly one cache line; these fail to compile otherwise.
var (
	_ [cacheLineSize - unsafe.Sizeof(producerLine{})]byte
	_ [unsafe.Sizeof(producerLine{}) - cacheLineSize]byte
	_ [cacheLineSize - unsafe.Sizeof(consumerLine{})]byte
	_ [unsafe.Sizeof(consumerLine{}) - cacheLineSize]byte
)

// CachedRing is SPSCRing with two refinements:
//
//  1. The producer's and the consumer's state live in separate cache-line
//     sized regions, so an index update on one core does not invalidate the
//     line the other core is reading.
//  2. Each side keeps a plain shadow copy of the peer's index and only does
//     an atomic load of the real index when the shadow says full (producer)
//     or empty (consumer). A stale shadow can only report full or empty too
//     early, never report room or data that is not there.
//
// WARNING: This buffer is NOT safe for multiple producers or multiple
// consumers.
type CachedRing[T any] struct {
	storage[T] // read-only after construction

	pushGuard guard
	popGuard  guard
	drop      func(T)

	// The heap only guarantees 8-byte alignment, so a line-sized group can
	// straddle two lines; the middle pad keeps the two groups' fields at
	// least a full line apart regardless.
	_    cpu.CacheLinePad
	prod producerLine
	_    cpu.CacheLinePad
	cons consumerLine
	_    cpu.CacheLinePad
}

// NewCached creates a CachedRing bounded by capacity.
// The slot count is rounded up to the next power of 2.
func NewCached[T any](capacity int, opts ...Option[T]) *CachedRing[T] {
	o := buildOptions(opts)
	return &CachedRing[T]{
		storage: newStorage[T](capacity),
		drop:    o.drop,
	}
}

// Enqueue adds v to the ring.
// Returns false if the ring is full.
//
// SPSC CONTRACT: Only ONE goroutine may call Enqueue().
func (r *CachedRing[T]) Enqueue(v T) bool {
	r.pushGuard.enter("Enqueue")

	w := r.prod.writeIndex.Load()

	if w-r.prod.cachedReadIndex >= r.capacity {
		// Possibly full: refresh the shadow from the consumer's index.
		rd := r.cons.readIndex.Load()
		if w-rd > r.capacity {
			panic("ringbuf: cached read index ahead of write index")
		}
		r.prod.cachedReadIndex = rd
		if w-rd == r.capacity {
			r.pushGuard.exit()
			return false
		}
	}

	r.put(w&r.mask, v)
	r.prod.writeIndex.Store(w + 1)

	r.pushGuard.exit()
	return true
}

// Dequeue removes and returns the oldest item.
// Returns false if the ring is empty.
//
// SPSC CONTRACT: Only ONE goroutine may call Dequeue().
func (r *CachedRing[T]) Dequeue() (T, bool) {
	r.popGuard.enter("Dequeue")

	rd := r.cons.readIndex.Load()

	if r.cons.cachedWriteIndex == rd {
		// Possibly empty: refresh the shadow from the producer's index.
		w := r.prod.writeIndex.Load()
		if w-rd > r.capacity {
			panic("ringbuf: cached write index behind read index")
		}
		r.cons.cachedWriteIndex = w
		if w == rd {
			r.popGuard.exit()
			var zero T
			return zero, false
		}
	}

	v := r.take(rd & r.mask)
	r.cons.readIndex.Store(rd + 1)

	r.popGuard.exit()
	return v, true
}

// Len returns the current number of items in the ring.
// This is an approximation and may be slightly stale.
func (r *CachedRing[T]) Len() int {
	rd := r.cons.readIndex.Load()
	w := r.prod.writeIndex.Load()
	return int(min(w-rd, r.capacity))
}

// Release drains the remaining items through the drop func and frees the
// slots. Both sides must have stopped before it is called.
func (r *CachedRing[T]) Release() int {
	rd := r.cons.readIndex.Load()
	w := r.prod.writeIndex.Load()
	n := r.storage.release(rd, w, r.drop)
	r.cons.readIndex.Store(w)
	r.cons.cachedWriteIndex = w
	r.prod.cachedReadIndex = w
	return n
}

func (r *CachedRing[T]) shared() {}
