package ringbuf

// ModuloRing is the single-owner baseline. It is the correctness reference
// for the family and is NOT safe for concurrent use.
//
// Slots are selected with index % slots. The fullness check compares against
// the requested capacity, which may be smaller than the slot count.
type ModuloRing[T any] struct {
	storage[T]
	slotCount uint64
	read      uint64
	write     uint64
	drop      func(T)
}

// NewModulo creates a ModuloRing bounded by capacity.
// The slot count is rounded up to the next power of 2.
func NewModulo[T any](capacity int, opts ...Option[T]) *ModuloRing[T] {
	o := buildOptions(opts)
	s := newStorage[T](capacity)
	return &ModuloRing[T]{
		storage:   s,
		slotCount: uint64(len(s.slots)),
		drop:      o.drop,
	}
}

// Enqueue adds v to the ring.
// Returns false if the ring holds capacity items.
func (r *ModuloRing[T]) Enqueue(v T) bool {
	if r.write-r.read == r.capacity {
		return false
	}
	r.put(r.write%r.slotCount, v)
	r.write++
	return true
}

// Dequeue removes and returns the oldest item.
// Returns false if the ring is empty.
func (r *ModuloRing[T]) Dequeue() (T, bool) {
	if r.read == r.write {
		var zero T
		return zero, false
	}
	v := r.take(r.read % r.slotCount)
	r.read++
	return v, true
}

// Len returns the number of stored items.
func (r *ModuloRing[T]) Len() int {
	return int(r.write - r.read)
}

// Release drains the remaining items through the drop func and frees the
// slots. The ring must not be used afterwards.
func (r *ModuloRing[T]) Release() int {
	n := r.storage.release(r.read, r.write, r.drop)
	r.read = r.write
	return n
}

// MaskedRing is ModuloRing with the modulo replaced by a bitmask. It is NOT
// safe for concurrent use.
type MaskedRing[T any] struct {
	storage[T]
	read  uint64
	write uint64
	drop  func(T)
}

// NewMasked creates a MaskedRing bounded by capacity.
// The slot count is rounded up to the next power of 2.
func NewMasked[T any](capacity int, opts ...Option[T]) *MaskedRing[T] {
	o := buildOptions(opts)
	return &MaskedRing[T]{
		storage: newStorage[T](capacity),
		drop:    o.drop,
	}
}

// Enqueue adds v to the ring.
// Returns false if the ring holds capacity items.
func (r *MaskedRing[T]) Enqueue(v T) bool {
	if r.write-r.read == r.capacity {
		return false
	}
	r.put(r.write&r.mask, v)
	r.write++
	return true
}

// Dequeue removes and returns the oldest item.
// Returns false if the ring is empty.
func (r *MaskedRing[T]) Dequeue() (T, bool) {
	if r.read == r.write {
		var zero T
		return zero, false
	}
	v := r.take(r.read & r.mask)
	r.read++
	return v, true
}

// Len returns the number of stored items.
func (r *MaskedRing[T]) Len() int {
	return int(r.write - r.read)
}

// Release drains the remaining items through the drop func and frees the
// slots. The ring must not be used afterwards.
func (r *MaskedRing[T]) Release() int {
	n := r.storage.release(r.read, r.write, r.drop)
	r.read = r.write
	return n
}
