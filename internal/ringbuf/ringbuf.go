// Package ringbuf provides a family of bounded ring buffers for passing
// values between a single producer and a single consumer.
//
// The family is one optimization lineage, exposed as selectable variants:
//   - Modulo: single-owner baseline, maps indices to slots with %
//   - Masked: single-owner baseline, maps indices to slots with a bitmask
//   - SPSC: lock-free producer/consumer buffer with atomic indices
//   - Cached: SPSC plus cache-line isolation and cached peer indices
//
// All variants round the slot count up to the next power of two and bound
// the number of stored items by the requested capacity. Enqueue returns
// false when full, Dequeue returns false when empty; nothing blocks.
//
// # SPSC Safety (IMPORTANT)
//
// SPSC and Cached buffers assume exactly ONE goroutine calls Enqueue and
// exactly ONE goroutine calls Dequeue. Split hands those capabilities out as
// two separate handles so the contract is visible in the types, but it is
// not enforced at run time. Build with -tags ringbuf_debug to enable guards
// that panic on concurrent misuse.
package ringbuf

import (
	"fmt"
	"strings"
)

// Enqueuer is the producer capability.
type Enqueuer[T any] interface {
	// Enqueue stores v. Returns false if the buffer is full, in which case
	// v is not retained.
	Enqueue(v T) bool
}

// Dequeuer is the consumer capability.
type Dequeuer[T any] interface {
	// Dequeue removes and returns the oldest value.
	// Returns false if the buffer is empty.
	Dequeue() (T, bool)
}

// Queue is a buffer that exposes both capabilities to one owner.
type Queue[T any] interface {
	Enqueuer[T]
	Dequeuer[T]

	// Len returns the number of stored items. For shared buffers this is
	// an approximation and may be slightly stale.
	Len() int

	// Cap returns the requested capacity (the logical bound).
	Cap() int
}

// Variant selects one ring-buffer strategy.
type Variant uint8

const (
	// Modulo is the single-owner baseline using modulo indexing.
	Modulo Variant = iota
	// Masked is the single-owner baseline using bitmask indexing.
	Masked
	// SPSC is the lock-free two-goroutine buffer.
	SPSC
	// Cached is SPSC with padded index groups and cached peer indices.
	Cached
)

var variantNames = [...]string{
	Modulo: "modulo",
	Masked: "masked",
	SPSC:   "spsc",
	Cached: "cached",
}

// Variants lists every variant in lineage order.
func Variants() []Variant {
	return []Variant{Modulo, Masked, SPSC, Cached}
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

// Split reports whether the variant is shared between a producer and a
// consumer goroutine.
func (v Variant) Split() bool {
	return v == SPSC || v == Cached
}

// ParseVariant resolves a variant by name. Names are case-insensitive and
// the lineage aliases r0..r3 are accepted.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "modulo", "r0":
		return Modulo, nil
	case "masked", "r1":
		return Masked, nil
	case "spsc", "r2":
		return SPSC, nil
	case "cached", "r3":
		return Cached, nil
	}
	return 0, fmt.Errorf("ringbuf: unknown variant %q", name)
}

// Option configures a buffer at construction.
type Option[T any] func(*options[T])

type options[T any] struct {
	drop func(T)
}

// WithDrop registers fn to be called for every element still stored when
// the buffer is torn down.
func WithDrop[T any](fn func(T)) Option[T] {
	return func(o *options[T]) {
		o.drop = fn
	}
}

func buildOptions[T any](opts []Option[T]) options[T] {
	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewQueue constructs a single-owner buffer for a non-split variant.
// It panics if v is a split variant; use Make for those.
func NewQueue[T any](v Variant, capacity int, opts ...Option[T]) Queue[T] {
	switch v {
	case Modulo:
		return NewModulo[T](capacity, opts...)
	case Masked:
		return NewMasked[T](capacity, opts...)
	}
	panic(fmt.Sprintf("ringbuf: %s is a split variant", v))
}
