package bench

import (
	"fmt"
	"math/bits"
	"strings"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/randomizedcoder/spsc-ringbuf/internal/ringbuf"
)

// Target names what a run measures: a ring-buffer variant or a baseline.
type Target string

// Baselines run through the same split loop as the SPSC variants.
const (
	// Channel is a buffered Go channel with non-blocking send and receive.
	Channel Target = "channel"
	// Sharded is go-lock-free-ring's ShardedRing with a single shard.
	Sharded Target = "sharded"
)

// DefaultTarget is the Modulo variant.
var DefaultTarget = VariantTarget(ringbuf.Modulo)

// VariantTarget returns the target measuring v.
func VariantTarget(v ringbuf.Variant) Target {
	return Target(v.String())
}

// Targets lists every target: the variants in lineage order, then baselines.
func Targets() []Target {
	vs := ringbuf.Variants()
	ts := make([]Target, 0, len(vs)+2)
	for _, v := range vs {
		ts = append(ts, VariantTarget(v))
	}
	return append(ts, Channel, Sharded)
}

// ParseTarget accepts a variant name or alias (see ringbuf.ParseVariant)
// or a baseline name, case-insensitively.
func ParseTarget(name string) (Target, error) {
	switch t := Target(strings.ToLower(name)); t {
	case Channel, Sharded:
		return t, nil
	}
	v, err := ringbuf.ParseVariant(name)
	if err != nil {
		return "", fmt.Errorf("bench: unknown target %q", name)
	}
	return VariantTarget(v), nil
}

// Variant returns the ring-buffer variant t measures, if any.
func (t Target) Variant() (ringbuf.Variant, bool) {
	switch t {
	case Channel, Sharded:
		return 0, false
	}
	v, err := ringbuf.ParseVariant(string(t))
	return v, err == nil
}

// Split reports whether t runs as a producer/consumer pair.
func (t Target) Split() bool {
	if v, ok := t.Variant(); ok {
		return v.Split()
	}
	return t == Channel || t == Sharded
}

func (t Target) String() string {
	return string(t)
}

// endpoints is one producer side and one consumer side of a split target.
type endpoints struct {
	enq   ringbuf.Enqueuer[uint64]
	deq   ringbuf.Dequeuer[uint64]
	close func()
}

func newEndpoints(t Target, capacity int) (endpoints, error) {
	switch t {
	case Channel:
		q := newChanQueue[uint64](capacity)
		return endpoints{enq: q, deq: q, close: func() {}}, nil
	case Sharded:
		q, err := newShardedQueue(capacity)
		if err != nil {
			return endpoints{}, err
		}
		return endpoints{enq: q, deq: q, close: func() {}}, nil
	}

	v, ok := t.Variant()
	if !ok || !v.Split() {
		return endpoints{}, fmt.Errorf("bench: %s is not a split target", t)
	}
	p, c := ringbuf.Make[uint64](v, capacity)
	return endpoints{
		enq: p,
		deq: c,
		close: func() {
			p.Close()
			c.Close()
		},
	}, nil
}

// chanQueue wraps a buffered channel so it satisfies the ringbuf
// capability interfaces. Each call is a select with default.
type chanQueue[T any] struct {
	ch chan T
}

func newChanQueue[T any](size int) *chanQueue[T] {
	return &chanQueue[T]{ch: make(chan T, size)}
}

func (q *chanQueue[T]) Enqueue(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

func (q *chanQueue[T]) Dequeue() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *chanQueue[T]) Len() int { return len(q.ch) }
func (q *chanQueue[T]) Cap() int { return cap(q.ch) }

// shardedQueue adapts a one-shard ShardedRing. Producer ID 0 selects the
// only shard. Values travel as interface values, so each enqueue of a
// large uint64 allocates; that cost is part of what the baseline shows.
type shardedQueue struct {
	r *ring.ShardedRing
}

func newShardedQueue(capacity int) (*shardedQueue, error) {
	// ShardedRing wants a power-of-two size.
	size := uint64(1) << bits.Len64(uint64(capacity)-1)
	r, err := ring.NewShardedRing(size, 1)
	if err != nil {
		return nil, fmt.Errorf("bench: sharded ring of %d: %w", size, err)
	}
	return &shardedQueue{r: r}, nil
}

func (q *shardedQueue) Enqueue(v uint64) bool {
	return q.r.Write(0, v)
}

func (q *shardedQueue) Dequeue() (uint64, bool) {
	v, ok := q.r.TryRead()
	if !ok {
		return 0, false
	}
	return v.(uint64), true
}

func (q *shardedQueue) Len() int { return int(q.r.Len()) }
func (q *shardedQueue) Cap() int { return int(q.r.Cap()) }
