package ringbuf

import (
	"fmt"
	"sync/atomic"
)

// Shared is implemented by the buffers that can be split between a producer
// goroutine and a consumer goroutine: *SPSCRing and *CachedRing.
type Shared[T any] interface {
	Queue[T]

	// Release drains and frees the buffer once both sides have stopped.
	Release() int

	shared()
}

// share is the reference count tying a buffer's teardown to its handles.
type share[T any] struct {
	buf  Shared[T]
	refs atomic.Int32
}

func (s *share[T]) unref() {
	if s.refs.Add(-1) == 0 {
		s.buf.Release()
	}
}

// Producer is the enqueue-only handle of a split buffer.
type Producer[T any] struct {
	buf    Shared[T]
	share  *share[T]
	closed bool
}

// Consumer is the dequeue-only handle of a split buffer.
type Consumer[T any] struct {
	buf    Shared[T]
	share  *share[T]
	closed bool
}

// Split hands out the two sides of buf. The buffer is released when both
// handles have been closed. Handles must not be copied to create a second
// producer or consumer.
func Split[T any](buf Shared[T]) (*Producer[T], *Consumer[T]) {
	s := &share[T]{buf: buf}
	s.refs.Store(2)
	return &Producer[T]{buf: buf, share: s}, &Consumer[T]{buf: buf, share: s}
}

// Make creates a split buffer of the given variant.
// It panics if v is a single-owner variant; use NewQueue for those.
func Make[T any](v Variant, capacity int, opts ...Option[T]) (*Producer[T], *Consumer[T]) {
	switch v {
	case SPSC:
		return Split[T](NewSPSC[T](capacity, opts...))
	case Cached:
		return Split[T](NewCached[T](capacity, opts...))
	}
	panic(fmt.Sprintf("ringbuf: %s is not a split variant", v))
}

// Enqueue adds v to the shared buffer.
// Returns false if the buffer is full.
func (p *Producer[T]) Enqueue(v T) bool {
	return p.buf.Enqueue(v)
}

// Cap returns the requested capacity of the shared buffer.
func (p *Producer[T]) Cap() int {
	return p.buf.Cap()
}

// Close gives up the producer side. Safe to call multiple times; the
// buffer is released once the consumer is closed too.
func (p *Producer[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.share.unref()
}

// Dequeue removes and returns the oldest value from the shared buffer.
// Returns false if the buffer is empty.
func (c *Consumer[T]) Dequeue() (T, bool) {
	return c.buf.Dequeue()
}

// Len returns the approximate number of stored items.
func (c *Consumer[T]) Len() int {
	return c.buf.Len()
}

// Close gives up the consumer side. Safe to call multiple times; the
// buffer is released once the producer is closed too.
func (c *Consumer[T]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.share.unref()
}
