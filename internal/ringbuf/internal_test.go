package ringbuf

import (
	"math"
	"testing"
	"unsafe"
)

func TestNextPowerOfTwo(t *testing.T) {
	testCases := []struct {
		in, want uint64
	}{
		{1, 1}, {2, 2}, {3, 4}, {5, 8}, {8, 8}, {10, 16},
		{1000, 1024}, {1 << 20, 1 << 20}, {1<<20 + 1, 1 << 21},
		{2097152, 2097152},
	}
	for _, tc := range testCases {
		if got := nextPowerOfTwo(tc.in); got != tc.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

// TestCachedRing_Layout checks the two index groups land on disjoint
// cache lines and that neither shares a line with the read-mostly header.
func TestCachedRing_Layout(t *testing.T) {
	var r CachedRing[int]

	prod := unsafe.Offsetof(r.prod)
	cons := unsafe.Offsetof(r.cons)
	header := unsafe.Offsetof(r.drop) + unsafe.Sizeof(r.drop)

	prodEnd := unsafe.Offsetof(r.prod.cachedReadIndex) + unsafe.Sizeof(r.prod.cachedReadIndex)
	if prod+prodEnd+cacheLineSize > cons {
		t.Errorf("producer fields end %d bytes before consumer fields, want >= %d", cons-(prod+prodEnd), cacheLineSize)
	}
	if prod-header < cacheLineSize {
		t.Errorf("producer group %d bytes after header, want >= %d", prod-header, cacheLineSize)
	}
	if unsafe.Sizeof(r)-(cons+unsafe.Sizeof(r.cons)) < cacheLineSize {
		t.Error("consumer group not padded from whatever follows the ring")
	}

	// The owned index and its shadow share one line.
	if d := unsafe.Offsetof(r.prod.cachedReadIndex) - unsafe.Offsetof(r.prod.writeIndex); d >= cacheLineSize {
		t.Errorf("cachedReadIndex %d bytes from writeIndex", d)
	}
	if d := unsafe.Offsetof(r.cons.cachedWriteIndex) - unsafe.Offsetof(r.cons.readIndex); d >= cacheLineSize {
		t.Errorf("cachedWriteIndex %d bytes from readIndex", d)
	}
}

// TestCounterOverflow starts every variant just below 2^64 so the uint64
// indices wrap during the test.
func TestCounterOverflow(t *testing.T) {
	const start = math.MaxUint64 - 20
	const capacity = 6

	mod := NewModulo[int](capacity)
	mod.read, mod.write = start, start

	msk := NewMasked[int](capacity)
	msk.read, msk.write = start, start

	sp := NewSPSC[int](capacity)
	sp.readIndex.Store(start)
	sp.writeIndex.Store(start)

	cr := NewCached[int](capacity)
	cr.cons.readIndex.Store(start)
	cr.cons.cachedWriteIndex = start
	cr.prod.writeIndex.Store(start)
	cr.prod.cachedReadIndex = start

	queues := map[string]Queue[int]{
		"Modulo": mod,
		"Masked": msk,
		"SPSC":   sp,
		"Cached": cr,
	}

	for name, q := range queues {
		next, expect := 0, 0
		for round := 0; round < 20; round++ {
			for q.Enqueue(next) {
				next++
			}
			if q.Len() != capacity {
				t.Fatalf("%s round %d: expected Len() = %d, got %d", name, round, capacity, q.Len())
			}
			for i := 0; i < 1+round%capacity; i++ {
				got, ok := q.Dequeue()
				if !ok || got != expect {
					t.Fatalf("%s round %d: expected (%d, true), got (%d, %v)", name, round, expect, got, ok)
				}
				expect++
			}
		}
	}
}

func TestCachedRing_ShadowRefresh(t *testing.T) {
	r := NewCached[int](4)

	for i := 0; i < 4; i++ {
		r.Enqueue(i)
	}
	// The first enqueues never needed the consumer's index.
	if r.prod.cachedReadIndex != 0 {
		t.Fatalf("expected cachedReadIndex = 0, got %d", r.prod.cachedReadIndex)
	}
	if r.Enqueue(4) {
		t.Fatal("expected Enqueue() = false on full ring")
	}

	// One dequeue refreshes the consumer shadow to the full write index.
	if v, ok := r.Dequeue(); !ok || v != 0 {
		t.Fatalf("expected (0, true), got (%d, %v)", v, ok)
	}
	if r.cons.cachedWriteIndex != 4 {
		t.Errorf("expected cachedWriteIndex = 4, got %d", r.cons.cachedWriteIndex)
	}

	// Producer's stale shadow says full; the refresh finds room.
	if !r.Enqueue(4) {
		t.Fatal("expected Enqueue() = true after Dequeue()")
	}
	if r.prod.cachedReadIndex != 1 {
		t.Errorf("expected cachedReadIndex = 1, got %d", r.prod.cachedReadIndex)
	}
}

func TestCachedRing_InvariantPanics(t *testing.T) {
	t.Run("producer", func(t *testing.T) {
		r := NewCached[int](4)
		r.prod.writeIndex.Store(10)
		r.prod.cachedReadIndex = 6
		r.cons.readIndex.Store(12) // consumer ahead of producer

		defer func() {
			if recover() == nil {
				t.Error("expected panic on corrupted read index")
			}
		}()
		r.Enqueue(1)
	})

	t.Run("consumer", func(t *testing.T) {
		r := NewCached[int](4)
		r.cons.readIndex.Store(10)
		r.cons.cachedWriteIndex = 10
		r.prod.writeIndex.Store(3) // producer behind consumer

		defer func() {
			if recover() == nil {
				t.Error("expected panic on corrupted write index")
			}
		}()
		r.Dequeue()
	})
}

func TestStorage_TakeClearsSlot(t *testing.T) {
	r := NewMasked[*int](2)
	v := 7
	r.Enqueue(&v)
	r.Dequeue()
	for i, p := range r.slots {
		if p != nil {
			t.Errorf("slot %d still references a dequeued value", i)
		}
	}
}
