package ringbuf_test

import (
	"testing"

	"github.com/eapache/queue"
	"github.com/valyala/fastrand"
)

// TestModel drives every variant with a random mix of operations and
// compares each result with an unbounded reference FIFO capped at the same
// capacity.
func TestModel(t *testing.T) {
	const ops = 200000

	for _, f := range factories() {
		for _, capacity := range []int{1, 3, 16, 100} {
			q := f.new(capacity)
			ref := queue.New()
			next := 0

			for i := 0; i < ops; i++ {
				// Bias toward enqueue on even rounds of 1000 so the buffer
				// spends time both near full and near empty.
				enqueueBias := uint32(40)
				if (i/1000)%2 == 0 {
					enqueueBias = 60
				}

				if fastrand.Uint32n(100) < enqueueBias {
					ok := q.Enqueue(next)
					wantOK := ref.Length() < capacity
					if ok != wantOK {
						t.Fatalf("%s/cap=%d op %d: Enqueue() = %v, model says %v", f.name, capacity, i, ok, wantOK)
					}
					if ok {
						ref.Add(next)
					}
					next++
				} else {
					got, ok := q.Dequeue()
					wantOK := ref.Length() > 0
					if ok != wantOK {
						t.Fatalf("%s/cap=%d op %d: Dequeue() ok = %v, model says %v", f.name, capacity, i, ok, wantOK)
					}
					if ok {
						want := ref.Remove().(int)
						if got != want {
							t.Fatalf("%s/cap=%d op %d: Dequeue() = %d, model says %d", f.name, capacity, i, got, want)
						}
					}
				}

				if q.Len() != ref.Length() {
					t.Fatalf("%s/cap=%d op %d: Len() = %d, model says %d", f.name, capacity, i, q.Len(), ref.Length())
				}
			}
		}
	}
}
