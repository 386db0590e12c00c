package bench

import (
	"fmt"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Result is the outcome of one run.
type Result struct {
	Target Target
	// Ops counts one per enqueue and one per dequeue of a completed loop.
	Ops   int64
	Loops int
	// Full counts enqueues rejected by a full buffer in single-goroutine runs.
	Full    int64
	Elapsed time.Duration
}

func newResult(cfg Config, loops int, elapsed time.Duration) Result {
	return Result{
		Target:  cfg.Target,
		Ops:     int64(loops) * int64(cfg.EnqueueCount) * 2,
		Loops:   loops,
		Elapsed: elapsed,
	}
}

// OpsPerMs is the throughput in operations per millisecond.
func (r Result) OpsPerMs() int64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return int64(float64(r.Ops) / (float64(r.Elapsed) / float64(time.Millisecond)))
}

// NsPerOp is the mean time per operation.
func (r Result) NsPerOp() float64 {
	if r.Ops == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Ops)
}

// String formats r as "<ops/ms> ops/ms <ops> enqueue in <ms> ms".
func (r Result) String() string {
	return fmt.Sprintf("%d ops/ms %d enqueue in %d ms", r.OpsPerMs(), r.Ops, r.Elapsed.Milliseconds())
}

type resultJSON struct {
	Target    string  `json:"target"`
	Ops       int64   `json:"ops"`
	Loops     int     `json:"loops"`
	Full      int64   `json:"full,omitempty"`
	ElapsedMs int64   `json:"elapsed_ms"`
	OpsPerMs  int64   `json:"ops_per_ms"`
	NsPerOp   float64 `json:"ns_per_op"`
}

// MarshalJSON encodes r with its derived rates.
func (r Result) MarshalJSON() ([]byte, error) {
	return sonnet.Marshal(resultJSON{
		Target:    r.Target.String(),
		Ops:       r.Ops,
		Loops:     r.Loops,
		Full:      r.Full,
		ElapsedMs: r.Elapsed.Milliseconds(),
		OpsPerMs:  r.OpsPerMs(),
		NsPerOp:   r.NsPerOp(),
	})
}
