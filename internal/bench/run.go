package bench

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/randomizedcoder/spsc-ringbuf/internal/affinity"
	"github.com/randomizedcoder/spsc-ringbuf/internal/cancel"
	"github.com/randomizedcoder/spsc-ringbuf/internal/ringbuf"
	"github.com/randomizedcoder/spsc-ringbuf/internal/tick"
)

// Run executes one benchmark run described by cfg.
//
// Canceling ctx stops the run at the next loop boundary (or the next
// failed enqueue/dequeue while spinning); the partial Result is returned
// together with ErrCanceled.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	stop := cancel.NewFlag()
	if ctx.Err() != nil {
		stop.Cancel()
	}
	detach := cancel.Watch(ctx, stop)
	defer detach()

	var (
		res Result
		err error
	)
	if cfg.Target.Split() && !cfg.SingleThread {
		res, err = runSplit(stop, cfg)
	} else {
		res, err = runLocal(stop, cfg)
	}
	if err == nil && res.Loops < cfg.LoopCount && ctx.Err() != nil {
		err = fmt.Errorf("%w after %d of %d loops: %w", ErrCanceled, res.Loops, cfg.LoopCount, context.Cause(ctx))
	}
	return res, err
}

// runLocal is the single-goroutine loop: EnqueueCount enqueues, then as
// many dequeue attempts. Rejected enqueues are counted, not retried.
func runLocal(stop *cancel.Flag, cfg Config) (Result, error) {
	q, release, err := newLocal(cfg.Target, cfg.Capacity)
	if err != nil {
		return Result{}, err
	}
	defer release()

	restore, err := affinity.Pin(cfg.ProducerCore)
	if err != nil {
		return Result{}, fmt.Errorf("bench: %w", err)
	}
	defer restore()

	var progress *tick.Batch
	if cfg.Progress > 0 {
		// About one clock read per 100k operations.
		progress = tick.NewBatch(cfg.Progress, 1+100_000/cfg.EnqueueCount)
	}

	var (
		seq, expect uint64
		full        int64
		loops       int
		orderErr    error
	)
	start := time.Now()
	for loops < cfg.LoopCount && !stop.Done() {
		for i := 0; i < cfg.EnqueueCount; i++ {
			if q.Enqueue(seq) {
				seq++
			} else {
				full++
			}
		}
		for i := 0; i < cfg.EnqueueCount; i++ {
			v, ok := q.Dequeue()
			if !ok {
				break
			}
			if v != expect {
				orderErr = fmt.Errorf("%w: expected %d, got %d", ErrOrder, expect, v)
				break
			}
			expect++
		}
		if orderErr != nil {
			break
		}
		loops++

		if progress != nil && progress.Tick() {
			logProgress(cfg, loops, start)
		}
	}

	res := newResult(cfg, loops, time.Since(start))
	res.Full = full
	return res, orderErr
}

// runSplit runs a producer and a consumer goroutine. Each side spins until
// it has completed EnqueueCount operations per loop.
func runSplit(stop *cancel.Flag, cfg Config) (Result, error) {
	ep, err := newEndpoints(cfg.Target, cfg.Capacity)
	if err != nil {
		return Result{}, err
	}
	defer ep.close()

	var progress *tick.Atomic
	if cfg.Progress > 0 {
		progress = tick.NewAtomic(cfg.Progress)
	}

	var (
		wg               sync.WaitGroup
		prodErr, consErr error
		loops            int
	)
	start := time.Now()

	wg.Add(2)
	go func() {
		defer wg.Done()
		prodErr = produce(ep.enq, stop, cfg)
	}()
	go func() {
		defer wg.Done()
		loops, consErr = consume(ep.deq, stop, cfg, progress, start)
	}()
	wg.Wait()

	res := newResult(cfg, loops, time.Since(start))
	if consErr != nil {
		return res, consErr
	}
	return res, prodErr
}

func produce(enq ringbuf.Enqueuer[uint64], stop *cancel.Flag, cfg Config) error {
	restore, err := affinity.Pin(cfg.ProducerCore)
	if err != nil {
		stop.Cancel()
		return fmt.Errorf("bench: producer: %w", err)
	}
	defer restore()

	yield := mustYield()
	var seq uint64
	for loop := 0; loop < cfg.LoopCount; loop++ {
		if stop.Done() {
			return nil
		}
		for n := cfg.EnqueueCount; n > 0; {
			if enq.Enqueue(seq) {
				seq++
				n--
				continue
			}
			if stop.Done() {
				return nil
			}
			if yield {
				runtime.Gosched()
			}
		}
	}
	return nil
}

func consume(deq ringbuf.Dequeuer[uint64], stop *cancel.Flag, cfg Config, progress *tick.Atomic, start time.Time) (int, error) {
	restore, err := affinity.Pin(cfg.ConsumerCore)
	if err != nil {
		stop.Cancel()
		return 0, fmt.Errorf("bench: consumer: %w", err)
	}
	defer restore()

	yield := mustYield()
	var expect uint64
	loops := 0
	for loops < cfg.LoopCount {
		if stop.Done() {
			return loops, nil
		}
		for n := cfg.EnqueueCount; n > 0; {
			v, ok := deq.Dequeue()
			if !ok {
				if stop.Done() {
					return loops, nil
				}
				if yield {
					runtime.Gosched()
				}
				continue
			}
			if v != expect {
				stop.Cancel()
				return loops, fmt.Errorf("%w: expected %d, got %d", ErrOrder, expect, v)
			}
			expect++
			n--
		}
		loops++

		if progress != nil && progress.Tick() {
			logProgress(cfg, loops, start)
		}
	}
	return loops, nil
}

// mustYield reports whether producer and consumer share a single P. Then a
// failed attempt has to hand the P over, or the peer only runs after the
// spinner is preempted, one scheduler slice per handoff.
func mustYield() bool {
	return runtime.GOMAXPROCS(0) < 2
}

func logProgress(cfg Config, loops int, start time.Time) {
	r := newResult(cfg, loops, time.Since(start))
	cfg.logger().Printf("%s: %d/%d loops, %d ops/ms", cfg.Target, loops, cfg.LoopCount, r.OpsPerMs())
}
