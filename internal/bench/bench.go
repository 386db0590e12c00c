// Package bench drives throughput runs over the ring-buffer family and two
// baselines.
//
// A run either loops on one goroutine (single-owner targets: enqueue a
// batch, then dequeue it) or splits into a producer and a consumer
// goroutine, each optionally pinned to a core. The result is reported as
// operations per millisecond, where one enqueue and one dequeue count as
// two operations.
package bench

import (
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("bench: invalid config")

	// ErrCanceled is returned with the partial result of a canceled run.
	ErrCanceled = errors.New("bench: run canceled")

	// ErrOrder is returned when the consumer sees values out of FIFO order.
	ErrOrder = errors.New("bench: FIFO order violated")
)

// Defaults match the long-standing driver invocation: a 2 MiB-slot buffer,
// 1000 enqueues per loop, 500000 loops.
const (
	DefaultCapacity     = 2097152
	DefaultEnqueueCount = 1000
	DefaultLoopCount    = 500000
)

// Config selects what to measure and how long.
type Config struct {
	Target       Target
	Capacity     int
	EnqueueCount int
	LoopCount    int

	// SingleThread runs a split target through the single-goroutine loop,
	// measuring its per-call cost without cross-core traffic.
	SingleThread bool

	// Cores to pin the producer and consumer goroutines to. Negative means
	// unpinned. The single-goroutine loop pins to ProducerCore.
	ProducerCore int
	ConsumerCore int

	// Progress is the interval between progress log lines; 0 disables them.
	Progress time.Duration
	Logger   *log.Logger
}

// DefaultConfig returns the default run: Modulo, unpinned, no progress.
func DefaultConfig() Config {
	return Config{
		Target:       DefaultTarget,
		Capacity:     DefaultCapacity,
		EnqueueCount: DefaultEnqueueCount,
		LoopCount:    DefaultLoopCount,
		ProducerCore: -1,
		ConsumerCore: -1,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if _, err := ParseTarget(string(c.Target)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.EnqueueCount <= 0 {
		return fmt.Errorf("%w: enqueue count must be positive, got %d", ErrInvalidConfig, c.EnqueueCount)
	}
	if c.LoopCount <= 0 {
		return fmt.Errorf("%w: loop count must be positive, got %d", ErrInvalidConfig, c.LoopCount)
	}
	if c.Progress < 0 {
		return fmt.Errorf("%w: negative progress interval %v", ErrInvalidConfig, c.Progress)
	}
	if c.Target.Split() && !c.SingleThread && c.ProducerCore >= 0 && c.ProducerCore == c.ConsumerCore {
		return fmt.Errorf("%w: producer and consumer pinned to the same core %d", ErrInvalidConfig, c.ProducerCore)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}
