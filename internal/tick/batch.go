package tick

import "time"

// Batch checks the clock only on every Nth call to Tick.
//
// With every=1000 and interval=1s the clock is read once per 1000 calls
// and a tick fires on the first such read at least 1s after the last one.
// Not safe for concurrent use.
type Batch struct {
	interval  time.Duration
	every     int
	remaining int
	lastTick  time.Time
}

// NewBatch creates a Batch ticker. An every below 1 is treated as 1.
func NewBatch(interval time.Duration, every int) *Batch {
	if every < 1 {
		every = 1
	}
	return &Batch{
		interval:  interval,
		every:     every,
		remaining: every,
		lastTick:  time.Now(),
	}
}

// Tick returns true if the interval has elapsed. Calls between clock
// reads return false without touching the clock.
func (b *Batch) Tick() bool {
	b.remaining--
	if b.remaining > 0 {
		return false
	}
	b.remaining = b.every

	now := time.Now()
	if now.Sub(b.lastTick) < b.interval {
		return false
	}
	b.lastTick = now
	return true
}

// Reset restarts the interval and the call count.
func (b *Batch) Reset() {
	b.remaining = b.every
	b.lastTick = time.Now()
}

// Every returns the batch size.
func (b *Batch) Every() int {
	return b.every
}

// Interval returns the ticker's interval.
func (b *Batch) Interval() time.Duration {
	return b.interval
}
