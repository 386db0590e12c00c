package bench_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"github.com/randomizedcoder/spsc-ringbuf/internal/affinity"
	"github.com/randomizedcoder/spsc-ringbuf/internal/bench"
	"github.com/randomizedcoder/spsc-ringbuf/internal/ringbuf"
)

func TestParseTarget(t *testing.T) {
	testCases := []struct {
		in   string
		want bench.Target
	}{
		{"modulo", bench.VariantTarget(ringbuf.Modulo)},
		{"R0", bench.VariantTarget(ringbuf.Modulo)},
		{"r1", bench.VariantTarget(ringbuf.Masked)},
		{"SPSC", bench.VariantTarget(ringbuf.SPSC)},
		{"r3", bench.VariantTarget(ringbuf.Cached)},
		{"channel", bench.Channel},
		{"Sharded", bench.Sharded},
	}

	for _, tc := range testCases {
		got, err := bench.ParseTarget(tc.in)
		if err != nil {
			t.Errorf("ParseTarget(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTarget(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := bench.ParseTarget("mutex"); err == nil {
		t.Error("expected error for unknown target")
	}
}

func TestTargets(t *testing.T) {
	split := map[bench.Target]bool{
		"modulo":      false,
		"masked":      false,
		"spsc":        true,
		"cached":      true,
		bench.Channel: true,
		bench.Sharded: true,
	}

	targets := bench.Targets()
	if len(targets) != len(split) {
		t.Fatalf("expected %d targets, got %v", len(split), targets)
	}
	for _, target := range targets {
		want, ok := split[target]
		if !ok {
			t.Errorf("unexpected target %q", target)
			continue
		}
		if target.Split() != want {
			t.Errorf("%s: expected Split() = %v", target, want)
		}
	}

	if _, ok := bench.Channel.Variant(); ok {
		t.Error("channel must not map to a ring-buffer variant")
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*bench.Config)
		ok     bool
	}{
		{"defaults", func(*bench.Config) {}, true},
		{"unknown target", func(c *bench.Config) { c.Target = "r9" }, false},
		{"zero capacity", func(c *bench.Config) { c.Capacity = 0 }, false},
		{"zero enqueue count", func(c *bench.Config) { c.EnqueueCount = 0 }, false},
		{"negative loop count", func(c *bench.Config) { c.LoopCount = -1 }, false},
		{"negative progress", func(c *bench.Config) { c.Progress = -time.Second }, false},
		{"same core split", func(c *bench.Config) {
			c.Target = "spsc"
			c.ProducerCore, c.ConsumerCore = 1, 1
		}, false},
		{"same core single thread", func(c *bench.Config) {
			c.Target = "spsc"
			c.SingleThread = true
			c.ProducerCore, c.ConsumerCore = 1, 1
		}, true},
		{"distinct cores", func(c *bench.Config) {
			c.Target = "cached"
			c.ProducerCore, c.ConsumerCore = 0, 1
		}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := bench.DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tc.ok && !errors.Is(err, bench.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func smallConfig(target bench.Target) bench.Config {
	cfg := bench.DefaultConfig()
	cfg.Target = target
	cfg.Capacity = 256
	cfg.EnqueueCount = 100
	cfg.LoopCount = 500
	return cfg
}

func TestRun_AllTargets(t *testing.T) {
	for _, target := range bench.Targets() {
		for _, single := range []bool{false, true} {
			name := target.String()
			if single {
				name += "/single"
			}
			t.Run(name, func(t *testing.T) {
				cfg := smallConfig(target)
				cfg.SingleThread = single

				res, err := bench.Run(context.Background(), cfg)
				if err != nil {
					t.Fatalf("Run() error: %v", err)
				}
				if res.Loops != cfg.LoopCount {
					t.Errorf("expected %d loops, got %d", cfg.LoopCount, res.Loops)
				}
				if want := int64(cfg.LoopCount * cfg.EnqueueCount * 2); res.Ops != want {
					t.Errorf("expected Ops = %d, got %d", want, res.Ops)
				}
				if res.Full != 0 {
					t.Errorf("expected no rejected enqueues, got %d", res.Full)
				}
				if res.Target != target {
					t.Errorf("expected Target = %q, got %q", target, res.Target)
				}
			})
		}
	}
}

// TestRun_SmallBufferSingleThread uses a buffer smaller than one loop's
// batch, so the excess enqueues are rejected every loop.
func TestRun_SmallBufferSingleThread(t *testing.T) {
	for _, v := range ringbuf.Variants() {
		cfg := smallConfig(bench.VariantTarget(v))
		cfg.SingleThread = true
		cfg.Capacity = 60

		res, err := bench.Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("%s: Run() error: %v", v, err)
		}
		if want := int64(cfg.LoopCount * (cfg.EnqueueCount - cfg.Capacity)); res.Full != want {
			t.Errorf("%s: expected Full = %d, got %d", v, want, res.Full)
		}
	}
}

// TestRun_SmallBufferSplit makes the producer spin on a full buffer.
func TestRun_SmallBufferSplit(t *testing.T) {
	for _, target := range []bench.Target{"spsc", "cached", bench.Channel, bench.Sharded} {
		cfg := smallConfig(target)
		cfg.Capacity = 4

		res, err := bench.Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("%s: Run() error: %v", target, err)
		}
		if res.Loops != cfg.LoopCount {
			t.Errorf("%s: expected %d loops, got %d", target, cfg.LoopCount, res.Loops)
		}
	}
}

func endless(target bench.Target) bench.Config {
	cfg := bench.DefaultConfig()
	cfg.Target = target
	cfg.Capacity = 1024
	cfg.EnqueueCount = 10
	cfg.LoopCount = 1 << 40
	return cfg
}

func TestRun_AlreadyCanceled(t *testing.T) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()

	for _, target := range []bench.Target{"masked", "cached"} {
		res, err := bench.Run(ctx, endless(target))
		if !errors.Is(err, bench.ErrCanceled) {
			t.Errorf("%s: expected ErrCanceled, got %v", target, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected the context cause in %v", target, err)
		}
		if res.Loops != 0 {
			t.Errorf("%s: expected 0 loops, got %d", target, res.Loops)
		}
	}
}

func TestRun_CancelMidway(t *testing.T) {
	for _, target := range []bench.Target{"modulo", "spsc", "cached", bench.Channel} {
		t.Run(target.String(), func(t *testing.T) {
			ctx, cancelCtx := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancelCtx()

			res, err := bench.Run(ctx, endless(target))
			if !errors.Is(err, bench.ErrCanceled) {
				t.Fatalf("expected ErrCanceled, got %v", err)
			}
			if res.Loops == 0 {
				t.Error("expected some loops before cancel")
			}
			if res.Ops != int64(res.Loops)*20 {
				t.Errorf("expected Ops = %d, got %d", res.Loops*20, res.Ops)
			}
		})
	}
}

func TestRun_Progress(t *testing.T) {
	for _, target := range []bench.Target{"masked", "cached"} {
		t.Run(target.String(), func(t *testing.T) {
			var buf bytes.Buffer
			cfg := endless(target)
			cfg.Progress = 5 * time.Millisecond
			cfg.Logger = log.New(&buf, "", 0)

			ctx, cancelCtx := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancelCtx()
			if _, err := bench.Run(ctx, cfg); !errors.Is(err, bench.ErrCanceled) {
				t.Fatalf("expected ErrCanceled, got %v", err)
			}

			out := buf.String()
			if !strings.Contains(out, target.String()+": ") || !strings.Contains(out, "ops/ms") {
				t.Errorf("expected progress lines, got %q", out)
			}
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := bench.DefaultConfig()
	cfg.Capacity = -5
	if _, err := bench.Run(context.Background(), cfg); !errors.Is(err, bench.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRun_PinFailure(t *testing.T) {
	for _, target := range []bench.Target{"modulo", "spsc"} {
		cfg := smallConfig(target)
		cfg.ProducerCore = 100000

		_, err := bench.Run(context.Background(), cfg)
		if !errors.Is(err, affinity.ErrNotAllowed) && !errors.Is(err, affinity.ErrUnsupported) {
			t.Errorf("%s: expected pinning error, got %v", target, err)
		}
	}
}

func TestResult(t *testing.T) {
	r := bench.Result{
		Target:  "cached",
		Ops:     1_000_000,
		Loops:   500,
		Elapsed: 100 * time.Millisecond,
	}

	if r.OpsPerMs() != 10000 {
		t.Errorf("expected OpsPerMs() = 10000, got %d", r.OpsPerMs())
	}
	if r.NsPerOp() != 100 {
		t.Errorf("expected NsPerOp() = 100, got %v", r.NsPerOp())
	}
	if got, want := r.String(), "10000 ops/ms 1000000 enqueue in 100 ms"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	var zero bench.Result
	if zero.OpsPerMs() != 0 || zero.NsPerOp() != 0 {
		t.Error("expected zero rates for an empty result")
	}
}

func TestResult_JSON(t *testing.T) {
	r := bench.Result{
		Target:  "spsc",
		Ops:     2000,
		Loops:   1,
		Elapsed: 2 * time.Millisecond,
	}

	data, err := sonnet.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var got map[string]any
	if err := sonnet.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got["target"] != "spsc" {
		t.Errorf("expected target spsc, got %v", got["target"])
	}
	if got["ops_per_ms"] != float64(1000) {
		t.Errorf("expected ops_per_ms 1000, got %v", got["ops_per_ms"])
	}
	if _, ok := got["full"]; ok {
		t.Error("expected full omitted when zero")
	}
}

// TestRun_Pinned runs the split loop and the single loop with their
// goroutines pinned to allowed cores.
func TestRun_Pinned(t *testing.T) {
	cores, err := affinity.Allowed()
	if errors.Is(err, affinity.ErrUnsupported) {
		t.Skip("affinity not supported on this platform")
	}
	if err != nil {
		t.Fatalf("Allowed() error: %v", err)
	}

	consumerCore := -1
	if len(cores) > 1 {
		consumerCore = cores[1]
	}

	for _, target := range []bench.Target{"modulo", "spsc", "cached"} {
		t.Run(target.String(), func(t *testing.T) {
			cfg := smallConfig(target)
			cfg.ProducerCore = cores[0]
			cfg.ConsumerCore = consumerCore

			res, err := bench.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if res.Loops != cfg.LoopCount {
				t.Errorf("expected %d loops, got %d", cfg.LoopCount, res.Loops)
			}
		})
	}
}

// TestRun_SingleP hands items one small buffer at a time between two
// goroutines sharing one P. Without yielding on a failed attempt every
// handoff waits for preemption and this run takes minutes.
func TestRun_SingleP(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(1))

	for _, target := range []bench.Target{"spsc", "cached", bench.Channel, bench.Sharded} {
		t.Run(target.String(), func(t *testing.T) {
			cfg := smallConfig(target)
			cfg.Capacity = 4

			ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelCtx()

			res, err := bench.Run(ctx, cfg)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if res.Loops != cfg.LoopCount {
				t.Errorf("expected %d loops, got %d", cfg.LoopCount, res.Loops)
			}
		})
	}
}
