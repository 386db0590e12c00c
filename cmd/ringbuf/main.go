// Command ringbuf measures ring-buffer throughput.
//
// Usage:
//
//	go run ./cmd/ringbuf -ringbuf r3 -producer-core 0 -consumer-core 1
//	go run ./cmd/ringbuf -ringbuf all -loop-count 50000 -json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/sugawarayuuta/sonnet"

	"github.com/randomizedcoder/spsc-ringbuf/internal/affinity"
	"github.com/randomizedcoder/spsc-ringbuf/internal/bench"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ringbuf: ")

	def := bench.DefaultConfig()
	names := flag.String("ringbuf", def.Target.String(), "target(s), comma separated: "+targetList()+", or all")
	capacity := flag.Int("buffer-capacity", def.Capacity, "requested buffer capacity")
	enqueueCount := flag.Int("enqueue-count", def.EnqueueCount, "enqueues per loop")
	loopCount := flag.Int("loop-count", def.LoopCount, "number of loops")
	producerCore := flag.Int("producer-core", def.ProducerCore, "core to pin the producer to (-1 = any)")
	consumerCore := flag.Int("consumer-core", def.ConsumerCore, "core to pin the consumer to (-1 = any)")
	single := flag.Bool("single", false, "run split targets on one goroutine")
	progress := flag.Duration("progress", 0, "progress log interval (0 = off)")
	asJSON := flag.Bool("json", false, "print results as JSON lines")
	flag.Parse()

	targets, err := parseTargets(*names)
	if err != nil {
		log.Fatal(err)
	}
	for _, core := range []int{*producerCore, *consumerCore} {
		if err := affinity.Check(core); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := false
	for _, target := range targets {
		cfg := bench.Config{
			Target:       target,
			Capacity:     *capacity,
			EnqueueCount: *enqueueCount,
			LoopCount:    *loopCount,
			SingleThread: *single,
			ProducerCore: *producerCore,
			ConsumerCore: *consumerCore,
			Progress:     *progress,
		}

		res, err := bench.Run(ctx, cfg)
		if err != nil && !errors.Is(err, bench.ErrCanceled) {
			log.Printf("%s: %v", target, err)
			failed = true
			continue
		}
		if werr := report(res, len(targets) > 1, *asJSON); werr != nil {
			log.Fatal(werr)
		}
		if err != nil {
			log.Print(err)
			failed = true
			break
		}
	}

	if failed {
		os.Exit(1)
	}
}

func parseTargets(s string) ([]bench.Target, error) {
	if strings.EqualFold(s, "all") {
		return bench.Targets(), nil
	}
	var out []bench.Target
	for _, name := range strings.Split(s, ",") {
		t, err := bench.ParseTarget(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func targetList() string {
	var names []string
	for _, t := range bench.Targets() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func report(res bench.Result, named, asJSON bool) error {
	if asJSON {
		data, err := sonnet.Marshal(res)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	if named {
		fmt.Printf("%-8s %s\n", res.Target, res)
		return nil
	}
	fmt.Println(res)
	return nil
}
