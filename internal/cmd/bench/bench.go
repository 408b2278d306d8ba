package bench

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rzbill/dispatchq/pkg/mqproc"
	"github.com/rzbill/dispatchq/pkg/workerpool"
)

// Options configures a Run.
type Options struct {
	ConsumersCount int
	ValuesCount    int
	WorkerPoolSize int
}

// Result reports what a Run observed.
type Result struct {
	ConsumersCount  int
	ValuesCount     int
	Elapsed         time.Duration
	TotalDeliveries int64
	DuplicateOrMiss int
}

// Run subscribes Options.ConsumersCount consumers to a single key, posts
// Options.ValuesCount values onto the pool concurrently, and waits for
// every consumer to observe all of them (or ctx to expire).
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.ConsumersCount < 1 {
		opts.ConsumersCount = 1
	}
	if opts.ValuesCount < 1 {
		opts.ValuesCount = 1
	}
	if opts.WorkerPoolSize < 1 {
		opts.WorkerPoolSize = 4
	}

	pool := workerpool.New(opts.WorkerPoolSize, 0)
	defer pool.Stop()

	proc := mqproc.New[int, string](pool)
	const key = 1

	var totalDeliveries int64
	var duplicateOrMiss int64
	var wg sync.WaitGroup
	wg.Add(opts.ConsumersCount)

	for c := 0; c < opts.ConsumersCount; c++ {
		seen := make(map[string]bool, opts.ValuesCount)
		completed := false
		var mu sync.Mutex
		consumer := mqproc.NewConsumerFunc(func(_ int, value string) {
			atomic.AddInt64(&totalDeliveries, 1)
			mu.Lock()
			if seen[value] {
				atomic.AddInt64(&duplicateOrMiss, 1)
			}
			seen[value] = true
			fire := len(seen) == opts.ValuesCount && !completed
			if fire {
				completed = true
			}
			mu.Unlock()
			if fire {
				wg.Done()
			}
		})
		proc.Subscribe(key, consumer)
	}

	start := time.Now()

	// Posting runs on its own goroutine so that a blocked Post cannot keep
	// the select below from observing ctx.
	go func() {
		for i := 0; i < opts.ValuesCount; i++ {
			i := i
			pool.Post(func() {
				proc.Enqueue(key, fmt.Sprintf("%d", i))
			}, uint64(i))
		}
	}()

	doneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	return Result{
		ConsumersCount:  opts.ConsumersCount,
		ValuesCount:     opts.ValuesCount,
		Elapsed:         time.Since(start),
		TotalDeliveries: atomic.LoadInt64(&totalDeliveries),
		DuplicateOrMiss: int(atomic.LoadInt64(&duplicateOrMiss)),
	}, nil
}
