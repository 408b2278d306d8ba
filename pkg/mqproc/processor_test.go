package mqproc

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// syncPool runs tasks synchronously on the caller's goroutine. It's
// enough to exercise ordering/fairness invariants without a real pool.
type syncPool struct{}

func (syncPool) Post(task func(), _ uint64) { task() }

// goPool runs each task on its own goroutine, ignoring the group token —
// good enough to exercise concurrency-safety without serialization.
type goPool struct{ wg sync.WaitGroup }

func (p *goPool) Post(task func(), _ uint64) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		task()
	}()
}

func (p *goPool) Wait() { p.wg.Wait() }

type recordingConsumer struct {
	mu   sync.Mutex
	seen []string
}

func (c *recordingConsumer) Consume(key int, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, fmt.Sprintf("%d:%s", key, value))
}

func (c *recordingConsumer) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.seen))
	copy(out, c.seen)
	return out
}

// S1: single consumer, one key, sequential delivery.
func TestSingleConsumerOneKeyOrdered(t *testing.T) {
	mqp := New[int, string](syncPool{})
	c := &recordingConsumer{}
	mqp.Subscribe(1, c)
	for i := 0; i < 10; i++ {
		mqp.Enqueue(1, fmt.Sprintf("%d", i))
	}
	got := c.snapshot()
	if len(got) != 10 {
		t.Fatalf("expected 10 deliveries, got %d: %v", len(got), got)
	}
	for i, v := range got {
		want := fmt.Sprintf("1:%d", i)
		if v != want {
			t.Fatalf("out of order at %d: got %s want %s", i, v, want)
		}
	}
}

// S4: late subscription never observes values enqueued before it.
func TestLateSubscriptionSkipsPriorValues(t *testing.T) {
	mqp := New[int, string](syncPool{})
	c := &recordingConsumer{}
	mqp.Enqueue(1, "x") // no subscribers yet, silently dropped
	mqp.Subscribe(1, c)
	mqp.Enqueue(1, "y")
	got := c.snapshot()
	if len(got) != 1 || got[0] != "1:y" {
		t.Fatalf("expected only [1:y], got %v", got)
	}
}

// S6: duplicate Subscribe of the same (key, consumer) is a no-op.
func TestDuplicateSubscribeIsNoop(t *testing.T) {
	mqp := New[int, string](syncPool{})
	c := &recordingConsumer{}
	mqp.Subscribe(1, c)
	mqp.Subscribe(1, c)
	mqp.Enqueue(1, "a")
	got := c.snapshot()
	if len(got) != 1 || got[0] != "1:a" {
		t.Fatalf("expected exactly one delivery, got %v", got)
	}
}

// S3 / P4: N consumers on one key see the same enqueued value delivered
// once each, and the core stores it exactly once regardless of N.
func TestFanOutSingleStorage(t *testing.T) {
	mqp := New[int, *string](syncPool{})
	const n = 10
	consumers := make([]*recordingPtrConsumer, n)
	for i := range consumers {
		consumers[i] = &recordingPtrConsumer{}
		mqp.Subscribe(1, consumers[i])
	}
	v := "payload"
	mqp.Enqueue(1, &v)

	for i, c := range consumers {
		got := c.snapshot()
		if len(got) != 1 {
			t.Fatalf("consumer %d: expected 1 delivery, got %d", i, len(got))
		}
		if got[0] != &v {
			t.Fatalf("consumer %d: expected identical pointer (no copy), got different pointer", i)
		}
	}
}

type recordingPtrConsumer struct {
	mu   sync.Mutex
	seen []*string
}

func (c *recordingPtrConsumer) Consume(_ int, value *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, value)
}

func (c *recordingPtrConsumer) snapshot() []*string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*string, len(c.seen))
	copy(out, c.seen)
	return out
}

// P2: at most one Consume in flight per consumer at any instant, even
// across keys, when dispatched onto a real concurrent pool.
func TestAtMostOneInFlightAcrossKeys(t *testing.T) {
	pool := &goPool{}
	mqp := New[int, int](pool)

	var inFlight int32
	var maxSeen int32
	c := NewConsumerFunc(func(_ int, _ int) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&maxSeen)
			if cur <= old || atomic.CompareAndSwapInt32(&maxSeen, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	})

	mqp.Subscribe(1, c)
	mqp.Subscribe(2, c)

	var wg sync.WaitGroup
	for _, key := range []int{1, 2} {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				mqp.Enqueue(k, i)
			}
		}(key)
	}
	wg.Wait()
	pool.Wait()

	if got := atomic.LoadInt32(&maxSeen); got > 1 {
		t.Fatalf("observed %d concurrent Consume invocations, want at most 1", got)
	}
}

// S2: one consumer, two keys, concurrent enqueues — every value observed
// exactly once, per-key order preserved.
func TestTwoKeysPerKeyOrderPreserved(t *testing.T) {
	pool := &goPool{}
	mqp := New[string, string](pool)

	var mu sync.Mutex
	var seenA, seenB []string
	c := NewConsumerFunc(func(key string, value string) {
		mu.Lock()
		defer mu.Unlock()
		switch key {
		case "1":
			seenA = append(seenA, value)
		case "2":
			seenB = append(seenB, value)
		}
	})

	mqp.Subscribe("1", c)
	mqp.Subscribe("2", c)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			mqp.Enqueue("1", fmt.Sprintf("a%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			mqp.Enqueue("2", fmt.Sprintf("b%d", i))
		}
	}()
	wg.Wait()
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seenA)+len(seenB) != 20 {
		t.Fatalf("expected 20 total deliveries, got %d", len(seenA)+len(seenB))
	}
	for i, v := range seenA {
		if v != fmt.Sprintf("a%d", i) {
			t.Fatalf("key 1 out of order at %d: %v", i, seenA)
		}
	}
	for i, v := range seenB {
		if v != fmt.Sprintf("b%d", i) {
			t.Fatalf("key 2 out of order at %d: %v", i, seenB)
		}
	}
}

// S5: unsubscribing during a backlog stops further delivery and frees
// the key's log once no subscribers remain.
func TestUnsubscribeDuringBacklog(t *testing.T) {
	mqp := New[int, int](syncPool{})
	var count int32
	c := NewConsumerFunc(func(_ int, _ int) {
		atomic.AddInt32(&count, 1)
	})
	mqp.Subscribe(1, c)
	for i := 0; i < 1000; i++ {
		mqp.Enqueue(1, i)
	}
	if got := atomic.LoadInt32(&count); got != 1000 {
		t.Fatalf("expected all 1000 consumed synchronously, got %d", got)
	}
	mqp.Unsubscribe(1, c)

	dm, ok := mqp.dataManagers[1]
	if ok && len(dm.entries) != 0 {
		t.Fatalf("expected log fully reclaimed after last unsubscribe, got %d entries", len(dm.entries))
	}
	if _, ok := mqp.dataManagers[1]; ok {
		t.Fatalf("expected DataManager dropped after last unsubscribe")
	}

	mqp.Enqueue(1, 12345)
	if got := atomic.LoadInt32(&count); got != 1000 {
		t.Fatalf("expected no further delivery after unsubscribe, got %d", got)
	}
}

// P3: after producers quiesce and every cursor has drained, the log for a
// key with an active subscriber but no backlog is empty.
func TestLogDrainsToEmpty(t *testing.T) {
	mqp := New[int, int](syncPool{})
	c := &recordingIntConsumer{}
	mqp.Subscribe(1, c)
	for i := 0; i < 5; i++ {
		mqp.Enqueue(1, i)
	}
	dm := mqp.dataManagers[1]
	if len(dm.entries) != 0 {
		t.Fatalf("expected empty log after synchronous drain, got %d entries", len(dm.entries))
	}
}

type recordingIntConsumer struct {
	mu   sync.Mutex
	seen []int
}

func (c *recordingIntConsumer) Consume(_ int, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, value)
}

// Unknown-key Unsubscribe/Enqueue and null-consumer Subscribe are
// documented no-ops (§7).
func TestSilentNoops(t *testing.T) {
	mqp := New[int, string](syncPool{})
	mqp.Unsubscribe(1, &recordingConsumer{}) // never subscribed
	mqp.Enqueue(99, "dropped")               // unknown key
	mqp.Subscribe(1, nil)                    // nil consumer

	if len(mqp.dataManagers) != 0 {
		t.Fatalf("expected no DataManagers created by no-op operations")
	}
}
