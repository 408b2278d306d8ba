package mqproc

// Observer receives dispatch-lifecycle events a MultiQueueProcessor cannot
// otherwise surface: a panicking Consumer is recovered inside a worker
// pool goroutine (see invokeConsumer), and without an observer that panic
// simply vanishes. The core stays free of any logging dependency; callers
// wire an Observer backed by whatever logging stack the process uses.
type Observer interface {
	// ConsumerPanicked is called after a Consumer.Consume call recovers
	// from a panic. key and value are the dispatched pair that triggered
	// it; recovered is the value passed to panic(); stack is the
	// goroutine's stack trace captured at the recover site.
	ConsumerPanicked(key any, value any, recovered any, stack []byte)
}

// observer is process-wide rather than per-processor: a single process
// typically wires exactly one logger, and every MultiQueueProcessor in it
// shares the same ThreadPool, so there's no natural per-instance seam to
// hang an observer off instead.
var observer Observer

// SetObserver installs the process-wide dispatch Observer. Passing nil
// disables observation, which is also the zero-value behavior — a
// MultiQueueProcessor with no Observer configured silently discards
// consumer panics exactly as it always has.
func SetObserver(o Observer) {
	observer = o
}
