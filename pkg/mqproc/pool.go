package mqproc

// Consumer receives (key, value) pairs delivered by a MultiQueueProcessor.
// Consume must never panic in a way the caller wants observed: the
// processor recovers any panic at the task boundary so a misbehaving
// consumer cannot poison the worker pool or wedge the processor in a
// Processing state. The recovered value reaches the process-wide Observer
// (see observer.go) rather than being silently dropped.
//
// A Consumer value's identity (as used in a Go map, i.e. its dynamic type
// and value) is what Subscribe/Unsubscribe key subscriptions on, so
// distinct handles to logically-the-same consumer are distinct
// subscriptions. Pass a pointer-typed implementation to make identity
// unambiguous.
type Consumer[K comparable, V any] interface {
	Consume(key K, value V)
}

// ThreadPool executes tasks submitted by the processor. The processor
// requires exactly one primitive: post a task, optionally tagged with a
// group token. Implementations may serialize tasks sharing a group token
// onto a single worker (useful for emulating single-threaded-apartment
// semantics per consumer) but are not required to; no ordering across
// distinct tokens is assumed by the core.
//
// Post must ensure the task eventually runs exactly once unless the pool
// is shutting down, in which case the task may be silently dropped — the
// processor treats a dropped task as "no further progress expected" and
// does not retry.
type ThreadPool interface {
	Post(task func(), groupToken uint64)
}

// ConsumerFunc adapts a plain function to the Consumer interface. It is a
// pointer-identified struct rather than a bare func type: func values are
// not comparable in Go, and Subscribe/Unsubscribe key subscriptions off
// the Consumer's identity, so a bare func type would panic ("hash of
// unhashable type") the first time one was used as a subscription map key.
type ConsumerFunc[K comparable, V any] struct {
	fn func(key K, value V)
}

// NewConsumerFunc wraps fn as a Consumer. The returned pointer is the
// consumer's identity for Subscribe/Unsubscribe purposes.
func NewConsumerFunc[K comparable, V any](fn func(key K, value V)) *ConsumerFunc[K, V] {
	return &ConsumerFunc[K, V]{fn: fn}
}

func (f *ConsumerFunc[K, V]) Consume(key K, value V) { f.fn(key, value) }
