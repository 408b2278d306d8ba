// Package mqproc implements an in-process, multi-producer/multi-consumer
// dispatch engine keyed by an application-defined key type.
//
// Producers call Enqueue(key, value); consumers Subscribe to one or more
// keys and are notified asynchronously, at most once per enqueued value,
// via a Consumer callback. Notifications for a given (consumer, key) pair
// are strictly sequential and run on a caller-supplied ThreadPool; a
// consumer never has two invocations in flight concurrently, even across
// its subscribed keys.
//
// The package makes no cross-key ordering guarantee, does not persist
// values, applies no backpressure, and never delivers a value to a
// consumer that subscribed after that value was enqueued.
package mqproc
