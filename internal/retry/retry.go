// Package retry adapts a fallible consumer callback to
// mqproc.Consumer's must-not-fail contract, adding attempt tracking,
// exponential backoff, and dead-lettering. It is a supplement to the
// dispatch core, not part of it: a retry simply reschedules itself with
// time.AfterFunc rather than going through a second MultiQueueProcessor,
// so nothing here persists state and there is no second worker pool to
// manage.
package retry

import (
	"math"
	"time"

	"github.com/rzbill/dispatchq/pkg/mqproc"
)

const (
	baseBackoff = 200 * time.Millisecond
	maxBackoff  = 30 * time.Second
)

// Handler is a consumer callback that can fail. Returning a non-nil error
// schedules a retry (or, once MaxAttempts is exhausted, dead-letters the
// value) instead of the value being silently dropped.
type Handler[K comparable, V any] func(key K, value V) error

// DeadLetter receives (key, value, last error) once a value has exhausted
// its retry budget.
type DeadLetter[K comparable, V any] func(key K, value V, err error)

// Options configures Wrap.
type Options[K comparable, V any] struct {
	// MaxAttempts is the number of times Handler is invoked before a
	// value is dead-lettered. Zero means retry forever.
	MaxAttempts int
	// DeadLetter, if set, is invoked when MaxAttempts is exhausted.
	DeadLetter DeadLetter[K, V]
}

// Wrap returns an mqproc.Consumer that calls handler, and on error
// reschedules the (key, value) pair onto itself after an exponential,
// per-value backoff (base 200ms, capped at 30s), until opts.MaxAttempts
// is reached, at which point it calls opts.DeadLetter (if any) and gives
// up on that value.
func Wrap[K comparable, V any](handler Handler[K, V], opts Options[K, V]) mqproc.Consumer[K, V] {
	return &wrapper[K, V]{handler: handler, maxAttempts: opts.MaxAttempts, deadLetter: opts.DeadLetter}
}

type wrapper[K comparable, V any] struct {
	handler     Handler[K, V]
	maxAttempts int
	deadLetter  DeadLetter[K, V]
}

func (w *wrapper[K, V]) Consume(key K, value V) {
	w.attempt(key, value, 1)
}

func (w *wrapper[K, V]) attempt(key K, value V, n int) {
	err := w.handler(key, value)
	if err == nil {
		return
	}
	if w.maxAttempts > 0 && n >= w.maxAttempts {
		if w.deadLetter != nil {
			w.deadLetter(key, value, err)
		}
		return
	}
	delay := backoffFor(n)
	time.AfterFunc(delay, func() { w.attempt(key, value, n+1) })
}

// backoffFor returns the exponential backoff for the n'th attempt
// (1-indexed), doubling from baseBackoff and capping at maxBackoff.
func backoffFor(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	shift := n - 1
	if shift > 20 { // guard against overflow well before it matters
		return maxBackoff
	}
	d := time.Duration(float64(baseBackoff) * math.Pow(2, float64(shift)))
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}
