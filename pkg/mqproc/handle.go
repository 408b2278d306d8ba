package mqproc

import "weak"

// Handle is a cooperative cancellation source, mirroring the reference
// implementation's CancellationTokenSource/CancellationToken pair. It has
// no effect on the processor's own delivery or fairness guarantees; it
// exists so a long-running Consume implementation can hold a Token and
// notice, mid-task, that whoever owns the Handle has gone away or asked
// it to stop.
type Handle struct {
	flag *bool
}

// NewHandle creates a Handle in the not-cancelled state.
func NewHandle() *Handle {
	f := false
	return &Handle{flag: &f}
}

// Cancel requests cancellation. Idempotent.
func (h *Handle) Cancel() { *h.flag = true }

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool { return *h.flag }

// Token returns a weak view of h that a consumer callback can capture
// without keeping h alive. A Token reports cancelled both when Cancel was
// called and when the Handle itself has been garbage collected — the
// latter mirrors "the consumer is never invoked after all references are
// gone".
func (h *Handle) Token() Token {
	return Token{ref: weak.Make(h.flag)}
}

// Token is the read-only, weakly-held counterpart to Handle.
type Token struct {
	ref weak.Pointer[bool]
}

// Cancelled reports whether the originating Handle requested cancellation
// or has been dropped.
func (t Token) Cancelled() bool {
	p := t.ref.Value()
	return p == nil || *p
}
