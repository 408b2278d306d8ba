// Package namespace holds a registry of independent dispatch processors,
// one per namespace name, sharing a single worker pool. It replaces the
// original Pebble-backed topic-metadata namespace with an in-memory
// get-or-create registry over *mqproc.MultiQueueProcessor, matching the
// core's non-persistence contract.
package namespace

import (
	"sync"
	"time"

	"github.com/rzbill/dispatchq/pkg/mqproc"
)

// Meta describes a namespace's identity and creation time. It carries no
// storage limits (Partitions/PayloadMaxBytes/etc., from the teacher's
// Pebble-backed variant) because the dispatch core has no partitions or
// payload caps to configure.
type Meta struct {
	Name        string `json:"name"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

// Registry is a get-or-create map of namespace name to dispatch
// processor. All processors in a Registry share the same ThreadPool.
type Registry struct {
	pool mqproc.ThreadPool

	mu         sync.RWMutex
	processors map[string]*mqproc.MultiQueueProcessor[string, []byte]
	meta       map[string]Meta
}

// NewRegistry builds an empty Registry backed by pool.
func NewRegistry(pool mqproc.ThreadPool) *Registry {
	return &Registry{
		pool:       pool,
		processors: make(map[string]*mqproc.MultiQueueProcessor[string, []byte]),
		meta:       make(map[string]Meta),
	}
}

// EnsureNamespace returns the processor for name, creating it (and its
// Meta record) if this is the first time name has been seen. Idempotent.
func (r *Registry) EnsureNamespace(name string) *mqproc.MultiQueueProcessor[string, []byte] {
	r.mu.RLock()
	if p, ok := r.processors[name]; ok {
		r.mu.RUnlock()
		return p
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.processors[name]; ok {
		return p
	}
	p := mqproc.New[string, []byte](r.pool)
	r.processors[name] = p
	r.meta[name] = Meta{Name: name, CreatedAtMs: time.Now().UnixMilli()}
	return p
}

// Get returns the processor for name without creating it.
func (r *Registry) Get(name string) (*mqproc.MultiQueueProcessor[string, []byte], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.processors[name]
	return p, ok
}

// Names lists every namespace currently registered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.processors))
	for name := range r.processors {
		names = append(names, name)
	}
	return names
}

// MetaOf returns the Meta record for name, if it exists.
func (r *Registry) MetaOf(name string) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meta[name]
	return m, ok
}
