package runtime

import (
	"context"
	"errors"

	"github.com/rzbill/dispatchq/internal/audit"
	cfgpkg "github.com/rzbill/dispatchq/internal/config"
	"github.com/rzbill/dispatchq/internal/namespace"
	pebblestore "github.com/rzbill/dispatchq/internal/storage/pebble"
	"github.com/rzbill/dispatchq/pkg/log"
	"github.com/rzbill/dispatchq/pkg/mqproc"
	"github.com/rzbill/dispatchq/pkg/workerpool"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// Logger is used for the Runtime's own lifecycle logging. If nil, a
	// default logger at Config.LogLevel is constructed.
	Logger log.Logger
	// Fsync controls WAL durability for the audit trail. Only meaningful
	// when Config.AuditDataDir is non-empty.
	Fsync pebblestore.FsyncMode
}

// Runtime wires storage, config, and facades for a single-node instance:
// one worker pool, one namespace registry of dispatch processors sharing
// it, and an optional delivery-audit sidecar.
type Runtime struct {
	config   cfgpkg.Config
	logger   log.Logger
	pool     *workerpool.Pool
	registry *namespace.Registry

	db    *pebblestore.DB
	audit *audit.Trail
}

// Open starts the worker pool and namespace registry, and opens the audit
// trail if Config.AuditDataDir is set.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewLogger(WithConfiguredLevel(opts.Config.LogLevel))
	}

	mqproc.SetObserver(log.NewDispatchBridge(logger))

	pool := workerpool.New(opts.Config.WorkerPoolSize, opts.Config.WorkerPoolCapacity)
	registry := namespace.NewRegistry(pool)

	rt := &Runtime{
		config:   opts.Config,
		logger:   logger,
		pool:     pool,
		registry: registry,
	}

	if opts.Config.AuditDataDir != "" {
		db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.Config.AuditDataDir, Fsync: opts.Fsync})
		if err != nil {
			pool.Stop()
			return nil, err
		}
		rt.db = db
		rt.audit = audit.Open(db)
	}

	return rt, nil
}

// WithConfiguredLevel maps a config LogLevel string onto a log.LoggerOption.
func WithConfiguredLevel(level string) log.LoggerOption {
	switch level {
	case "debug":
		return log.WithLevel(log.DebugLevel)
	case "warn":
		return log.WithLevel(log.WarnLevel)
	case "error":
		return log.WithLevel(log.ErrorLevel)
	default:
		return log.WithLevel(log.InfoLevel)
	}
}

// Close stops the worker pool and closes the audit trail's storage, if any.
func (r *Runtime) Close() error {
	if r.pool != nil {
		r.pool.Stop()
	}
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth reports whether the runtime's storage (if any) is reachable.
// A runtime with no audit trail configured is always healthy: it has
// nothing but in-memory state to check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return errors.New("audit store unreachable: " + err.Error())
	}
	return it.Close()
}

// EnsureNamespace returns the dispatch processor for name, creating it on
// first use. Infallible: the registry has no persistence to fail against.
func (r *Runtime) EnsureNamespace(name string) *mqproc.MultiQueueProcessor[string, []byte] {
	return r.registry.EnsureNamespace(name)
}

// DefaultNamespace returns the processor for the configured default
// namespace, creating it on first use.
func (r *Runtime) DefaultNamespace() *mqproc.MultiQueueProcessor[string, []byte] {
	return r.registry.EnsureNamespace(r.config.DefaultNamespaceName)
}

// Namespaces lists every namespace created so far.
func (r *Runtime) Namespaces() []string { return r.registry.Names() }

// RecordDelivery appends a delivery record to the audit trail if one is
// configured; it is a no-op otherwise. Callers should not treat a returned
// error as fatal to dispatch.
func (r *Runtime) RecordDelivery(e audit.Entry) error {
	if r.audit == nil {
		return nil
	}
	return r.audit.Record(e)
}

// AuditTrail exposes the audit trail directly, or nil if none is configured.
func (r *Runtime) AuditTrail() *audit.Trail { return r.audit }

// DB exposes the underlying audit store for advanced operations, or nil if
// no audit trail is configured.
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() log.Logger { return r.logger }
