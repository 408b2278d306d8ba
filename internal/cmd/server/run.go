package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/rzbill/dispatchq/internal/config"
	"github.com/rzbill/dispatchq/internal/runtime"
	grpcserver "github.com/rzbill/dispatchq/internal/server/grpc"
	httpserver "github.com/rzbill/dispatchq/internal/server/http"
	pebblestore "github.com/rzbill/dispatchq/internal/storage/pebble"
	logpkg "github.com/rzbill/dispatchq/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; defaults to os.Getenv
var getenv = func(key string) string { return os.Getenv(key) }

// Options configures Run.
type Options struct {
	GRPCAddr string
	HTTPAddr string
	Fsync    pebblestore.FsyncMode
	Config   cfgpkg.Config
}

// Run opens a runtime.Runtime and starts its gRPC and HTTP ops surfaces,
// blocking until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	procLogger, err := logpkg.ApplyConfig(&logpkg.Config{
		Level:  getenvDefault("DISPATCHQ_LOG_LEVEL", opts.Config.LogLevel),
		Format: getenvDefault("DISPATCHQ_LOG_FORMAT", "text"),
	})
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	logpkg.RedirectStdLog(procLogger)

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: procLogger, Fsync: opts.Fsync})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("starting dispatchq server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("default_namespace", opts.Config.DefaultNamespaceName),
		logpkg.Int("worker_pool_size", opts.Config.WorkerPoolSize),
	)

	gsrv := grpcserver.New(rt)
	hsrv := httpserver.New(rt, procLogger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := gsrv.ListenAndServe(sctx, opts.GRPCAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("grpc server error", logpkg.Err(err))
		}
	}()
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server error", logpkg.Err(err))
		}
	}()

	<-sctx.Done()
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	return nil
}
