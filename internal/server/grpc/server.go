package grpcserver

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/rzbill/dispatchq/internal/runtime"
)

// pollInterval is how often the health server's serving status is
// refreshed from the runtime's own health check.
const pollInterval = 2 * time.Second

// Server owns the gRPC server instance and its runtime. Dispatch itself
// has no wire protocol of its own — mqproc is embedded, not remoted — so
// the only service this hosts is standard gRPC health checking.
type Server struct {
	rt     *runtime.Runtime
	grpc   *grpc.Server
	health *health.Server
	lis    net.Listener
}

// New constructs a gRPC server, registers the health service, and enables
// server reflection so grpcurl and similar tools can discover the health
// service without a checked-in descriptor set — there's no other RPC
// surface to reflect over, but the health service should still be
// discoverable the same way a fuller service would be.
func New(rt *runtime.Runtime, opts ...grpc.ServerOption) *Server {
	hs := health.NewServer()
	s := &Server{rt: rt, grpc: grpc.NewServer(opts...), health: hs}
	healthpb.RegisterHealthServer(s.grpc, hs)
	reflection.Register(s.grpc)
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchHealth(watchCtx, s.rt, s.health, pollInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
