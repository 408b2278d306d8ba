package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rzbill/dispatchq/internal/runtime"
)

// watchHealth polls rt.CheckHealth on an interval and mirrors the result
// into hs's serving status for both the empty (overall) service name and
// "dispatchq", so clients can watch either.
func watchHealth(ctx context.Context, rt *runtime.Runtime, hs *health.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	report := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if err := rt.CheckHealth(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus("dispatchq", status)
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report()
		}
	}
}
