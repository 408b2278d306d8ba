// Package grpcserver hosts the standard gRPC health-checking service for a
// dispatchq instance, wired to runtime.Runtime.CheckHealth. Dispatch itself
// has no gRPC surface: consumers attach in-process via mqproc.Subscribe, so
// there is nothing left to remote beyond liveness/readiness.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := grpcserver.New(rt)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":50051")
package grpcserver
