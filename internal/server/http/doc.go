// Package httpserver provides a minimal REST gateway for a dispatchq
// instance: namespace creation, publish, SSE subscribe (with optional CEL
// filtering), health, and stats.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, rt.Logger())
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
