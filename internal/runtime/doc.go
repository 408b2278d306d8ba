// Package runtime wires storage, config, and facades into a single-node
// dispatchq instance: a worker pool, a namespace registry of dispatch
// processors sharing it, and an optional delivery-audit sidecar.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	proc := rt.DefaultNamespace()
//	proc.Subscribe("orders", mqproc.NewConsumerFunc(func(key string, value []byte) {
//	    rt.Logger().Info("delivered", log.Str("key", key))
//	}))
package runtime
