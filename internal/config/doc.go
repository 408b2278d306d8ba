// Package config provides loading and environment overlay for dispatchq
// process configuration. It exposes a Default() baseline, a JSON Load, an
// environment overlay (FromEnv), and DefaultDataDir; the resulting Config is
// passed to the runtime and servers inside their own Options structs.
//
// Example:
//
//	cfg := config.Default()
//	// Optionally load from file and overlay env vars
//	if fileCfg, err := config.Load("/etc/dispatchq.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	// Pass cfg into runtime.Options
//	rt, _ := runtime.Open(runtime.Options{Config: cfg, Fsync: pebblestore.FsyncModeAlways})
//	defer rt.Close()
package config
