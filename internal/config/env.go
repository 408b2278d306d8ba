package config

import (
	"os"
	"strconv"
)

// FromEnv overlays DISPATCHQ_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("DISPATCHQ_DEFAULT_NAMESPACE_NAME"); v != "" {
		cfg.DefaultNamespaceName = v
	}
	if v := os.Getenv("DISPATCHQ_WORKER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WorkerPoolSize = n
		}
	}
	if v := os.Getenv("DISPATCHQ_WORKER_POOL_CAPACITY"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.WorkerPoolCapacity = n
		}
	}
	if v := os.Getenv("DISPATCHQ_AUDIT_DATA_DIR"); v != "" {
		cfg.AuditDataDir = v
	}
	if v := os.Getenv("DISPATCHQ_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
