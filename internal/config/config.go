package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for the dispatchq demo/ops
// surfaces. It has nothing to say about the core itself (mqproc takes no
// configuration beyond a ThreadPool) — these are knobs for the process
// that hosts one or more MultiQueueProcessor instances.
type Config struct {
	// DefaultNamespaceName is the namespace the CLI operates on when none
	// is given explicitly.
	DefaultNamespaceName string `json:"defaultNamespaceName"`
	// WorkerPoolSize is the number of goroutine workers backing the
	// shared ThreadPool.
	WorkerPoolSize int `json:"workerPoolSize"`
	// WorkerPoolCapacity bounds tasks in flight across the whole pool;
	// zero means unbounded.
	WorkerPoolCapacity int64 `json:"workerPoolCapacity"`
	// AuditDataDir, if non-empty, enables the delivery-audit sidecar and
	// names the Pebble data directory it writes to. Empty disables it —
	// the core runs with no persistence at all.
	AuditDataDir string `json:"auditDataDir"`
	// LogLevel is one of debug/info/warn/error.
	LogLevel string `json:"logLevel"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DefaultNamespaceName: "default",
		WorkerPoolSize:       8,
		WorkerPoolCapacity:   0,
		AuditDataDir:         "",
		LogLevel:             "info",
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults. YAML is not supported yet — same posture as the teacher's
// loader, which also only accepts JSON today.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return Config{}, errors.New("yaml config not supported yet; use JSON for now")
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
