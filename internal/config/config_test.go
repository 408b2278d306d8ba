package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DefaultNamespaceName != "default" {
		t.Fatalf("default ns name")
	}
	if cfg.WorkerPoolSize != 8 {
		t.Fatalf("default worker pool size")
	}
	if cfg.AuditDataDir != "" {
		t.Fatalf("expected audit disabled by default")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dispatchq.json")
	data := []byte(`{"defaultNamespaceName":"prod","workerPoolSize":32,"auditDataDir":"/tmp/audit"}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultNamespaceName != "prod" {
		t.Fatalf("expected prod")
	}
	if cfg.WorkerPoolSize != 32 {
		t.Fatalf("expected 32")
	}
	if cfg.AuditDataDir != "/tmp/audit" {
		t.Fatalf("expected audit dir to round trip")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("DISPATCHQ_DEFAULT_NAMESPACE_NAME", "staging")
	os.Setenv("DISPATCHQ_WORKER_POOL_SIZE", "24")
	t.Cleanup(func() {
		os.Unsetenv("DISPATCHQ_DEFAULT_NAMESPACE_NAME")
		os.Unsetenv("DISPATCHQ_WORKER_POOL_SIZE")
	})
	FromEnv(&cfg)
	if cfg.DefaultNamespaceName != "staging" {
		t.Fatalf("env override name")
	}
	if cfg.WorkerPoolSize != 24 {
		t.Fatalf("env override pool size")
	}
}
