package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{"CONFIG_FILE", "PORT", "TODO_DATA_FILE", "LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR", "TRACING_ENABLED"}

// clearEnv unsets every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Data.File != DefaultDataFile {
		t.Fatalf("unexpected data file %q", cfg.Data.File)
	}
	if cfg.Metrics.Addr != DefaultMetricsAddr {
		t.Fatalf("unexpected metrics addr %q", cfg.Metrics.Addr)
	}
	if cfg.Tracing.Enabled {
		t.Fatal("tracing should be off by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("TODO_DATA_FILE", "/srv/todos.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Data.File != "/srv/todos.json" {
		t.Fatalf("unexpected data file %q", cfg.Data.File)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != "" {
		t.Fatalf("expected metrics listener disabled, got %q", cfg.Metrics.Addr)
	}
	if !cfg.Tracing.Enabled {
		t.Fatal("expected tracing enabled")
	}
}

func TestLoadPortWithHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8081" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORT":            "80 80",
		"TRACING_ENABLED": "sometimes",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadTOMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "todo.toml", `
[server]
addr = ":7000"

[data]
file = "fixtures/todos.json"

[log]
level = "warn"
format = "json"

[tracing]
enabled = true
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Data.File != "fixtures/todos.json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "json" || !cfg.Tracing.Enabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Metrics.Addr != DefaultMetricsAddr {
		t.Fatalf("expected default metrics addr to survive, got %q", cfg.Metrics.Addr)
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "todo.yaml", `
server:
  addr: ":7001"
data:
  file: from-file.json
metrics:
  addr: ":7002"
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TODO_DATA_FILE", "from-env.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":7001" || cfg.Metrics.Addr != ":7002" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Data.File != "from-env.json" {
		t.Fatalf("env should override file, got %q", cfg.Data.File)
	}
}

func TestLoadUnsupportedFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeFile(t, "todo.ini", "addr=:1"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for .ini config")
	}
}

func TestValidateAddressCollision(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Addr = cfg.Server.Addr
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected collision error")
	}
}
