package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/content-lab/internal/config"
)

const baseConfig = `shutdown_timeout = "20s"

[server]
port = 8080

[database]
host = "localhost"
name = "content_lab"
user = "content_lab"

[api.pagination]
default_page_size = 20
max_page_size = 100

[outbox]
batch_size = 10
`

const databaseSection = `[database]
name = "content_lab"
user = "content_lab"

`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_BaseConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvServiceEnv, "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ShutdownTimeout != "20s" {
		t.Errorf("ShutdownTimeout = %q, want %q", cfg.ShutdownTimeout, "20s")
	}
	if cfg.Outbox.BatchSize != 10 {
		t.Errorf("Outbox.BatchSize = %d, want 10", cfg.Outbox.BatchSize)
	}
}

func TestLoad_WithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	writeFile(t, dir, "config.test.toml", `shutdown_timeout = "60s"

[server]
port = 9090
`)
	t.Chdir(dir)
	t.Setenv(config.EnvServiceEnv, "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ShutdownTimeout != "60s" {
		t.Errorf("ShutdownTimeout = %q, want %q", cfg.ShutdownTimeout, "60s")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Name != "content_lab" {
		t.Errorf("Database.Name = %q, want base value kept", cfg.Database.Name)
	}
}

func TestLoad_MissingOverlayIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvServiceEnv, "staging")

	if _, err := config.Load(); err != nil {
		t.Errorf("Load() error = %v, want nil when overlay file is absent", err)
	}
}

func TestLoad_MissingBase(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := config.Load(); err == nil {
		t.Error("Load() error = nil, want error for missing config.toml")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := config.Parse([]byte("[server\nport = ")); err == nil {
		t.Error("Parse() error = nil, want error")
	}
}

func TestFinalize_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte(baseConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.API.BasePath != "/api" {
		t.Errorf("API.BasePath = %q, want %q", cfg.API.BasePath, "/api")
	}
	if cfg.Version == "" {
		t.Error("Version is empty after Finalize")
	}
	if got := cfg.ShutdownTimeoutDuration(); got != 20*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v, want 20s", got)
	}
	if got := cfg.Server.WriteTimeoutDuration(); got != 15*time.Minute {
		t.Errorf("Server.WriteTimeoutDuration() = %v, want 15m", got)
	}
	if cfg.Outbox.MaxAttempts == 0 {
		t.Error("Outbox.MaxAttempts not defaulted")
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvServiceShutdownTimeout, "45s")
	t.Setenv(config.EnvServerPort, "9191")
	t.Setenv("OUTBOX_BATCH_SIZE", "7")
	t.Setenv("API_BASE_PATH", "/v2")

	cfg, err := config.Parse([]byte(baseConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("ShutdownTimeout = %q, want %q", cfg.ShutdownTimeout, "45s")
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Outbox.BatchSize != 7 {
		t.Errorf("Outbox.BatchSize = %d, want 7", cfg.Outbox.BatchSize)
	}
	if cfg.API.BasePath != "/v2" {
		t.Errorf("API.BasePath = %q, want %q", cfg.API.BasePath, "/v2")
	}
}

func TestFinalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"shutdown timeout", `shutdown_timeout = "later"`},
		{"server port", "[server]\nport = 70000"},
		{"outbox backoff", "[outbox]\nbase_backoff = \"1h\"\nmax_backoff = \"1s\""},
		{"storage size", "[storage]\nmax_upload_size = \"lots\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.doc + "\n\n" + databaseSection))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if err := cfg.Finalize(); err == nil {
				t.Error("Finalize() error = nil, want error")
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:8080")
	}
}
