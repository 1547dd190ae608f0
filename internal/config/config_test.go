package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
server:
  port: "9090"
storage:
  driver: sqlite
  sqlite_path: /tmp/arcade.db
game:
  sample_size: 5
  countdown: 30
  tick_interval: 1s
forum:
  flush_delay: 1s
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ARCADE_STORAGE_DRIVER", "redis")
	t.Setenv("ARCADE_COUNTDOWN", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from yaml, got %q", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "redis" {
		t.Fatalf("expected env override, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.SQLitePath != "/tmp/arcade.db" {
		t.Fatalf("expected sqlite path kept, got %q", cfg.Storage.SQLitePath)
	}
	if cfg.Game.Countdown != 20 || cfg.Game.SampleSize != 5 {
		t.Fatalf("unexpected game config %+v", cfg.Game)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on bad input, got %v", got)
	}
	if got := TTLDuration("1500ms", time.Minute); got != 1500*time.Millisecond {
		t.Fatalf("expected parsed duration, got %v", got)
	}
}
