package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	v, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg, err := Survey(v)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}
	if cfg.StabilizationDelay != 5*time.Second {
		t.Errorf("StabilizationDelay = %v, want 5s", cfg.StabilizationDelay)
	}
	if cfg.ResetEvery != 5 {
		t.Errorf("ResetEvery = %d, want 5", cfg.ResetEvery)
	}
	if len(cfg.MonitoredSSIDs) != 0 {
		t.Errorf("MonitoredSSIDs = %v, want empty (monitor everything)", cfg.MonitoredSSIDs)
	}
	if cfg.Tests.PingTarget != "8.8.8.8" {
		t.Errorf("PingTarget = %q, want 8.8.8.8", cfg.Tests.PingTarget)
	}
	if cfg.Tests.SpeedTestEnabled {
		t.Error("speed test must be opt-in")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wavescout.yaml")
	content := `logging:
  level: debug
survey:
  monitored_ssids: ["HomeNet", "LabNet"]
  cache_ttl: 90s
  tests:
    ping_target: 1.1.1.1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg, err := Survey(v)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(cfg.MonitoredSSIDs) != 2 || cfg.MonitoredSSIDs[0] != "HomeNet" {
		t.Errorf("MonitoredSSIDs = %v", cfg.MonitoredSSIDs)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}
	if cfg.Tests.PingTarget != "1.1.1.1" {
		t.Errorf("PingTarget = %q, want 1.1.1.1", cfg.Tests.PingTarget)
	}
	// Values not set in the file keep their defaults.
	if cfg.Tests.PingCount != 4 {
		t.Errorf("PingCount = %d, want default 4", cfg.Tests.PingCount)
	}
	if v.GetString("logging.level") != "debug" {
		t.Errorf("logging.level = %q, want debug", v.GetString("logging.level"))
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicit but missing config file must error")
	}
}

func TestNewLogger(t *testing.T) {
	v, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("default logger: %v", err)
	}
	_ = logger.Sync()

	v.Set("logging.level", "not-a-level")
	if _, err := NewLogger(v); err == nil {
		t.Error("invalid level must error")
	}

	v.Set("logging.level", "info")
	v.Set("logging.format", "xml")
	if _, err := NewLogger(v); err == nil {
		t.Error("invalid format must error")
	}
}
