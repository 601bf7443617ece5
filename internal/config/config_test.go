package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BATTERY_HEALTH_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Detection.VoltageImbalanceThreshold != 0.1 || cfg.Detection.CriticalTempThreshold != 80 {
		t.Fatalf("unexpected default thresholds %+v", cfg.Detection)
	}
	if !cfg.Detection.Parallel {
		t.Fatalf("expected parallel detectors by default")
	}
	if cfg.Server.GracefulTimeout != 10*time.Second {
		t.Fatalf("unexpected graceful timeout %v", cfg.Server.GracefulTimeout)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":6000"
  gracefulTimeout: 3s
logging:
  level: debug
detection:
  voltageImbalanceThreshold: 0.05
  overheatingThreshold: 55
  criticalTempThreshold: 75
  capacityFadeThreshold: 15
  parallel: false
`)
	t.Setenv("BATTERY_HEALTH_CAPACITY_FADE_THRESHOLD", "30")
	t.Setenv("BATTERY_HEALTH_LOG_FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":6000" || cfg.Server.GracefulTimeout != 3*time.Second {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	thresholds := cfg.Detection.Thresholds()
	if thresholds.VoltageImbalance != 0.05 || thresholds.Overheating != 55 || thresholds.CriticalTemp != 75 {
		t.Fatalf("unexpected thresholds %+v", thresholds)
	}
	if thresholds.CapacityFade != 30 {
		t.Fatalf("expected env override for capacity fade, got %v", thresholds.CapacityFade)
	}
	if cfg.Detection.Parallel {
		t.Fatalf("expected parallel disabled from file")
	}
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	path := writeConfig(t, `
detection:
  overheatingThreshold: 90
  criticalTempThreshold: 80
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
