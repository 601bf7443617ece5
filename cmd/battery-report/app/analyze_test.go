package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/miradorstack/battery-health/internal/api"
	"github.com/miradorstack/battery-health/internal/config"
	"github.com/miradorstack/battery-health/internal/detectors"
	"github.com/miradorstack/battery-health/internal/engine"
	"github.com/miradorstack/battery-health/internal/services"
)

const scenarioJSON = `{
  "vehicle_id": "EV-001",
  "timestamp": "2024-05-01T12:00:00Z",
  "cells": [
    {"voltage": 3.6, "temperature": 25},
    {"voltage": 3.75, "temperature": 61}
  ],
  "battery_pack": {"baseline_capacity_kWh": 60, "current_capacity_kWh": 45},
  "battery_usage_log": [
    {"event": "charge", "soc_start": 10, "soc_end": 90},
    {"event": "discharge", "soc_start": 90, "soc_end": 5}
  ]
}`

func executeAnalyze(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BATTERY_HEALTH_CONFIG", "")
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"analyze"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFromStdinJSON(t *testing.T) {
	out, err := executeAnalyze(t, scenarioJSON, "-o", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{`"status": "ok"`, `"state_of_health_percent": 75`, `"capacity_loss_percent": 25`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAnalyzeFromFileTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(scenarioJSON), 0o600); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	out, err := executeAnalyze(t, "", path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "EV-001") || !strings.Contains(out, "Capacity Fade") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestAnalyzeReportFailureExitsWithError(t *testing.T) {
	payload := strings.Replace(scenarioJSON, `"baseline_capacity_kWh": 60`, `"baseline_capacity_kWh": 0`, 1)
	out, err := executeAnalyze(t, payload, "-o", "json")
	if !errors.Is(err, ErrReportFailed) {
		t.Fatalf("expected ErrReportFailed, got %v", err)
	}
	if !strings.Contains(out, `"status": "error"`) {
		t.Fatalf("expected failure record in output:\n%s", out)
	}
}

func TestAnalyzeRejectsInvalidJSON(t *testing.T) {
	if _, err := executeAnalyze(t, "{not json"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func startServer(t *testing.T) string {
	t.Helper()
	registry, err := detectors.NewStandardRegistry(detectors.DefaultThresholds(), detectors.WithParallel(true))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	svc := services.NewBatteryService(nil, engine.NewAssembler(nil, registry))
	server, err := api.NewServer(config.ServerConfig{Address: "127.0.0.1:0", GracefulTimeout: time.Second}, svc)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	go func() { _ = server.Start() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.GracefulTimeout())
		defer cancel()
		server.Shutdown(ctx)
	})
	return server.Address()
}

func TestAnalyzeRemote(t *testing.T) {
	addr := startServer(t)

	out, err := executeAnalyze(t, scenarioJSON, "--remote", addr, "-o", "json")
	if err != nil {
		t.Fatalf("remote analyze: %v", err)
	}
	var decoded struct {
		Status string `json:"status"`
		Report struct {
			VehicleID     string `json:"vehicle_id"`
			BatteryHealth struct {
				StateOfHealthPercent float64 `json:"state_of_health_percent"`
			} `json:"battery_health"`
			Anomalies map[string]map[string]any `json:"anomalies"`
		} `json:"report"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if decoded.Status != "ok" || decoded.Report.VehicleID != "EV-001" {
		t.Fatalf("unexpected remote result:\n%s", out)
	}
	if decoded.Report.BatteryHealth.StateOfHealthPercent != 75 {
		t.Fatalf("unexpected state of health in:\n%s", out)
	}
	if spread := decoded.Report.Anomalies["voltage_imbalance"]["voltage_spread"]; spread != 0.15 {
		t.Fatalf("expected voltage spread 0.15, got %v", spread)
	}

	malformed := strings.Replace(scenarioJSON, `{"voltage": 3.6, "temperature": 25}`, `{"temperature": 25}`, 1)
	out, err = executeAnalyze(t, malformed, "--remote", addr, "-o", "json")
	if !errors.Is(err, ErrReportFailed) {
		t.Fatalf("expected ErrReportFailed, got %v", err)
	}
	if !strings.Contains(out, `"status": "error"`) || !strings.Contains(out, "voltage") {
		t.Fatalf("expected failure record naming the missing field:\n%s", out)
	}
}
