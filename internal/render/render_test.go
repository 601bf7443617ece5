package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/miradorstack/battery-health/internal/models"
)

func sampleReport() models.BatteryHealthReport {
	changes := []models.SoCChange{
		{Timestamp: "t1", SoCChange: 120, Event: "charge"},
		{Timestamp: "t2", SoCChange: 130, Event: "charge"},
		{Timestamp: "t3", SoCChange: 140, Event: "discharge"},
		{Timestamp: "t4", SoCChange: 150, Event: "discharge"},
	}
	return models.BatteryHealthReport{
		VehicleID:     "EV-9",
		Timestamp:     "2024-01-01T00:00:00Z",
		BatteryHealth: models.BatteryHealthData{StateOfHealthPercent: 75, ChargeCycles: 2, DischargeCycles: 1},
		Anomalies: map[string]models.AnomalyResult{
			models.DetectorVoltageImbalance: models.VoltageImbalance{Anomaly: true, VoltageSpread: 0.15, MinVoltage: 3.6, MaxVoltage: 3.75, Message: "Voltage imbalance detected: 0.15V spread"},
			models.DetectorOverheating:      models.Overheating{NoData: true, Message: "No temperature data available"},
			models.DetectorCapacityFade:     models.CapacityFade{Message: "Capacity levels normal"},
			models.DetectorSoCDrift:         models.SoCDrift{Anomaly: true, UnrealisticChangesCount: 4, UnrealisticChanges: changes, Message: "SoC drift detected: 4 unrealistic changes"},
		},
	}
}

func TestTableReport(t *testing.T) {
	out := Table(models.Succeeded(sampleReport()))

	for _, want := range []string{
		"EV-9",
		"75%",
		"Voltage Imbalance",
		"Voltage spread: 0.15V",
		"NO DATA",
		"Soc Drift",
		"... and 1 more",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "t4") {
		t.Fatalf("expected only the first %d changes to be listed:\n%s", maxListedChanges, out)
	}
}

func TestTableFailure(t *testing.T) {
	out := Table(models.Failed(models.ReportFailure{Error: "Failed to generate battery report: boom", VehicleID: "EV-9"}))
	if !strings.Contains(out, "ERROR:") || !strings.Contains(out, "boom") {
		t.Fatalf("unexpected failure output:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, models.Succeeded(sampleReport()), FormatJSON); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"status": "ok"`) {
		t.Fatalf("unexpected JSON output:\n%s", buf.String())
	}
	if err := Write(&buf, models.Succeeded(sampleReport()), "pdf"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestTitle(t *testing.T) {
	if got := Title("voltage_imbalance"); got != "Voltage Imbalance" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestTableZeroResult(t *testing.T) {
	out := Table(models.ReportResult{})
	if !strings.Contains(out, "ERROR:") || !strings.Contains(out, "empty report result") {
		t.Fatalf("unexpected output for zero result:\n%s", out)
	}
}
