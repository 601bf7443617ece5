package models

import (
	"encoding/json"
	"sort"
)

// DefaultVehicleID is used when the payload does not name a vehicle.
const DefaultVehicleID = "Unknown"

// BatteryHealthData holds the derived pack health metrics.
type BatteryHealthData struct {
	StateOfHealthPercent float64 `json:"state_of_health_percent"`
	ChargeCycles         int     `json:"charge_cycles"`
	DischargeCycles      int     `json:"discharge_cycles"`
}

// BatteryHealthReport is the outcome of one successful analysis.
type BatteryHealthReport struct {
	VehicleID     string                   `json:"vehicle_id"`
	Timestamp     string                   `json:"timestamp"`
	BatteryHealth BatteryHealthData        `json:"battery_health"`
	Anomalies     map[string]AnomalyResult `json:"anomalies"`
}

// DetectorNames returns the anomaly keys in lexical order.
func (r BatteryHealthReport) DetectorNames() []string {
	names := make([]string, 0, len(r.Anomalies))
	for name := range r.Anomalies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlaggedCount returns how many detectors raised an anomaly.
func (r BatteryHealthReport) FlaggedCount() int {
	count := 0
	for _, result := range r.Anomalies {
		if result.IsAnomaly() {
			count++
		}
	}
	return count
}

// ReportFailure describes an analysis that could not produce a report.
type ReportFailure struct {
	Error     string `json:"error"`
	VehicleID string `json:"vehicle_id"`
	Timestamp string `json:"timestamp"`
}

// ReportResult holds exactly one of Report or Failure.
type ReportResult struct {
	Report  *BatteryHealthReport
	Failure *ReportFailure
}

// Succeeded wraps a report.
func Succeeded(report BatteryHealthReport) ReportResult {
	return ReportResult{Report: &report}
}

// Failed wraps a failure.
func Failed(failure ReportFailure) ReportResult {
	return ReportResult{Failure: &failure}
}

// OK reports whether the result carries a report.
func (r ReportResult) OK() bool {
	return r.Report != nil
}

// Result status values used in the serialized form.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

type reportResultJSON struct {
	Status string               `json:"status"`
	Report *BatteryHealthReport `json:"report,omitempty"`
	Error  *ReportFailure       `json:"error,omitempty"`
}

// MarshalJSON renders the union with an explicit status discriminator.
func (r ReportResult) MarshalJSON() ([]byte, error) {
	out := reportResultJSON{Status: StatusOK, Report: r.Report}
	if !r.OK() {
		out = reportResultJSON{Status: StatusError, Error: r.Failure}
	}
	return json.Marshal(out)
}
