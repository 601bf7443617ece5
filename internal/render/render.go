// Package render turns report results into text for terminals.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"

	"github.com/miradorstack/battery-health/internal/models"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// maxListedChanges bounds how many SoC drift entries the table shows.
const maxListedChanges = 3

// Write renders result to w in the requested format.
func Write(w io.Writer, result models.ReportResult, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatTable, "":
		_, err := io.WriteString(w, Table(result))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Table renders result as aligned text.
func Table(result models.ReportResult) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true

	if !result.OK() {
		failure := result.Failure
		if failure == nil {
			failure = &models.ReportFailure{Error: "empty report result"}
		}
		table.AddRow("ERROR:", failure.Error)
		table.AddRow("VEHICLE:", failure.VehicleID)
		table.AddRow("TIMESTAMP:", failure.Timestamp)
		return table.String() + "\n"
	}

	report := result.Report
	table.AddRow("VEHICLE:", report.VehicleID)
	table.AddRow("TIMESTAMP:", report.Timestamp)
	table.AddRow("STATE OF HEALTH:", fmt.Sprintf("%g%%", report.BatteryHealth.StateOfHealthPercent))
	table.AddRow("CHARGE CYCLES:", report.BatteryHealth.ChargeCycles)
	table.AddRow("DISCHARGE CYCLES:", report.BatteryHealth.DischargeCycles)
	table.AddRow("")

	table.AddRow("DETECTOR", "STATUS", "MESSAGE")
	for _, name := range report.DetectorNames() {
		anomaly := report.Anomalies[name]
		table.AddRow(Title(name), statusLabel(anomaly), anomaly.Summary())
		if !anomaly.IsAnomaly() {
			continue
		}
		for _, detail := range Details(anomaly) {
			table.AddRow("", "", "- "+detail)
		}
	}
	return table.String() + "\n"
}

// Details lists the detector-specific fields of a flagged result.
func Details(anomaly models.AnomalyResult) []string {
	switch a := anomaly.(type) {
	case models.VoltageImbalance:
		return []string{
			fmt.Sprintf("Voltage spread: %gV", a.VoltageSpread),
			fmt.Sprintf("Min voltage: %gV", a.MinVoltage),
			fmt.Sprintf("Max voltage: %gV", a.MaxVoltage),
		}
	case models.Overheating:
		details := []string{
			fmt.Sprintf("Max temperature: %g°C", a.MaxTemperature),
			fmt.Sprintf("Hot cells: %d", a.HotCellsCount),
		}
		if a.CriticalCellsCount > 0 {
			details = append(details, fmt.Sprintf("Critical cells: %d", a.CriticalCellsCount))
		}
		return details
	case models.CapacityFade:
		return []string{fmt.Sprintf("Capacity loss: %g%%", a.CapacityLossPercent)}
	case models.SoCDrift:
		details := []string{fmt.Sprintf("Unrealistic changes: %d", a.UnrealisticChangesCount)}
		for i, change := range a.UnrealisticChanges {
			if i == maxListedChanges {
				details = append(details, fmt.Sprintf("... and %d more", len(a.UnrealisticChanges)-maxListedChanges))
				break
			}
			details = append(details, fmt.Sprintf("%s: %g%% (%s)", change.Timestamp, change.SoCChange, change.Event))
		}
		return details
	default:
		return nil
	}
}

// Title turns a detector name such as "soc_drift" into "Soc Drift".
func Title(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func statusLabel(anomaly models.AnomalyResult) string {
	switch {
	case anomaly.Empty():
		return "NO DATA"
	case anomaly.IsAnomaly():
		return "ANOMALY"
	default:
		return "OK"
	}
}
