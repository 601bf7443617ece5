package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedEntry marks a cell or usage-log entry missing a required field.
var ErrMalformedEntry = errors.New("malformed entry")

// Usage-log event kinds.
const (
	EventCharge    = "charge"
	EventDischarge = "discharge"
)

// BatteryPayload is one snapshot of battery telemetry for a single vehicle.
type BatteryPayload struct {
	VehicleID   string       `json:"vehicle_id,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Cells       []Cell       `json:"cells,omitempty"`
	BatteryPack BatteryPack  `json:"battery_pack"`
	UsageLog    []UsageEvent `json:"battery_usage_log,omitempty"`
}

// Cell holds a single cell reading. Both fields are required.
type Cell struct {
	Voltage     *float64 `json:"voltage"`
	Temperature *float64 `json:"temperature"`
}

// BatteryPack carries rated and measured pack capacity. Missing values decode as zero.
type BatteryPack struct {
	BaselineCapacityKWh float64 `json:"baseline_capacity_kWh"`
	CurrentCapacityKWh  float64 `json:"current_capacity_kWh"`
}

// UsageEvent is one charge or discharge log entry.
type UsageEvent struct {
	Event     *string  `json:"event"`
	SoCStart  *float64 `json:"soc_start"`
	SoCEnd    *float64 `json:"soc_end"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// DecodePayload parses a JSON battery payload.
func DecodePayload(r io.Reader) (BatteryPayload, error) {
	var payload BatteryPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return BatteryPayload{}, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

// CellVoltage returns the voltage of cell i or ErrMalformedEntry.
func (p BatteryPayload) CellVoltage(i int) (float64, error) {
	if p.Cells[i].Voltage == nil {
		return 0, missingField("cells", i, "voltage")
	}
	return *p.Cells[i].Voltage, nil
}

// CellTemperature returns the temperature of cell i or ErrMalformedEntry.
func (p BatteryPayload) CellTemperature(i int) (float64, error) {
	if p.Cells[i].Temperature == nil {
		return 0, missingField("cells", i, "temperature")
	}
	return *p.Cells[i].Temperature, nil
}

// EventKind returns the event kind of usage-log entry i.
func (p BatteryPayload) EventKind(i int) (string, error) {
	if p.UsageLog[i].Event == nil {
		return "", missingField("battery_usage_log", i, "event")
	}
	return *p.UsageLog[i].Event, nil
}

// SoCDelta returns soc_end - soc_start for usage-log entry i.
func (p BatteryPayload) SoCDelta(i int) (float64, error) {
	entry := p.UsageLog[i]
	if entry.SoCStart == nil {
		return 0, missingField("battery_usage_log", i, "soc_start")
	}
	if entry.SoCEnd == nil {
		return 0, missingField("battery_usage_log", i, "soc_end")
	}
	return *entry.SoCEnd - *entry.SoCStart, nil
}

func missingField(section string, index int, field string) error {
	return fmt.Errorf("%w: %s[%d] missing %q", ErrMalformedEntry, section, index, field)
}

// Float64 returns a pointer to v. Handy when building payloads in code.
func Float64(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
