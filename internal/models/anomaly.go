package models

// Detector names, used as keys in BatteryHealthReport.Anomalies.
const (
	DetectorVoltageImbalance = "voltage_imbalance"
	DetectorOverheating      = "overheating"
	DetectorCapacityFade     = "capacity_fade"
	DetectorSoCDrift         = "soc_drift"
)

// Severity grades the overheating result.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AnomalyResult is implemented only by the four result types in this package.
// Consumers are expected to type-switch over the concrete variants.
type AnomalyResult interface {
	// Detector returns the name of the detector that produced the result.
	Detector() string
	// IsAnomaly reports whether the detector's threshold was exceeded.
	IsAnomaly() bool
	// Summary is the human-readable message.
	Summary() string
	// Empty reports whether the detector had no input to look at.
	Empty() bool

	sealed()
}

// VoltageImbalance reports the spread between the lowest and highest cell voltage.
// Anomaly is decided on the exact spread while VoltageSpread is rounded to 3
// decimals, so a flagged result may show a spread equal to the threshold
// (0.1004 V is flagged against 0.1 V and reported as 0.1).
type VoltageImbalance struct {
	Anomaly       bool    `json:"anomaly"`
	NoData        bool    `json:"no_data,omitempty"`
	VoltageSpread float64 `json:"voltage_spread"`
	MinVoltage    float64 `json:"min_voltage"`
	MaxVoltage    float64 `json:"max_voltage"`
	Message       string  `json:"message"`
}

// Overheating reports cells above the overheating and critical temperature thresholds.
type Overheating struct {
	Anomaly            bool     `json:"anomaly"`
	NoData             bool     `json:"no_data,omitempty"`
	MaxTemperature     float64  `json:"max_temperature"`
	AvgTemperature     float64  `json:"avg_temperature"`
	HotCellsCount      int      `json:"hot_cells_count"`
	CriticalCellsCount int      `json:"critical_cells_count"`
	Severity           Severity `json:"severity,omitempty"`
	Message            string   `json:"message"`
}

// CapacityFade reports capacity lost relative to the baseline.
type CapacityFade struct {
	Anomaly             bool    `json:"anomaly"`
	NoData              bool    `json:"no_data,omitempty"`
	CapacityLossPercent float64 `json:"capacity_loss_percent"`
	Message             string  `json:"message"`
}

// SoCDrift reports usage-log entries whose state-of-charge swing is impossible.
type SoCDrift struct {
	Anomaly                 bool        `json:"anomaly"`
	NoData                  bool        `json:"no_data,omitempty"`
	UnrealisticChangesCount int         `json:"unrealistic_changes_count"`
	UnrealisticChanges      []SoCChange `json:"unrealistic_changes"`
	Message                 string      `json:"message"`
}

// SoCChange is one flagged usage-log entry.
type SoCChange struct {
	Timestamp string  `json:"timestamp"`
	SoCChange float64 `json:"soc_change"`
	Event     string  `json:"event"`
}

func (VoltageImbalance) Detector() string { return DetectorVoltageImbalance }
func (v VoltageImbalance) IsAnomaly() bool { return v.Anomaly }
func (v VoltageImbalance) Summary() string { return v.Message }
func (v VoltageImbalance) Empty() bool { return v.NoData }
func (VoltageImbalance) sealed() {}

func (Overheating) Detector() string { return DetectorOverheating }
func (o Overheating) IsAnomaly() bool { return o.Anomaly }
func (o Overheating) Summary() string { return o.Message }
func (o Overheating) Empty() bool { return o.NoData }
func (Overheating) sealed() {}

func (CapacityFade) Detector() string { return DetectorCapacityFade }
func (c CapacityFade) IsAnomaly() bool { return c.Anomaly }
func (c CapacityFade) Summary() string { return c.Message }
func (c CapacityFade) Empty() bool { return c.NoData }
func (CapacityFade) sealed() {}

func (SoCDrift) Detector() string { return DetectorSoCDrift }
func (s SoCDrift) IsAnomaly() bool { return s.Anomaly }
func (s SoCDrift) Summary() string { return s.Message }
func (s SoCDrift) Empty() bool { return s.NoData }
func (SoCDrift) sealed() {}
