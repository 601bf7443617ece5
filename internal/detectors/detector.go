package detectors

import (
	"fmt"

	"github.com/miradorstack/battery-health/internal/models"
)

// SoCDriftCeiling is the largest state-of-charge swing a single log entry can
// legitimately record. It is structural and not part of Thresholds.
const SoCDriftCeiling = 100.0

// Detector turns a battery payload into one typed anomaly result.
// Implementations only read the payload and hold no mutable state.
type Detector interface {
	Name() string
	Detect(payload models.BatteryPayload) (models.AnomalyResult, error)
}

// Thresholds configures detector sensitivity.
type Thresholds struct {
	VoltageImbalance float64
	Overheating      float64
	CriticalTemp     float64
	CapacityFade     float64
}

// DefaultThresholds returns the standard sensitivity profile.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VoltageImbalance: 0.1,
		Overheating:      60.0,
		CriticalTemp:     80.0,
		CapacityFade:     20.0,
	}
}

// Validate rejects profiles that cannot produce meaningful results.
func (t Thresholds) Validate() error {
	if t.VoltageImbalance <= 0 {
		return fmt.Errorf("voltage imbalance threshold must be positive, got %v", t.VoltageImbalance)
	}
	if t.Overheating <= 0 {
		return fmt.Errorf("overheating threshold must be positive, got %v", t.Overheating)
	}
	if t.CriticalTemp < t.Overheating {
		return fmt.Errorf("critical temperature threshold %v is below overheating threshold %v", t.CriticalTemp, t.Overheating)
	}
	if t.CapacityFade <= 0 {
		return fmt.Errorf("capacity fade threshold must be positive, got %v", t.CapacityFade)
	}
	return nil
}

// Standard returns the four built-in detectors configured with t.
func Standard(t Thresholds) []Detector {
	return []Detector{
		NewVoltageImbalanceDetector(t.VoltageImbalance),
		NewOverheatingDetector(t.Overheating, t.CriticalTemp),
		NewCapacityFadeDetector(t.CapacityFade),
		NewSoCDriftDetector(),
	}
}
