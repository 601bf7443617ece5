package detectors

import (
	"fmt"
	"math"

	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

const unknownTimestamp = "unknown"

// SoCDriftDetector flags usage-log entries whose state-of-charge swing exceeds
// 100%. It is a structural sanity check on the log, not a statistical estimator.
type SoCDriftDetector struct{}

// NewSoCDriftDetector creates a state-of-charge drift detector.
func NewSoCDriftDetector() *SoCDriftDetector {
	return &SoCDriftDetector{}
}

// Name implements Detector.
func (d *SoCDriftDetector) Name() string { return models.DetectorSoCDrift }

// Detect collects every impossible swing, preserving log order.
func (d *SoCDriftDetector) Detect(payload models.BatteryPayload) (models.AnomalyResult, error) {
	if len(payload.UsageLog) == 0 {
		return models.SoCDrift{NoData: true, Message: "No usage data available"}, nil
	}

	changes := make([]models.SoCChange, 0)
	for i, entry := range payload.UsageLog {
		delta, err := payload.SoCDelta(i)
		if err != nil {
			return nil, err
		}
		swing := math.Abs(delta)
		if !utils.Exceeds(swing, SoCDriftCeiling) {
			continue
		}
		event, err := payload.EventKind(i)
		if err != nil {
			return nil, err
		}
		timestamp := entry.Timestamp
		if timestamp == "" {
			timestamp = unknownTimestamp
		}
		changes = append(changes, models.SoCChange{Timestamp: timestamp, SoCChange: swing, Event: event})
	}

	result := models.SoCDrift{
		Anomaly:                 len(changes) > 0,
		UnrealisticChangesCount: len(changes),
		UnrealisticChanges:      changes,
		Message:                 "SoC estimation normal",
	}
	if result.Anomaly {
		result.Message = fmt.Sprintf("SoC drift detected: %d unrealistic changes", len(changes))
	}
	return result, nil
}
