package detectors

import (
	"fmt"

	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

// CapacityFadeDetector flags packs that lost too much capacity against their baseline.
type CapacityFadeDetector struct {
	threshold float64
}

// NewCapacityFadeDetector creates a detector flagging losses above threshold percent.
func NewCapacityFadeDetector(threshold float64) *CapacityFadeDetector {
	return &CapacityFadeDetector{threshold: threshold}
}

// Name implements Detector.
func (d *CapacityFadeDetector) Name() string { return models.DetectorCapacityFade }

// Detect computes the percentage of baseline capacity lost. A non-positive
// baseline means there is no capacity data to judge.
func (d *CapacityFadeDetector) Detect(payload models.BatteryPayload) (models.AnomalyResult, error) {
	baseline := payload.BatteryPack.BaselineCapacityKWh
	if baseline <= 0 {
		return models.CapacityFade{NoData: true, Message: "No capacity data available"}, nil
	}

	loss := (baseline - payload.BatteryPack.CurrentCapacityKWh) / baseline * 100
	result := models.CapacityFade{
		Anomaly:             utils.Exceeds(loss, d.threshold),
		CapacityLossPercent: utils.RoundTo(loss, 2),
		Message:             "Capacity levels normal",
	}
	if result.Anomaly {
		result.Message = fmt.Sprintf("Significant capacity fade detected: %.1f%% loss", loss)
	}
	return result, nil
}
