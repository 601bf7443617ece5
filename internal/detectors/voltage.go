package detectors

import (
	"fmt"
	"strconv"

	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

// VoltageImbalanceDetector flags packs whose cell voltages spread too far apart.
type VoltageImbalanceDetector struct {
	threshold float64
}

// NewVoltageImbalanceDetector creates a detector flagging spreads above threshold volts.
func NewVoltageImbalanceDetector(threshold float64) *VoltageImbalanceDetector {
	return &VoltageImbalanceDetector{threshold: threshold}
}

// Name implements Detector.
func (d *VoltageImbalanceDetector) Name() string { return models.DetectorVoltageImbalance }

// Detect compares the highest and lowest cell voltage.
func (d *VoltageImbalanceDetector) Detect(payload models.BatteryPayload) (models.AnomalyResult, error) {
	if len(payload.Cells) == 0 {
		return models.VoltageImbalance{NoData: true, Message: "No voltage data available"}, nil
	}

	minV, err := payload.CellVoltage(0)
	if err != nil {
		return nil, err
	}
	maxV := minV
	for i := 1; i < len(payload.Cells); i++ {
		v, err := payload.CellVoltage(i)
		if err != nil {
			return nil, err
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	spread := maxV - minV
	result := models.VoltageImbalance{
		Anomaly:       utils.Exceeds(spread, d.threshold),
		VoltageSpread: utils.RoundTo(spread, 3),
		MinVoltage:    utils.RoundTo(minV, 3),
		MaxVoltage:    utils.RoundTo(maxV, 3),
		Message:       "Voltage levels normal",
	}
	if result.Anomaly {
		result.Message = fmt.Sprintf("Voltage imbalance detected: %sV spread", strconv.FormatFloat(result.VoltageSpread, 'f', -1, 64))
	}
	return result, nil
}
