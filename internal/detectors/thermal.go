package detectors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

// OverheatingDetector counts cells above the overheating and critical temperatures.
type OverheatingDetector struct {
	threshold float64
	critical  float64
}

// NewOverheatingDetector creates an overheating detector.
func NewOverheatingDetector(threshold, critical float64) *OverheatingDetector {
	return &OverheatingDetector{threshold: threshold, critical: critical}
}

// Name implements Detector.
func (d *OverheatingDetector) Name() string { return models.DetectorOverheating }

// Detect scans every cell temperature.
func (d *OverheatingDetector) Detect(payload models.BatteryPayload) (models.AnomalyResult, error) {
	if len(payload.Cells) == 0 {
		return models.Overheating{NoData: true, Message: "No temperature data available"}, nil
	}

	var (
		maxTemp  float64
		sum      float64
		hot      int
		critical int
	)
	for i := range payload.Cells {
		temp, err := payload.CellTemperature(i)
		if err != nil {
			return nil, err
		}
		if i == 0 || temp > maxTemp {
			maxTemp = temp
		}
		sum += temp
		if utils.Exceeds(temp, d.threshold) {
			hot++
		}
		if utils.Exceeds(temp, d.critical) {
			critical++
		}
	}

	result := models.Overheating{
		Anomaly:            hot > 0,
		MaxTemperature:     utils.RoundTo(maxTemp, 1),
		AvgTemperature:     utils.RoundTo(sum/float64(len(payload.Cells)), 1),
		HotCellsCount:      hot,
		CriticalCellsCount: critical,
		Severity:           models.SeverityNormal,
		Message:            "Temperature levels normal",
	}
	if result.Anomaly {
		result.Severity = models.SeverityWarning
		if critical > 0 {
			result.Severity = models.SeverityCritical
		}
		result.Message = fmt.Sprintf("Overheating detected: %d cells above %s°C", hot, formatDegrees(d.threshold))
	}
	return result, nil
}

// formatDegrees prints t with its full precision but never fewer than one decimal.
func formatDegrees(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
