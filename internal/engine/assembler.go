package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/miradorstack/battery-health/internal/health"
	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

// DetectorRunner runs every registered detector against a payload.
type DetectorRunner interface {
	RunAll(ctx context.Context, payload models.BatteryPayload) (map[string]models.AnomalyResult, error)
}

// Assembler merges health metrics and detector results into one report.
type Assembler struct {
	logger   *slog.Logger
	registry DetectorRunner
	now      func() time.Time
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithClock overrides the wall clock used for default timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// NewAssembler constructs a report assembler.
func NewAssembler(logger *slog.Logger, registry DetectorRunner, opts ...Option) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Assembler{
		logger:   logger,
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble computes health metrics, runs all detectors and builds the report.
// Any failure aborts the whole report.
func (a *Assembler) Assemble(ctx context.Context, payload models.BatteryPayload) (models.BatteryHealthReport, error) {
	if a.registry == nil {
		return models.BatteryHealthReport{}, fmt.Errorf("detector registry not configured")
	}

	batteryHealth, err := health.Calculate(payload)
	if err != nil {
		return models.BatteryHealthReport{}, fmt.Errorf("health metrics: %w", err)
	}

	anomalies, err := a.registry.RunAll(ctx, payload)
	if err != nil {
		return models.BatteryHealthReport{}, fmt.Errorf("anomaly detection: %w", err)
	}

	timestamp := payload.Timestamp
	if timestamp == "" {
		timestamp = utils.ReportTimestamp(a.now())
	}

	return models.BatteryHealthReport{
		VehicleID:     vehicleID(payload),
		Timestamp:     timestamp,
		BatteryHealth: batteryHealth,
		Anomalies:     anomalies,
	}, nil
}

// BuildReport is the single failure boundary: errors from Assemble are turned
// into a ReportFailure instead of being returned.
func (a *Assembler) BuildReport(ctx context.Context, payload models.BatteryPayload) models.ReportResult {
	report, err := a.Assemble(ctx, payload)
	if err != nil {
		a.logger.Warn("battery report failed",
			slog.String("vehicle_id", vehicleID(payload)),
			slog.Any("error", err),
		)
		return models.Failed(models.ReportFailure{
			Error:     fmt.Sprintf("Failed to generate battery report: %v", err),
			VehicleID: vehicleID(payload),
			Timestamp: utils.ReportTimestamp(a.now()),
		})
	}

	a.logger.Debug("battery report built",
		slog.String("vehicle_id", report.VehicleID),
		slog.Float64("state_of_health_percent", report.BatteryHealth.StateOfHealthPercent),
		slog.Int("anomalies", report.FlaggedCount()),
	)
	return models.Succeeded(report)
}

func vehicleID(payload models.BatteryPayload) string {
	if payload.VehicleID == "" {
		return models.DefaultVehicleID
	}
	return payload.VehicleID
}
