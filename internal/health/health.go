// Package health derives state of health and cycle counts from capacity and usage data.
package health

import (
	"errors"
	"fmt"
	"math"

	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

// ErrInvalidCapacity is returned when the baseline capacity is not positive.
var ErrInvalidCapacity = errors.New("baseline capacity must be positive")

// fullCycle is the accumulated SoC swing, in percent, that makes one cycle.
const fullCycle = 100.0

// StateOfHealth returns current/baseline as a percentage rounded to 2 decimals.
// The value is not clamped: recalibrated packs may exceed 100%.
func StateOfHealth(baseline, current float64) (float64, error) {
	if baseline <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidCapacity, baseline)
	}
	return utils.RoundTo(current/baseline*100, 2), nil
}

// CountCycles accumulates |soc_end - soc_start| over entries of the given kind
// and counts every full 100% worth, carrying the remainder forward.
func CountCycles(payload models.BatteryPayload, kind string) (int, error) {
	var (
		accumulated float64
		cycles      int
	)
	for i := range payload.UsageLog {
		event, err := payload.EventKind(i)
		if err != nil {
			return 0, err
		}
		if event != kind {
			continue
		}
		delta, err := payload.SoCDelta(i)
		if err != nil {
			return 0, err
		}
		accumulated += math.Abs(delta)
		for accumulated >= fullCycle {
			cycles++
			accumulated -= fullCycle
		}
	}
	return cycles, nil
}

// Calculate derives the full health record for a payload.
func Calculate(payload models.BatteryPayload) (models.BatteryHealthData, error) {
	pack := payload.BatteryPack
	soh, err := StateOfHealth(pack.BaselineCapacityKWh, pack.CurrentCapacityKWh)
	if err != nil {
		return models.BatteryHealthData{}, fmt.Errorf("state of health: %w", err)
	}
	charge, err := CountCycles(payload, models.EventCharge)
	if err != nil {
		return models.BatteryHealthData{}, fmt.Errorf("charge cycles: %w", err)
	}
	discharge, err := CountCycles(payload, models.EventDischarge)
	if err != nil {
		return models.BatteryHealthData{}, fmt.Errorf("discharge cycles: %w", err)
	}
	return models.BatteryHealthData{
		StateOfHealthPercent: soh,
		ChargeCycles:         charge,
		DischargeCycles:      discharge,
	}, nil
}
