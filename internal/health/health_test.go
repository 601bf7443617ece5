package health

import (
	"errors"
	"testing"

	"github.com/miradorstack/battery-health/internal/models"
)

func entry(event string, start, end float64) models.UsageEvent {
	return models.UsageEvent{Event: models.String(event), SoCStart: models.Float64(start), SoCEnd: models.Float64(end)}
}

func TestStateOfHealth(t *testing.T) {
	cases := []struct {
		baseline, current, want float64
	}{
		{60, 45, 75},
		{75, 50, 66.67},
		{50, 55, 110},
		{40, -2, -5},
	}
	for _, tc := range cases {
		got, err := StateOfHealth(tc.baseline, tc.current)
		if err != nil {
			t.Fatalf("StateOfHealth(%v, %v): %v", tc.baseline, tc.current, err)
		}
		if got != tc.want {
			t.Fatalf("StateOfHealth(%v, %v) = %v, want %v", tc.baseline, tc.current, got, tc.want)
		}
	}
}

func TestStateOfHealthRejectsNonPositiveBaseline(t *testing.T) {
	for _, baseline := range []float64{0, -10} {
		if _, err := StateOfHealth(baseline, 40); !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("baseline %v: expected ErrInvalidCapacity, got %v", baseline, err)
		}
	}
}

func TestCountCyclesCarriesRemainder(t *testing.T) {
	payload := models.BatteryPayload{UsageLog: []models.UsageEvent{
		entry(models.EventCharge, 20, 80),
		entry(models.EventDischarge, 80, 0),
		entry(models.EventCharge, 0, 70),
		entry(models.EventCharge, 30, 100),
		entry("balance", 0, 100),
	}}

	charge, err := CountCycles(payload, models.EventCharge)
	if err != nil {
		t.Fatalf("count charge cycles: %v", err)
	}
	if charge != 2 {
		t.Fatalf("expected 2 charge cycles (60+70+70=200), got %d", charge)
	}
	discharge, err := CountCycles(payload, models.EventDischarge)
	if err != nil {
		t.Fatalf("count discharge cycles: %v", err)
	}
	if discharge != 0 {
		t.Fatalf("expected 0 discharge cycles, got %d", discharge)
	}
}

func TestCountCyclesSplitInvariance(t *testing.T) {
	whole := models.BatteryPayload{UsageLog: []models.UsageEvent{
		entry(models.EventDischarge, 100, 0),
		entry(models.EventDischarge, 100, 50),
	}}
	split := models.BatteryPayload{UsageLog: []models.UsageEvent{
		entry(models.EventDischarge, 100, 75),
		entry(models.EventDischarge, 75, 0),
		entry(models.EventDischarge, 100, 75),
		entry(models.EventDischarge, 75, 50),
	}}

	a, err := CountCycles(whole, models.EventDischarge)
	if err != nil {
		t.Fatalf("count whole: %v", err)
	}
	b, err := CountCycles(split, models.EventDischarge)
	if err != nil {
		t.Fatalf("count split: %v", err)
	}
	if a != b || a != 1 {
		t.Fatalf("expected both logs to count 1 cycle, got whole=%d split=%d", a, b)
	}
}

func TestCountCyclesMultipleCyclesInOneEntry(t *testing.T) {
	payload := models.BatteryPayload{UsageLog: []models.UsageEvent{entry(models.EventCharge, -50, 200)}}
	cycles, err := CountCycles(payload, models.EventCharge)
	if err != nil {
		t.Fatalf("count cycles: %v", err)
	}
	if cycles != 2 {
		t.Fatalf("expected 2 cycles from a 250%% swing, got %d", cycles)
	}
}

func TestCountCyclesMalformedEntry(t *testing.T) {
	payload := models.BatteryPayload{UsageLog: []models.UsageEvent{{SoCStart: models.Float64(0), SoCEnd: models.Float64(50)}}}
	if _, err := CountCycles(payload, models.EventCharge); !errors.Is(err, models.ErrMalformedEntry) {
		t.Fatalf("expected malformed entry error, got %v", err)
	}
}

func TestCalculate(t *testing.T) {
	payload := models.BatteryPayload{
		BatteryPack: models.BatteryPack{BaselineCapacityKWh: 60, CurrentCapacityKWh: 45},
		UsageLog: []models.UsageEvent{
			entry(models.EventCharge, 10, 90),
			entry(models.EventDischarge, 90, 5),
		},
	}
	data, err := Calculate(payload)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	want := models.BatteryHealthData{StateOfHealthPercent: 75, ChargeCycles: 0, DischargeCycles: 0}
	if data != want {
		t.Fatalf("expected %+v, got %+v", want, data)
	}

	payload.BatteryPack.BaselineCapacityKWh = 0
	if _, err := Calculate(payload); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}
