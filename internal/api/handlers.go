package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/battery-health/internal/models"
)

// PayloadFromStruct maps the gRPC request into a domain battery payload.
func PayloadFromStruct(req *structpb.Struct) (models.BatteryPayload, error) {
	if req == nil {
		return models.BatteryPayload{}, fmt.Errorf("request is nil")
	}
	data, err := protojson.Marshal(req)
	if err != nil {
		return models.BatteryPayload{}, fmt.Errorf("encode request: %w", err)
	}
	return models.DecodePayload(bytes.NewReader(data))
}

// PayloadToStruct converts a domain payload into the request representation.
func PayloadToStruct(payload models.BatteryPayload) (*structpb.Struct, error) {
	return toStruct(payload)
}

// ResultToStruct converts a report result into the response representation.
func ResultToStruct(result models.ReportResult) (*structpb.Struct, error) {
	return toStruct(result)
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("convert to struct: %w", err)
	}
	return out, nil
}

type wireResult struct {
	Status string                `json:"status"`
	Report *wireReport           `json:"report"`
	Error  *models.ReportFailure `json:"error"`
}

type wireReport struct {
	VehicleID     string                     `json:"vehicle_id"`
	Timestamp     string                     `json:"timestamp"`
	BatteryHealth models.BatteryHealthData   `json:"battery_health"`
	Anomalies     map[string]json.RawMessage `json:"anomalies"`
}

// ResultFromStruct decodes a response back into a report result. Anomaly
// entries are matched to their variant by detector name.
func ResultFromStruct(resp *structpb.Struct) (models.ReportResult, error) {
	if resp == nil {
		return models.ReportResult{}, fmt.Errorf("response is nil")
	}
	data, err := protojson.Marshal(resp)
	if err != nil {
		return models.ReportResult{}, fmt.Errorf("encode response: %w", err)
	}
	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return models.ReportResult{}, fmt.Errorf("decode response: %w", err)
	}

	switch wire.Status {
	case models.StatusError:
		if wire.Error == nil {
			return models.ReportResult{}, fmt.Errorf("error result without details")
		}
		return models.Failed(*wire.Error), nil
	case models.StatusOK:
		if wire.Report == nil {
			return models.ReportResult{}, fmt.Errorf("ok result without report")
		}
	default:
		return models.ReportResult{}, fmt.Errorf("unknown result status %q", wire.Status)
	}

	report := models.BatteryHealthReport{
		VehicleID:     wire.Report.VehicleID,
		Timestamp:     wire.Report.Timestamp,
		BatteryHealth: wire.Report.BatteryHealth,
		Anomalies:     make(map[string]models.AnomalyResult, len(wire.Report.Anomalies)),
	}
	for name, raw := range wire.Report.Anomalies {
		anomaly, err := decodeAnomaly(name, raw)
		if err != nil {
			return models.ReportResult{}, err
		}
		report.Anomalies[name] = anomaly
	}
	return models.Succeeded(report), nil
}

func decodeAnomaly(name string, raw json.RawMessage) (models.AnomalyResult, error) {
	var (
		result models.AnomalyResult
		err    error
	)
	switch name {
	case models.DetectorVoltageImbalance:
		var v models.VoltageImbalance
		err = json.Unmarshal(raw, &v)
		result = v
	case models.DetectorOverheating:
		var v models.Overheating
		err = json.Unmarshal(raw, &v)
		result = v
	case models.DetectorCapacityFade:
		var v models.CapacityFade
		err = json.Unmarshal(raw, &v)
		result = v
	case models.DetectorSoCDrift:
		var v models.SoCDrift
		err = json.Unmarshal(raw, &v)
		result = v
	default:
		return nil, fmt.Errorf("unknown detector %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return result, nil
}
