package services

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/battery-health/internal/api"
	"github.com/miradorstack/battery-health/internal/metrics"
	"github.com/miradorstack/battery-health/internal/models"
	"github.com/miradorstack/battery-health/internal/utils"
)

// ReportBuilder produces a report result from a payload.
type ReportBuilder interface {
	BuildReport(ctx context.Context, payload models.BatteryPayload) models.ReportResult
}

// BatteryService implements the gRPC BatteryHealth service.
type BatteryService struct {
	logger    *slog.Logger
	builder   ReportBuilder
	latencies *utils.LatencyTracker
}

// NewBatteryService constructs the battery health service facade.
func NewBatteryService(logger *slog.Logger, builder ReportBuilder) *BatteryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatteryService{
		logger:    logger,
		builder:   builder,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Analyze runs one analysis and records metrics for it.
func (s *BatteryService) Analyze(ctx context.Context, payload models.BatteryPayload) (models.ReportResult, error) {
	if s.builder == nil {
		return models.ReportResult{}, utils.NewAppError("analyze", "report builder not configured", nil)
	}

	start := time.Now()
	result := s.builder.BuildReport(ctx, payload)
	duration := time.Since(start)

	metrics.ObserveReport(duration, result)
	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("report latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}
	return result, nil
}

// AnalyzeBattery implements api.BatteryHealthServer.
func (s *BatteryService) AnalyzeBattery(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if s.builder == nil {
		return nil, status.Error(codes.FailedPrecondition, "report builder not configured")
	}

	payload, err := api.PayloadFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Debug("AnalyzeBattery called", slog.String("vehicle_id", payload.VehicleID))

	result, err := s.Analyze(ctx, payload)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	resp, err := api.ResultToStruct(result)
	if err != nil {
		s.logger.Error("encode report result failed", slog.Any("error", err))
		return nil, status.Error(codes.Internal, "failed to encode report")
	}
	return resp, nil
}

// LatencyP95 returns the current p95 report latency.
func (s *BatteryService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
