package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/battery-health/internal/models"
)

const (
	// OutcomeSuccess labels analyses that produced a report.
	OutcomeSuccess = "success"
	// OutcomeError labels analyses that ended in a report failure.
	OutcomeError = "error"
)

var (
	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "battery_health",
			Name:      "reports_total",
			Help:      "Total number of battery analyses handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	reportDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "battery_health",
			Name:      "report_seconds",
			Help:      "Battery report generation latency in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	anomaliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "battery_health",
			Name:      "anomalies_total",
			Help:      "Anomalies flagged in successful reports, partitioned by detector.",
		},
		[]string{"detector"},
	)
)

// Register attaches battery-health collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		reportsTotal,
		reportDurationSeconds,
		anomaliesTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveReport records the duration and outcome of one analysis, plus the
// detectors that flagged an anomaly when a report was produced.
func ObserveReport(duration time.Duration, result models.ReportResult) {
	outcome := OutcomeError
	if result.OK() {
		outcome = OutcomeSuccess
		for name, anomaly := range result.Report.Anomalies {
			if anomaly.IsAnomaly() {
				anomaliesTotal.WithLabelValues(name).Inc()
			}
		}
	}
	reportsTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	reportDurationSeconds.Observe(duration.Seconds())
}
