// Package telemetry exposes Prometheus metrics for the survey runtime.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansTotal counts platform network scans by outcome ("ok", "error").
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wavescout",
			Name:      "scans_total",
			Help:      "Total number of wireless network scans issued to the platform",
		},
		[]string{"outcome"},
	)

	// ScanCacheHits counts scans served from the inventory cache.
	ScanCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wavescout",
			Name:      "scan_cache_hits_total",
			Help:      "Total number of scan requests answered from the TTL cache",
		},
	)

	// AccessPointsSeen records how many access points the last scan returned.
	AccessPointsSeen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wavescout",
			Name:      "access_points_seen",
			Help:      "Number of access points returned by the most recent scan",
		},
	)

	// ConnectAttempts counts connection attempts by outcome
	// ("connected", "failed").
	ConnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wavescout",
			Name:      "connect_attempts_total",
			Help:      "Total number of wireless connection attempts",
		},
		[]string{"outcome"},
	)

	// TestDuration observes network test runtimes per test name.
	TestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wavescout",
			Name:      "test_duration_seconds",
			Help:      "Duration of network tests run after a successful connection",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"test"},
	)

	// SurveyPasses counts completed survey passes.
	SurveyPasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wavescout",
			Name:      "survey_passes_total",
			Help:      "Total number of completed survey passes",
		},
	)

	once sync.Once
)

// Init registers all metrics with the default Prometheus registry.
// Idempotent; safe to call from multiple entry points.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			ScansTotal,
			ScanCacheHits,
			AccessPointsSeen,
			ConnectAttempts,
			TestDuration,
			SurveyPasses,
		)
	})
}
