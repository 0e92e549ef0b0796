package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Seed run outcomes.
const (
	SeedOutcomeSeeded        = "seeded"
	SeedOutcomeAlreadySeeded = "already_seeded"
	SeedOutcomeInProgress    = "in_progress"
	SeedOutcomePartial       = "partial_failure"
	SeedOutcomeUnavailable   = "store_unavailable"
	SeedOutcomeError         = "error"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	seedRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "runs_total",
			Help:      "Seed runs by outcome.",
		},
		[]string{"outcome"},
	)
	seedDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "duration_seconds",
			Help:      "Seed run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	seedDocuments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "documents_written_total",
			Help:      "Documents written by the seeder per collection.",
		},
		[]string{"collection"},
	)
	settingsUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "settings",
			Name:      "updates_total",
			Help:      "Site settings updates by result.",
		},
		[]string{"success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, seedRuns, seedDuration, seedDocuments, settingsUpdates)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordSeedRun(outcome string, duration time.Duration) {
	RegisterMetrics()
	seedRuns.WithLabelValues(outcome).Inc()
	seedDuration.Observe(duration.Seconds())
}

func RecordSeedDocuments(collection string, n int) {
	RegisterMetrics()
	seedDocuments.WithLabelValues(collection).Add(float64(n))
}

func RecordSettingsUpdate(success bool) {
	RegisterMetrics()
	settingsUpdates.WithLabelValues(strconv.FormatBool(success)).Inc()
}
