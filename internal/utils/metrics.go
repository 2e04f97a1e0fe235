// internal/utils/metrics.go
package utils

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "dreamlogger"

var (
	// Registry holds the application collectors; it is served on /metrics.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "path"},
	)

	providerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Calls to external generation providers by outcome.",
		},
		[]string{"provider", "outcome"},
	)

	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Latency of external generation provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 11), // 50ms to ~50s
		},
		[]string{"provider"},
	)

	analysisSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "analysis",
			Name:      "steps_total",
			Help:      "Analysis steps by result source (provider, partial, fallback).",
		},
		[]string{"step", "source"},
	)

	dreamsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dreams",
			Name:      "saved_total",
			Help:      "Dreams persisted, by mood.",
		},
		[]string{"mood"},
	)

	imagesServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "images",
			Name:      "results_total",
			Help:      "Image results by source (generated or placeholder).",
		},
		[]string{"source"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		providerRequests,
		providerDuration,
		analysisSteps,
		dreamsSaved,
		imagesServed,
	)
}

// MetricsHandler exposes Registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncInFlight() { httpInFlight.Inc() }

func DecInFlight() { httpInFlight.Dec() }

// ObserveHTTPRequest records one handled request; path should be the route pattern.
func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveProviderCall records one external provider call. outcome is "success", "error" or "timeout".
func ObserveProviderCall(provider, outcome string, d time.Duration) {
	providerRequests.WithLabelValues(provider, outcome).Inc()
	providerDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func RecordAnalysisStep(step, source string) {
	analysisSteps.WithLabelValues(step, source).Inc()
}

func RecordDreamSaved(mood string) {
	dreamsSaved.WithLabelValues(mood).Inc()
}

func RecordImageResult(source string) {
	imagesServed.WithLabelValues(source).Inc()
}
