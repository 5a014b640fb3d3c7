package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Validation pipeline metrics
	ManifestValidationsTotal *prometheus.CounterVec
	ManifestWarningsTotal    prometheus.Counter
	ArchiveRejectionsTotal   *prometheus.CounterVec
	ArchiveSizeBytes         prometheus.Histogram

	// Marketplace metrics
	PluginSubmissionsTotal *prometheus.CounterVec
	PluginDownloadsTotal   prometheus.Counter
	PluginsTotal           prometheus.Gauge

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manifold_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "manifold_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ManifestValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manifold_manifest_validations_total",
				Help: "Manifest validation outcomes",
			},
			[]string{"result"},
		),
		ManifestWarningsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "manifold_manifest_warnings_total",
				Help: "Warnings emitted while adapting and validating manifests",
			},
		),
		ArchiveRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manifold_archive_rejections_total",
				Help: "Package archives rejected at the boundary check",
			},
			[]string{"reason"},
		),
		ArchiveSizeBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "manifold_archive_size_bytes",
				Help:    "Size of submitted package archives in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		PluginSubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manifold_plugin_submissions_total",
				Help: "Plugin submissions by outcome",
			},
			[]string{"outcome"},
		),
		PluginDownloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "manifold_plugin_downloads_total",
				Help: "Plugin archive downloads",
			},
		),
		PluginsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "manifold_plugins_total",
				Help: "Plugins currently listed in the marketplace",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "manifold_cache_hits_total",
				Help: "Manifest cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "manifold_cache_misses_total",
				Help: "Manifest cache misses",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ManifestValidationsTotal,
		m.ManifestWarningsTotal,
		m.ArchiveRejectionsTotal,
		m.ArchiveSizeBytes,
		m.PluginSubmissionsTotal,
		m.PluginDownloadsTotal,
		m.PluginsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape handler for this metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveValidation records a manifest validation outcome.
func (m *Metrics) ObserveValidation(valid bool, warningCount int) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.ManifestValidationsTotal.WithLabelValues(result).Inc()
	m.ManifestWarningsTotal.Add(float64(warningCount))
}

// InstrumentHandler wraps an HTTP handler with request count and duration
// metrics. The path label is the mux route template, not the raw URL, to
// keep cardinality bounded.
func (m *Metrics) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
