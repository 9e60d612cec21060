package webapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus instruments for the HTTP layer and the
// audio pipeline. A dedicated registry keeps the default Go collectors
// out of the scrape output.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	decodeDuration   prometheus.Histogram
	pipelineDuration prometheus.Histogram
	visualizations   prometheus.Counter
	analyses         prometheus.Counter
	uploadBytes      prometheus.Histogram
	embeddedFrames   prometheus.Histogram
	urlFetchFailures prometheus.Counter
	pipelineFailures prometheus.Counter
}

// NewMetrics creates the instrument set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	const ns = "mach"

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code.",
		}, []string{"endpoint", "method", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
		httpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_errors_total",
			Help:      "HTTP error responses by endpoint and class.",
		}, []string{"endpoint", "class"}),
		decodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "audio_decode_duration_seconds",
			Help:      "Time spent decoding and resampling input audio.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		pipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end feature extraction and embedding time.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		visualizations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "visualizations_total",
			Help:      "Completed visualization requests.",
		}),
		analyses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "analyses_total",
			Help:      "Completed analysis requests.",
		}),
		uploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "upload_bytes",
			Help:      "Size of uploaded or fetched audio payloads.",
			Buckets:   prometheus.ExponentialBuckets(64*1024, 4, 8),
		}),
		embeddedFrames: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "embedded_frames",
			Help:      "Number of frames per embedding after striding.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 12),
		}),
		urlFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "url_fetch_failures_total",
			Help:      "Failed remote audio fetches.",
		}),
		pipelineFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pipeline_failures_total",
			Help:      "Visualization or analysis pipelines that errored.",
		}),
	}
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// errorClass buckets a status code for the error counter.
func errorClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "none"
	}
}

// Middleware wraps a handler to record request counts, latency and
// error classes per endpoint.
func (m *Metrics) Middleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start).Seconds()
		m.httpRequests.WithLabelValues(endpoint, r.Method, strconv.Itoa(wrapped.status)).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, r.Method).Observe(elapsed)
		if wrapped.status >= http.StatusBadRequest {
			m.httpErrors.WithLabelValues(endpoint, errorClass(wrapped.status)).Inc()
		}
	}
}

// statusRecorder captures the response status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
