package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the recommender and pass metrics
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// MetricsCollector handles Prometheus metrics collection.
// All methods are safe to call on a nil collector.
type MetricsCollector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recommenderRequestsTotal *prometheus.CounterVec
	recommenderDuration      prometheus.Histogram
	planPassesTotal          *prometheus.CounterVec
	imageLookupsTotal        *prometheus.CounterVec
}

// NewMetricsCollector creates a collector backed by its own registry
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &MetricsCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		recommenderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recommender_requests_total",
				Help: "Calls to the recipe recommender by outcome",
			},
			[]string{"outcome"},
		),
		recommenderDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recommender_request_duration_seconds",
				Help:    "Recipe recommender call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		planPassesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plan_passes_total",
				Help: "Recommendation passes by outcome",
			},
			[]string{"outcome"},
		),
		imageLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "image_lookups_total",
				Help: "Recipe image lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Handler exposes the registry for scraping
func (m *MetricsCollector) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// HTTPMiddleware records request counts and durations
func (m *MetricsCollector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveRecommender records a single recommender call
func (m *MetricsCollector) ObserveRecommender(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.recommenderRequestsTotal.WithLabelValues(outcome).Inc()
	m.recommenderDuration.Observe(d.Seconds())
}

// RecordPass records the outcome of a whole recommendation pass
func (m *MetricsCollector) RecordPass(outcome string) {
	if m == nil {
		return
	}
	m.planPassesTotal.WithLabelValues(outcome).Inc()
}

// RecordImageLookup records an image lookup result (found, missing, cached, error)
func (m *MetricsCollector) RecordImageLookup(result string) {
	if m == nil {
		return
	}
	m.imageLookupsTotal.WithLabelValues(result).Inc()
}
