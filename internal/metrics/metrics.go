// Package metrics exposes Prometheus metrics for recipe generation,
// recommendations, detection and HTTP traffic.
package metrics

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

const namespace = "smartchef"

// Collector owns a registry so several instances can coexist in tests.
// All methods are safe on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationAttempts *prometheus.CounterVec
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram

	recommendations    prometheus.Counter
	recommendationSize prometheus.Histogram
	catalogRowsSkipped prometheus.Counter
	detectionsTotal    *prometheus.CounterVec
}

// New creates a Collector with Go runtime and process collectors registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status_code"}),
		generationAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_attempts_total",
			Help:      "Text generation attempts by outcome",
		}, []string{"outcome"}),
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Recipes returned by the generator, by source",
		}, []string{"source"}),
		generationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time to produce a recipe including retries",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		recommendations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests served",
		}),
		recommendationSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_results",
			Help:      "Number of recipes returned per recommendation",
			Buckets:   []float64{0, 1, 2, 5, 10},
		}),
		catalogRowsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_rows_skipped_total",
			Help:      "Malformed catalog rows ignored while loading",
		}),
		detectionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Detector calls by result",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry.
func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPMiddleware records request counts and latency per route.
func (m *Collector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// ObserveGenerationAttempt counts one call to the text generator.
func (m *Collector) ObserveGenerationAttempt(outcome string) {
	if m == nil {
		return
	}
	m.generationAttempts.WithLabelValues(outcome).Inc()
}

// ObserveGeneration records a finished generation.
func (m *Collector) ObserveGeneration(fallback bool, d time.Duration) {
	if m == nil {
		return
	}
	source := "generated"
	if fallback {
		source = "fallback"
	}
	m.generations.WithLabelValues(source).Inc()
	m.generationDuration.Observe(d.Seconds())
}

// ObserveRecommendation records one ranked list of n recipes.
func (m *Collector) ObserveRecommendation(n int) {
	if m == nil {
		return
	}
	m.recommendations.Inc()
	m.recommendationSize.Observe(float64(n))
}

// AddCatalogSkipped counts malformed catalog rows.
func (m *Collector) AddCatalogSkipped(n int) {
	if m == nil {
		return
	}
	m.catalogRowsSkipped.Add(float64(n))
}

// ObserveDetection counts a detector call.
func (m *Collector) ObserveDetection(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.detectionsTotal.WithLabelValues(result).Inc()
}
