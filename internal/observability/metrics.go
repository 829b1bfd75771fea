package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const namespace = "aet_studio"

type Metrics struct {
	registry     *prometheus.Registry
	apiRequests  *prometheus.CounterVec
	apiLatency   *prometheus.HistogramVec
	apiInflight  prometheus.Gauge
	aiRequests   *prometheus.CounterVec
	aiLatency    *prometheus.HistogramVec
	generations  *prometheus.CounterVec
	genLatency   *prometheus.HistogramVec
	images       *prometheus.CounterVec
	normalized   *prometheus.CounterVec
	regenRejects prometheus.Counter
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide metrics set once. Later calls return the same instance.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics initialized", "namespace", namespace)
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// NewMetrics builds an isolated metrics set on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ai", Name: "requests_total",
			Help: "Upstream model calls by provider, operation and outcome.",
		}, []string{"provider", "operation", "status"}),
		aiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ai", Name: "request_duration_seconds",
			Help:    "Upstream model call latency.",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
		}, []string{"provider", "operation"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "resources", Name: "generations_total",
			Help: "Resource generations by type and outcome.",
		}, []string{"type", "outcome"}),
		genLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "resources", Name: "generation_duration_seconds",
			Help:    "End to end resource generation latency.",
			Buckets: []float64{5, 10, 20, 30, 60, 90, 120, 180, 300},
		}, []string{"type"}),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "images", Name: "total",
			Help: "Image outcomes: persisted, inline, failed.",
		}, []string{"outcome"}),
		normalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "images", Name: "normalized_total",
			Help: "Inline images seen at save time by outcome.",
		}, []string{"outcome"}),
		regenRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "images", Name: "regeneration_rejected_total",
			Help: "Regeneration requests rejected because the position was busy.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aiRequests, m.aiLatency,
		m.generations, m.genLatency,
		m.images, m.normalized, m.regenRejects,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) DecInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPIRequest(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	route = orUnknown(route)
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObserveAIRequest(provider, operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	provider = orUnknown(provider)
	m.aiRequests.WithLabelValues(provider, operation, orUnknown(status)).Inc()
	if dur > 0 {
		m.aiLatency.WithLabelValues(provider, operation).Observe(dur.Seconds())
	}
}

func (m *Metrics) ObserveGeneration(resourceType, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	resourceType = orUnknown(resourceType)
	m.generations.WithLabelValues(resourceType, outcome).Inc()
	if outcome == "ok" && dur > 0 {
		m.genLatency.WithLabelValues(resourceType).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncImage(outcome string) {
	if m == nil {
		return
	}
	m.images.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddNormalized(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.normalized.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) IncRegenerationRejected() {
	if m == nil {
		return
	}
	m.regenRejects.Inc()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
