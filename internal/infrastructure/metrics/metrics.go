// Package metrics собирает метрики Prometheus приложения: HTTP-запросы, попадания в кэш, состояние зависимостей.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

// Collector держит собственный реестр, чтобы тесты могли создавать независимые экземпляры.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheErrors prometheus.Counter

	ProbeUp *prometheus.GaugeVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_cache_hits_total",
			Help:      "Product reads served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_cache_misses_total",
			Help:      "Product reads that fell through to the document store",
		}),
		CacheErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_cache_errors_total",
			Help:      "Cache calls that failed or were rejected by the circuit breaker",
		}),
		ProbeUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dependency_up",
				Help:      "1 if the last health probe of the dependency succeeded",
			},
			[]string{"component"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.CacheHits,
		c.CacheMisses,
		c.CacheErrors,
		c.ProbeUp,
	)

	return c
}

func (c *Collector) CacheHit() {
	c.CacheHits.Inc()
}

func (c *Collector) CacheMiss() {
	c.CacheMisses.Inc()
}

func (c *Collector) CacheError() {
	c.CacheErrors.Inc()
}

// ObserveHTTP учитывает завершённый HTTP-запрос. route — шаблон маршрута chi, а не фактический путь.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) SetProbe(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	c.ProbeUp.WithLabelValues(component).Set(v)
}

// ReportHealth переносит результаты проверки зависимостей в gauge dependency_up.
func (c *Collector) ReportHealth(reports []usecase.ProbeReport) {
	for _, r := range reports {
		c.SetProbe(r.Component, r.Status == usecase.ProbeUp)
	}
}

// Handler отдаёт метрики реестра в формате Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
