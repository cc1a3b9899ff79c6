// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every webdiner collector on a private Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	OrdersWritten   *prometheus.CounterVec
	BatchFailures   prometheus.Counter
}

func NewRegistry() *Registry {
	m := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdiner_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webdiner_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),
		OrdersWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webdiner_orders_written_total",
				Help: "Orders created or deleted through batch operations",
			},
			[]string{"op"},
		),
		BatchFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "webdiner_batch_partial_failures_total",
				Help: "Order batches that left some dates unwritten",
			},
		),
	}
	m.reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.OrdersWritten,
		m.BatchFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Registry) ObserveBatch(created, deleted int, partial bool) {
	m.OrdersWritten.WithLabelValues("create").Add(float64(created))
	m.OrdersWritten.WithLabelValues("delete").Add(float64(deleted))
	if partial {
		m.BatchFailures.Inc()
	}
}

// Gatherer exposes the underlying registry, mostly for tests.
func (m *Registry) Gatherer() prometheus.Gatherer { return m.reg }

func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
