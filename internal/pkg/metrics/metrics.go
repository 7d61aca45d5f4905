// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "takeout"

// Metrics are registered on their own registry so tests and the process can
// each build a fresh set.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	SweepRuns       *prometheus.CounterVec
	SweepOrders     *prometheus.CounterVec
	SweepDurationMS *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Reconciliation passes by outcome.",
		}, []string{"sweep", "outcome"}),
		SweepOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "orders_total",
			Help:      "Orders visited by reconciliation passes, by result.",
		}, []string{"sweep", "result"}),
		SweepDurationMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_ms",
			Help:      "Duration of one reconciliation pass in milliseconds.",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 15000, 60000},
		}, []string{"sweep"}),
	}
	m.registry.MustRegister(
		m.Requests, m.LatencyMS,
		m.SweepRuns, m.SweepOrders, m.SweepDurationMS,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by route template, so /user/order/cancel/:id
// is one series however many ids are seen.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				// render now so the written status is what gets counted
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.Requests.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
			m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}

// SweepOutcome is what one pass reported.
type SweepOutcome struct {
	Transitioned int
	Skipped      int
	Failed       int
	Err          error
	Duration     time.Duration
}

func (m *Metrics) ObserveSweep(sweep string, o SweepOutcome) {
	outcome := "ok"
	if o.Err != nil {
		outcome = "error"
	}
	m.SweepRuns.WithLabelValues(sweep, outcome).Inc()
	m.SweepOrders.WithLabelValues(sweep, "transitioned").Add(float64(o.Transitioned))
	m.SweepOrders.WithLabelValues(sweep, "skipped").Add(float64(o.Skipped))
	m.SweepOrders.WithLabelValues(sweep, "failed").Add(float64(o.Failed))
	m.SweepDurationMS.WithLabelValues(sweep).Observe(float64(o.Duration.Milliseconds()))
}
