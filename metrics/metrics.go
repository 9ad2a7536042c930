// Package metrics exposes Prometheus collectors for the HTTP server and the
// content index.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alexbon"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	indexPosts          *prometheus.GaugeVec
	indexCollisions     prometheus.Gauge
	indexBuildDuration  prometheus.Histogram
	indexReloadsTotal   *prometheus.CounterVec
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path", "status"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		indexPosts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_posts",
				Help:      "Number of indexed posts per locale",
			},
			[]string{"locale"},
		),
		indexCollisions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_translation_collisions",
				Help:      "Translation group collisions seen by the last index build",
			},
		),
		indexBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_build_duration_seconds",
				Help:      "Time spent loading content and building the index",
				Buckets:   prometheus.DefBuckets,
			},
		),
		indexReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_reloads_total",
				Help:      "Index reloads by result",
			},
			[]string{"result"},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.httpRequestDuration,
		m.httpRequestsTotal,
		m.indexPosts,
		m.indexCollisions,
		m.indexBuildDuration,
		m.indexReloadsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Middleware records request duration and count, labelled by the matched
// route pattern rather than the raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			path := normalizePath(c.Path())
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			m.httpRequestsTotal.WithLabelValues(labels...).Inc()
			return err
		}
	}
}

// ObserveIndex records the shape of a freshly built index.
func (m *Metrics) ObserveIndex(postsByLocale map[string]int, collisions int, took time.Duration) {
	if m == nil {
		return
	}
	for locale, n := range postsByLocale {
		m.indexPosts.WithLabelValues(locale).Set(float64(n))
	}
	m.indexCollisions.Set(float64(collisions))
	m.indexBuildDuration.Observe(took.Seconds())
}

// ReloadDone counts a reload attempt.
func (m *Metrics) ReloadDone(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.indexReloadsTotal.WithLabelValues(result).Inc()
}

func normalizePath(path string) string {
	if path == "" {
		return "unknown"
	}
	return path
}
