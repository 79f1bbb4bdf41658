package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores Prometheus de la API. Se registra en un
// registry propio para no arrastrar los colectores globales.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lifecycleOps *prometheus.CounterVec
}

// NewMetrics construye y registra los colectores.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrimonio",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP por ruta, método y status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "patrimonio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		lifecycleOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrimonio",
			Subsystem: "assets",
			Name:      "lifecycle_operations_total",
			Help:      "Operaciones de ciclo de vida completadas, por operación.",
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.duration, m.lifecycleOps)
	return m
}

// LifecycleOp cuenta una operación de ciclo de vida completada.
func (m *Metrics) LifecycleOp(op string) {
	m.lifecycleOps.WithLabelValues(op).Inc()
}

// Middleware mide cada petición (ruta registrada, no URL cruda, para acotar
// la cardinalidad).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		method := c.Method()
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Response().StatusCode())).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
