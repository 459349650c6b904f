// Package observability expone métricas Prometheus del servicio.
package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registry propio con métricas HTTP y del motor de movimientos.
type Metrics struct {
	registry          *prometheus.Registry
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	movementsApplied  *prometheus.CounterVec
	movementsRejected *prometheus.CounterVec
}

// NewMetrics inicializa el registry y las métricas.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_http_requests_total",
		Help: "Peticiones HTTP por ruta, método y código de estado.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_applied_total",
		Help: "Movimientos aplicados por tipo.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_rejected_total",
		Help: "Movimientos rechazados por tipo y motivo.",
	}, []string{"type", "reason"})
	registry.MustRegister(requests, duration, applied, rejected)
	return &Metrics{
		registry:          registry,
		requestsTotal:     requests,
		requestDuration:   duration,
		movementsApplied:  applied,
		movementsRejected: rejected,
	}
}

// Handler endpoint /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware registra conteo y duración de cada petición, etiquetada por el patrón de ruta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := "unknown"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Registerer expone el registry para métricas adicionales.
func (m *Metrics) Registerer() prometheus.Registerer {
	return m.registry
}

// MovementApplied implementa inventory.MovementRecorder.
func (m *Metrics) MovementApplied(movementType string) {
	m.movementsApplied.WithLabelValues(movementType).Inc()
}

// MovementRejected implementa inventory.MovementRecorder.
func (m *Metrics) MovementRejected(movementType, reason string) {
	m.movementsRejected.WithLabelValues(movementType, reason).Inc()
}
