// Package metrics expone métricas Prometheus de HTTP y de autenticación.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores. Se registran en el Registerer recibido.
type Metrics struct {
	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authOperations      *prometheus.CounterVec
	guardRejections     *prometheus.CounterVec
}

// New crea y registra los colectores.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		authOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_operations_total",
			Help: "Auth flow outcomes by operation and result code.",
		}, []string{"operation", "result"}),
		guardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_guard_rejections_total",
			Help: "Requests rejected by the session or role guard, by error code.",
		}, []string{"guard", "code"}),
	}
	reg.MustRegister(m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration, m.authOperations, m.guardRejections)
	return m
}

// Middleware mide RPS, latencia y peticiones en vuelo. Usa la ruta registrada, no el path, para
// no crear una serie por cada token de reset.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		// el error se resuelve aquí para medir el status real que ve el cliente
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		route := c.Route().Path
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(labels...).Inc()
		return nil
	}
}

// AuthOperation registra el resultado de una operación de auth ("ok" o el código de error).
func (m *Metrics) AuthOperation(operation, result string) {
	if m == nil {
		return
	}
	m.authOperations.WithLabelValues(operation, result).Inc()
}

// GuardRejection registra un rechazo del guard de sesión o de rol.
func (m *Metrics) GuardRejection(guard, code string) {
	if m == nil {
		return
	}
	m.guardRejections.WithLabelValues(guard, code).Inc()
}
