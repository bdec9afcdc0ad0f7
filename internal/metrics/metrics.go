// metrics — Prometheus-коллекторы HTTP API и доменных операций.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "git_comments"

// Metrics — набор коллекторов сервиса.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPPanics   *prometheus.CounterVec
	HTTPTimeouts *prometheus.CounterVec
	CommentOps   *prometheus.CounterVec
}

// New регистрирует коллекторы в reg (nil -> prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPPanics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Recovered handler panics by route pattern.",
		}, []string{"route"}),
		HTTPTimeouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "timeouts_total",
			Help:      "Requests that hit the service deadline, by route pattern.",
		}, []string{"route"}),
		CommentOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comment_operations_total",
			Help:      "Comment operations by kind (list, show, create, update, delete) and result code.",
		}, []string{"op", "result"}),
	}
}

// ObserveOp увеличивает счётчик доменной операции. Безопасен для nil.
func (m *Metrics) ObserveOp(op, result string) {
	if m == nil {
		return
	}

	m.CommentOps.WithLabelValues(op, result).Inc()
}

// ObservePanic учитывает перехваченную панику. Безопасен для nil.
func (m *Metrics) ObservePanic(route string) {
	if m == nil {
		return
	}

	m.HTTPPanics.WithLabelValues(route).Inc()
}

// ObserveTimeout учитывает запрос, упёршийся в дедлайн. Безопасен для nil.
func (m *Metrics) ObserveTimeout(route string) {
	if m == nil {
		return
	}

	m.HTTPTimeouts.WithLabelValues(route).Inc()
}
