// Package middleware instruments plain http handlers that live outside the main
// router, like the metrics endpoint itself.
package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Middleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the handler metrics on reg. Nil buckets means the prometheus defaults.
func New(reg prometheus.Registerer, buckets []float64) *Middleware {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	factory := promauto.With(reg)
	return &Middleware{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_handler_requests_total",
			Help: "Requests served, by handler, method and code",
		}, []string{"handler", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_handler_request_duration_seconds",
			Help:    "Request latencies, by handler, method and code",
			Buckets: buckets,
		}, []string{"handler", "method", "code"}),
	}
}

func (m *Middleware) WrapHandler(handlerName string, handler http.Handler) http.HandlerFunc {
	labels := prometheus.Labels{"handler": handlerName}
	return promhttp.InstrumentHandlerCounter(
		m.requests.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(
			m.duration.MustCurryWith(labels),
			handler,
		),
	)
}
