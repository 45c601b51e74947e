package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teastore",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "teastore",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route", "method"})

	prometheus.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// Middleware records per-route request counts and latency. Routes are
// labelled by chi pattern, not raw path, to keep cardinality bounded.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		m.LatencyMS.WithLabelValues(route, r.Method).Observe(float64(time.Since(start).Milliseconds()))
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
