package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketpulse",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"route", "method", "status"},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketpulse",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	OrdersExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketpulse",
			Name:      "orders_total",
			Help:      "Simulated orders by side and outcome",
		},
		[]string{"side", "outcome"},
	)

	QuoteFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketpulse",
			Name:      "quote_fetch_duration_seconds",
			Help:      "Duration of upstream quote fetches",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"provider", "outcome"},
	)
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Instrument records count and duration per chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(sw.status)
		RequestCount.WithLabelValues(route, r.Method, status).Inc()
		RequestDuration.WithLabelValues(route, r.Method, status).Observe(time.Since(start).Seconds())
	})
}
